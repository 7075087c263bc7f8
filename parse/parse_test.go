package parse

import (
	"errors"
	"io"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/signadot/dynobj/encode"
	"github.com/signadot/dynobj/format"
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/schema"
)

func kw(k string, v *ir.Node) ir.KeyVal {
	return ir.KeyVal{Key: ir.Keyword(k), Val: v}
}

func str(n *ir.Node) string {
	return encode.MustString(n, encode.EncodeWire(true))
}

func TestParse(t *testing.T) {
	big80, _ := new(big.Int).SetString("1208925819614629174706176", 10)
	tests := []struct {
		in   string
		want *ir.Node
	}{
		{"nil", ir.Null()},
		{"true", ir.FromBool(true)},
		{"false", ir.FromBool(false)},
		{"-42", ir.FromInt(-42)},
		{"+7", ir.FromInt(7)},
		{"42N", ir.FromBigInt(big.NewInt(42))},
		{"1208925819614629174706176", ir.FromBigInt(big80)},
		{"1.5", ir.FromFloat(1.5)},
		{"1e3", ir.FromFloat(1000)},
		{"1.50M", ir.FromDecimal(decimal.RequireFromString("1.50"))},
		{`"a\"b\né"`, ir.FromString("a\"b\né")},
		{":name", ir.Keyword("name")},
		{"[1 2, 3]", ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2), ir.FromInt(3)})},
		{"(1 2)", ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)})},
		{"#{:a :b}", ir.FromSet([]*ir.Node{ir.Keyword("b"), ir.Keyword("a")})},
		{"{:a 1, :b [nil]}", ir.FromKeyVals([]ir.KeyVal{
			kw("a", ir.FromInt(1)),
			kw("b", ir.FromSlice([]*ir.Node{ir.Null()})),
		})},
		{"{:a 1 #_ :b #_ 2}", ir.FromKeyVals([]ir.KeyVal{kw("a", ir.FromInt(1))})},
		{"; leading\n[1 ; inner\n 2]", ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)})},
		{`#inst "2024-02-03T04:05:06Z"`, ir.FromTime(time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC))},
		{`#base64 "aGk="`, ir.FromBytes([]byte("hi"))},
		{`#uuid "F81D4FAE-7DEC-11D0-A765-00A0C91E6BF6"`,
			ir.Tagged("uuid", ir.FromString("f81d4fae-7dec-11d0-a765-00a0c91e6bf6"))},
		{"#color [1 2]", ir.Tagged("color", ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)}))},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse([]byte(tt.in))
			if err != nil {
				t.Fatal(err)
			}
			if got.Type != tt.want.Type || !ir.Equal(got, tt.want) {
				t.Errorf("got %s %s, want %s", got.Type, str(got), tt.want.Type)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{"", format.ErrSyntax},
		{"[1 2", format.ErrSyntax},
		{"[1 2}", format.ErrSyntax},
		{"{:a}", format.ErrSyntax},
		{"#{1 1}", format.ErrSyntax},
		{"{:a 1 :a 2}", ir.ErrDuplicateKey},
		{"foo", format.ErrSyntax},
		{`"abc`, format.ErrSyntax},
		{"1 2", format.ErrSyntax},
		{"#_ 1", format.ErrSyntax},
		{"12abc", format.ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if !errors.Is(err, tt.err) {
				t.Errorf("got %v, want %v", err, tt.err)
			}
		})
	}
}

func TestNoDefaultReader(t *testing.T) {
	_, err := Parse([]byte("#color 1"), NoDefaultReader())
	if !errors.Is(err, format.ErrUnknownTag) {
		t.Errorf("got %v", err)
	}
	var te *TagError
	if !errors.As(err, &te) || te.Tag != "color" {
		t.Errorf("got %v", err)
	}
	// built-in readers still apply
	if _, err := Parse([]byte(`#base64 ""`), NoDefaultReader()); err != nil {
		t.Error(err)
	}
}

func TestReaders(t *testing.T) {
	double := func(elem *ir.Node) (*ir.Node, error) {
		return ir.FromInt(2 * elem.Int64), nil
	}
	got, err := Parse([]byte("[#twice 4 #other 1]"),
		WithReader("twice", double),
		WithDefaultReader(func(tag string, elem *ir.Node) (*ir.Node, error) {
			return ir.FromString(tag), nil
		}))
	if err != nil {
		t.Fatal(err)
	}
	want := ir.FromSlice([]*ir.Node{ir.FromInt(8), ir.FromString("other")})
	if !ir.Equal(got, want) {
		t.Errorf("got %s", str(got))
	}

	_, err = Parse([]byte(`#inst "yesterday"`))
	var te *TagError
	if !errors.As(err, &te) || te.Tag != "inst" {
		t.Errorf("got %v", err)
	}
	got, err = Parse([]byte(`#inst "x"`), NoBuiltinReaders())
	if err != nil || got.Type != ir.TaggedType {
		t.Errorf("got %v, %v", str(got), err)
	}
}

func TestRegistry(t *testing.T) {
	point := schema.MustNew("point", schema.Of[int64]("x"), schema.Of[int64]("y"))
	reg, err := schema.NewRegistry(point)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse([]byte("#point{:x 1 :y 2}"), WithRegistry(reg))
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != ir.RecordType || got.Tag != "point" {
		t.Errorf("got %s %q", got.Type, got.Tag)
	}
	if _, err := Parse([]byte("#point [1]"), WithRegistry(reg)); !errors.Is(err, ir.ErrNotMap) {
		t.Errorf("got %v", err)
	}
	got, err = Parse([]byte("#point{:x 1}"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != ir.TaggedType {
		t.Errorf("unregistered record tag: got %s", got.Type)
	}
}

func TestDecoder(t *testing.T) {
	in := "{:a 1}\n[2] #_ 3 :c\n#_ 4 ; trailing comment\n"
	dec := NewDecoder(strings.NewReader(in))
	var got []*ir.Node
	for {
		n, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, n)
	}
	if len(got) != 3 {
		t.Fatalf("got %d documents", len(got))
	}
	if !ir.Equal(got[2], ir.Keyword("c")) {
		t.Errorf("third document %s", str(got[2]))
	}

	dec = NewDecoder(strings.NewReader("1 [2"))
	if _, err := dec.Decode(); err != nil {
		t.Fatal(err)
	}
	_, err := dec.Decode()
	if err == nil || errors.Is(err, io.EOF) || !errors.Is(err, format.ErrSyntax) {
		t.Errorf("got %v", err)
	}
}

func TestRegistryAfterDecode(t *testing.T) {
	errRejected := errors.New("rejected")
	calls := 0
	reg, err := schema.NewRegistry(
		schema.MustNew("reg", schema.Of[int64]("value")).WithAfterDecode(func(n *ir.Node) (*ir.Node, error) {
			calls++
			if ir.GetKey(n, ir.K("value")) == nil {
				return n.Assoc(ir.Keyword("value"), ir.FromInt(42)), nil
			}
			return n, nil
		}),
		schema.MustNew("bad").WithAfterDecode(func(*ir.Node) (*ir.Node, error) { return nil, errRejected }),
	)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{`#reg{}`, `#reg{:value 42}`, nil},
		{`#reg{:value 1}`, `#reg{:value 1}`, nil},
		{`[#reg{} {:value 2}]`, `[#reg{:value 42} {:value 2}]`, nil},
		{`#bad{}`, "", errRejected},
		{`#reg [1]`, "", ir.ErrNotMap},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse([]byte(tt.in), WithRegistry(reg))
			if tt.err != nil {
				var te *TagError
				if !errors.Is(err, tt.err) || !errors.As(err, &te) {
					t.Errorf("got %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s := str(got); s != tt.want {
				t.Errorf("got %s, want %s", s, tt.want)
			}
		})
	}
	if calls == 0 {
		t.Errorf("hook never ran")
	}
}
