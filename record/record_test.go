package record

import (
	"errors"
	"math/big"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/signadot/dynobj/encode"
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/parse"
	"github.com/signadot/dynobj/schema"
)

var pointSchema = schema.MustNew("point",
	schema.Of[int64]("x").Req(),
	schema.Of[int64]("y"),
)

type Point struct{ *Record }

func (Point) ViewSchema() *schema.Schema { return pointSchema }

var xyzSchema = schema.MustNew("xyz",
	schema.Of[int64]("x").Req(),
	schema.Of[int64]("y").Req(),
	schema.Of[*int64]("z"),
)

func mustParse(t *testing.T, s string, opts ...parse.ParseOption) *ir.Node {
	t.Helper()
	n, err := parse.Parse([]byte(s), opts...)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return n
}

func mustRecord(t *testing.T, s string, sch *schema.Schema) *Record {
	t.Helper()
	r, err := FromNode(mustParse(t, s), sch)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestValidateScenario(t *testing.T) {
	r := mustRecord(t, `{:z 19}`, xyzSchema)
	_, err := r.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v", err)
	}
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("%v does not wrap ErrValidationFailed", err)
	}
	if diff := cmp.Diff([]string{"x", "y"}, verr.Missing); diff != "" {
		t.Errorf("missing (-want +got):\n%s", diff)
	}
	if len(verr.Mismatched) != 0 {
		t.Errorf("unexpected mismatches %v", verr.Mismatched)
	}

	ok := mustRecord(t, `{:x 1 :y 2}`, xyzSchema)
	got, err := ok.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if got != ok {
		t.Errorf("validate returned a different record")
	}
	again, err := got.Validate()
	if err != nil || again != ok {
		t.Errorf("second validate: %v, %v", again, err)
	}
	z, err := Get[*int64](ok, "z")
	if err != nil || z != nil {
		t.Errorf("z = %v, %v", z, err)
	}
}

func TestValidateNested(t *testing.T) {
	lineSchema := schema.MustNew("line",
		schema.Of[Point]("a").Req(),
		schema.Of[[]Point]("pts"),
		schema.Of[map[string]Point]("byName"),
		schema.Of[map[int64]struct{}]("ids"),
		schema.Of[string]("label"),
	)
	r := mustRecord(t, `{:a {:y 1}
		:pts [{:x 1} {:x "no"}]
		:byName {"k" {:x 1.5}}
		:ids #{1 "two"}
		:label :kw
		:extra [1 2 3]}`, lineSchema)
	_, err := r.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v", err)
	}
	if diff := cmp.Diff([]string{"a.x"}, verr.Missing); diff != "" {
		t.Errorf("missing (-want +got):\n%s", diff)
	}
	want := map[string]Mismatch{
		"pts[1].x":    {Expected: "int64", Actual: "String"},
		"byName[k].x": {Expected: "int64", Actual: "Float"},
		"ids[two]":    {Expected: "int64", Actual: "String"},
		"label":       {Expected: "string", Actual: "Keyword"},
	}
	if diff := cmp.Diff(want, verr.Mismatched); diff != "" {
		t.Errorf("mismatched (-want +got):\n%s", diff)
	}
}

func TestValidateNestedTag(t *testing.T) {
	s := schema.MustNew("holder", schema.Of[Point]("p"))
	other := ir.FromMap(map[string]*ir.Node{"x": ir.FromInt(1)}).AsRecord("other")
	r, err := FromNode(ir.FromMap(map[string]*ir.Node{"p": other}), s)
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v", err)
	}
	want := map[string]Mismatch{"p": {Expected: "#point", Actual: "#other"}}
	if diff := cmp.Diff(want, verr.Mismatched); diff != "" {
		t.Errorf("mismatched (-want +got):\n%s", diff)
	}
}

func TestValidateShape(t *testing.T) {
	s := schema.MustNew("bad", schema.Of[int64]("x").Req(), schema.Of[[]any]("xs"))
	_, err := New(s).Validate()
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("got %v", err)
	}
	if se.Path != "xs" {
		t.Errorf("path %q", se.Path)
	}
	if !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("%v does not wrap ErrUnsupportedShape", err)
	}
}

func TestValidateCheck(t *testing.T) {
	errOrder := errors.New("lo above hi")
	calls := 0
	s := schema.MustNew("range",
		schema.Of[int64]("lo").Req(),
		schema.Of[int64]("hi").Req(),
	).WithCheck(func(n *ir.Node) error {
		calls++
		lo, hi := ir.GetKey(n, ir.K("lo")), ir.GetKey(n, ir.K("hi"))
		if lo.Int64 > hi.Int64 {
			return errOrder
		}
		return nil
	})
	if _, err := mustRecord(t, `{:hi 1}`, s).Validate(); err == nil {
		t.Fatal("expected missing lo")
	}
	if calls != 0 {
		t.Errorf("check ran on an invalid record")
	}
	_, err := mustRecord(t, `{:lo 5 :hi 1}`, s).Validate()
	if !errors.Is(err, errOrder) {
		t.Errorf("got %v", err)
	}
	if _, err := mustRecord(t, `{:lo 1 :hi 5}`, s).Validate(); err != nil {
		t.Error(err)
	}
	if calls != 2 {
		t.Errorf("check ran %d times", calls)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	e := &ValidationError{
		Schema:  "xyz",
		Missing: []string{"x", "y"},
		Mismatched: map[string]Mismatch{
			"z": {Expected: "int64", Actual: "String"},
			"a": {Expected: "bool", Actual: "Int"},
		},
	}
	want := "xyz: validation failed" +
		"\nThe following required fields were missing: x, y" +
		"\nThe following fields had the wrong type:" +
		"\n\ta (expected bool, got Int)" +
		"\n\tz (expected int64, got String)"
	if got := e.Error(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestValidateView(t *testing.T) {
	p, err := View[Point](mustParse(t, `{:x 3}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Validate(p); err != nil {
		t.Error(err)
	}
	if _, err := Validate(Empty[Point]()); err == nil {
		t.Error("empty point validated")
	}
}

func TestRoundTrip(t *testing.T) {
	reg, err := schema.NewRegistry(xyzSchema)
	if err != nil {
		t.Fatal(err)
	}
	r := mustRecord(t, `{:x 1 :y 2 :unknown #{:a :b} :when #inst "2024-01-02T03:04:05Z"}`, xyzSchema)
	back, err := FromNode(r.Node(), xyzSchema)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(back, r) {
		t.Errorf("FromNode(r.Node()) = %s", back)
	}

	text := encode.MustString(r.Node())
	if !strings.HasPrefix(text, "#xyz{") {
		t.Errorf("encoded as %s", text)
	}
	for _, opts := range [][]parse.ParseOption{nil, {parse.WithRegistry(reg)}} {
		back, err := FromNode(mustParse(t, text, opts...), xyzSchema)
		if err != nil {
			t.Fatal(err)
		}
		if !Equal(back, r) {
			t.Errorf("text round trip gave %s", back)
		}
	}
}

func TestFromNodeMismatch(t *testing.T) {
	if _, err := FromNode(ir.FromInt(1), xyzSchema); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("int: %v", err)
	}
	n := ir.FromMap(nil).AsRecord("point")
	if _, err := FromNode(n, xyzSchema); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("other schema: %v", err)
	}
	r, err := FromNode(n, nil)
	if err != nil || r.Node().Tag != "point" {
		t.Errorf("schemaless: %v, %v", r, err)
	}
}

func TestMerge(t *testing.T) {
	s := schema.MustNew("m", schema.Of[*int64]("a"), schema.Of[*int64]("b"))
	tests := []struct {
		a, b, want string
	}{
		{`{:a 1}`, `{:a nil}`, `{:a 1}`},
		{`{:a 1}`, `{:a 2}`, `{:a 2}`},
		{`{:a 1}`, `{:b 2}`, `{:a 1 :b 2}`},
		{`{}`, `{:a nil}`, `{}`},
		{`{:a 1 :x [1]}`, `{:x [2]}`, `{:a 1 :x [2]}`},
	}
	for _, tt := range tests {
		a, b := mustRecord(t, tt.a, s), mustRecord(t, tt.b, s)
		got, err := Merge(a, b)
		if err != nil {
			t.Fatal(err)
		}
		want := mustRecord(t, tt.want, s)
		if !Equal(got, want) {
			t.Errorf("merge(%s, %s) = %s, want %s", tt.a, tt.b, got, want)
		}
		if got.Node().Tag != "m" {
			t.Errorf("result not tagged: %s", got)
		}
	}
	if _, err := Merge(New(s), New(xyzSchema)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("merge across schemas: %v", err)
	}
}

func TestDiffComplement(t *testing.T) {
	s := schema.MustNew("flat")
	a := mustRecord(t, `{:a 1 :b 2 :c 3}`, s)
	b := mustRecord(t, `{:b 2 :c 4 :d 5}`, s)
	onlyA, onlyB, common, err := Diff(a, b)
	if err != nil {
		t.Fatal(err)
	}
	check := func(name string, got *Record, want string) {
		t.Helper()
		if w := mustRecord(t, want, s); !Equal(got, w) {
			t.Errorf("%s = %s, want %s", name, got, w)
		}
	}
	check("onlyA", onlyA, `{:a 1 :c 3}`)
	check("onlyB", onlyB, `{:c 4 :d 5}`)
	check("common", common, `{:b 2}`)
	for k := range common.Entries() {
		if ir.Get(onlyA.Node(), k) != nil {
			t.Errorf("%s in both common and onlyA", k.String)
		}
	}
	back, err := Merge(onlyA, common)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(back, a) {
		t.Errorf("onlyA + common = %s", back)
	}

	in, err := Intersect(a, a)
	if err != nil || !Equal(in, a) {
		t.Errorf("intersect(a, a) = %s, %v", in, err)
	}
	sub, err := Subtract(a, a)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Len() != 0 || sub.Node().Tag != "flat" {
		t.Errorf("subtract(a, a) = %s", sub)
	}
}

func TestNumericFields(t *testing.T) {
	s := schema.MustNew("nums",
		schema.Of[float32]("f"),
		schema.Of[int16]("i"),
		schema.Of[uint8]("u"),
	)
	r, err := With(New(s), "f", float32(1.1))
	if err != nil {
		t.Fatal(err)
	}
	if r, err = With(r, "i", int16(-3)); err != nil {
		t.Fatal(err)
	}
	if r, err = With(r, "u", uint8(250)); err != nil {
		t.Fatal(err)
	}
	if n := r.Lookup(ir.K("f")); !ir.Equal(n, ir.FromFloat(1.1)) {
		t.Errorf("f stored as %s", encode.MustString(n))
	}
	if n := r.Lookup(ir.K("i")); !ir.Equal(n, ir.FromInt(-3)) {
		t.Errorf("i stored as %s", encode.MustString(n))
	}
	f, err := Get[float32](r, "f")
	if err != nil || f != 1.1 {
		t.Errorf("f = %v, %v", f, err)
	}
	i, err := Get[int16](r, "i")
	if err != nil || i != -3 {
		t.Errorf("i = %v, %v", i, err)
	}
	u, err := Get[uint8](r, "u")
	if err != nil || u != 250 {
		t.Errorf("u = %v, %v", u, err)
	}
}

func TestCache(t *testing.T) {
	r := mustRecord(t, `{:x 1 :y 2}`, xyzSchema)
	a, err := Get[int64](r, "x")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Get[int64](r, "x")
	if a != b || a != 1 {
		t.Errorf("reads disagree: %d %d", a, b)
	}
	if n := r.cache.len(); n != 1 {
		t.Errorf("cache holds %d entries", n)
	}
	r2 := r.Assoc(ir.K("x"), ir.FromInt(9))
	if n := r2.cache.len(); n != 0 {
		t.Errorf("derived record starts with %d cached entries", n)
	}
	if x, _ := Get[int64](r2, "x"); x != 9 {
		t.Errorf("r2.x = %d", x)
	}
	if x, _ := Get[int64](r, "x"); x != 1 {
		t.Errorf("r.x = %d after assoc", x)
	}

	var wg sync.WaitGroup
	got := make([]int64, 16)
	for i := range got {
		wg.Go(func() {
			got[i], _ = Get[int64](r2, "y")
		})
	}
	wg.Wait()
	for i, v := range got {
		if v != 2 {
			t.Errorf("goroutine %d read %d", i, v)
		}
	}
}

func TestCachedValuesAreCopies(t *testing.T) {
	s := schema.MustNew("bag",
		schema.Of[[]string]("tags"),
		schema.Of[map[string]int64]("counts"),
		schema.Of[*int64]("n"),
		schema.Of[[][]int64]("grid"),
	)
	r := mustRecord(t, `{:tags ["a" "b"] :counts {"a" 1} :n 3 :grid [[1 2]]}`, s)
	tests := []struct {
		name   string
		mutate func(t *testing.T)
		read   func(t *testing.T) any
		want   any
	}{
		{
			name: "slice",
			mutate: func(t *testing.T) {
				v, _ := Get[[]string](r, "tags")
				v[0] = "z"
			},
			read: func(t *testing.T) any {
				v, _ := Get[[]string](r, "tags")
				return v
			},
			want: []string{"a", "b"},
		},
		{
			name: "map",
			mutate: func(t *testing.T) {
				v, _ := Get[map[string]int64](r, "counts")
				v["a"] = 9
				v["b"] = 2
			},
			read: func(t *testing.T) any {
				v, _ := Get[map[string]int64](r, "counts")
				return v
			},
			want: map[string]int64{"a": 1},
		},
		{
			name: "pointer",
			mutate: func(t *testing.T) {
				v, _ := Get[*int64](r, "n")
				*v = 7
			},
			read: func(t *testing.T) any {
				v, _ := Get[*int64](r, "n")
				return *v
			},
			want: int64(3),
		},
		{
			name: "nested slice",
			mutate: func(t *testing.T) {
				v, _ := Get[[][]int64](r, "grid")
				v[0][1] = 0
			},
			read: func(t *testing.T) any {
				v, _ := Get[[][]int64](r, "grid")
				return v
			},
			want: [][]int64{{1, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.read(t)
			tt.mutate(t)
			if diff := cmp.Diff(tt.want, tt.read(t)); diff != "" {
				t.Errorf("cached value changed (-want +got):\n%s", diff)
			}
		})
	}
	f, _ := s.Field("tags")
	v, err := r.Value(f)
	if err != nil {
		t.Fatal(err)
	}
	v.([]string)[1] = "y"
	if got, _ := Get[[]string](r, "tags"); got[1] != "b" {
		t.Errorf("Value result aliases the cache: %v", got)
	}
}

func TestWith(t *testing.T) {
	r := mustRecord(t, `{:x 1 :y 2}`, xyzSchema)
	seven := int64(7)
	tests := []struct {
		name string
		set  func() (*Record, error)
		want string
		err  error
	}{
		{"declared type", func() (*Record, error) { return With(r, "x", int64(5)) }, `#xyz{:x 5 :y 2}`, nil},
		{"pointer", func() (*Record, error) { return With(r, "z", &seven) }, `#xyz{:x 1 :y 2 :z 7}`, nil},
		{"nil pointer", func() (*Record, error) { return With[*int64](r, "z", nil) }, `#xyz{:x 1 :y 2 :z nil}`, nil},
		{"string for int64", func() (*Record, error) { return With(r, "x", "5") }, "", ErrTypeMismatch},
		{"int for int64", func() (*Record, error) { return With(r, "x", 5) }, "", ErrTypeMismatch},
		{"value for pointer", func() (*Record, error) { return With(r, "z", seven) }, "", ErrTypeMismatch},
		{"unknown field", func() (*Record, error) { return With(r, "w", int64(1)) }, "", ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.set()
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("got %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s := encode.MustString(got.Node(), encode.EncodeWire(true)); s != tt.want {
				t.Errorf("got %s, want %s", s, tt.want)
			}
		})
	}
}

func TestRequiredAccess(t *testing.T) {
	r := mustRecord(t, `{:y 2}`, xyzSchema)
	_, err := Get[int64](r, "x")
	if !errors.Is(err, ErrRequiredFieldMissing) {
		t.Errorf("got %v", err)
	}
	if _, err := Get[int64](r, "nope"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("got %v", err)
	}
	f, _ := xyzSchema.Field("y")
	v, err := r.Value(f)
	if err != nil || v != int64(2) {
		t.Errorf("y = %v, %v", v, err)
	}
}

func TestMeta(t *testing.T) {
	s := schema.MustNew("m", schema.Of[int64]("x"), schema.Of[string]("origin").AsMeta())
	r := mustRecord(t, `{:x 1}`, s)
	m, err := With(r, "origin", "a.edn")
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(r, m) || r.Hash() != m.Hash() {
		t.Errorf("metadata changed equality")
	}
	if m.Lookup(ir.K("origin")) != nil {
		t.Errorf("meta field stored in document")
	}
	o, err := Get[string](m, "origin")
	if err != nil || o != "a.edn" {
		t.Errorf("origin = %q, %v", o, err)
	}
	if m.Assoc(ir.K("x"), ir.FromInt(2)).Meta().Len() != 1 {
		t.Errorf("assoc dropped metadata")
	}
}

func TestViews(t *testing.T) {
	r := mustRecord(t, `{:x 1 :y 2}`, pointSchema)
	p, err := As[Point](r)
	if err != nil {
		t.Fatal(err)
	}
	if p.Record != r {
		t.Errorf("As rewrapped a record of the same schema")
	}
	if _, err := As[Point](mustRecord(t, `{:x 1}`, xyzSchema)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("got %v", err)
	}
	back, ok := Of(p)
	if !ok || back != r {
		t.Errorf("Of(view) = %v, %t", back, ok)
	}
	n, err := ToGeneric(nil, p)
	if err != nil || n.Tag != "point" {
		t.Errorf("ToGeneric(view) = %v, %v", n, err)
	}
}

func TestToTyped(t *testing.T) {
	u := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	huge := new(big.Int).Lsh(big.NewInt(1), 64)
	huge.Add(huge, big.NewInt(5))
	seven := int64(7)
	tests := []struct {
		name string
		t    reflect.Type
		n    *ir.Node
		want any
	}{
		{"int narrows", reflect.TypeFor[int8](), ir.FromInt(300), int8(44)},
		{"bigint low bits", reflect.TypeFor[int64](), ir.FromBigInt(huge), int64(5)},
		{"int to float", reflect.TypeFor[float64](), ir.FromInt(2), 2.0},
		{"null pointer", reflect.TypeFor[*int64](), ir.Null(), (*int64)(nil)},
		{"pointer", reflect.TypeFor[*int64](), ir.FromInt(7), &seven},
		{"null scalar", reflect.TypeFor[int64](), ir.Null(), int64(0)},
		{"uuid", reflect.TypeFor[uuid.UUID](), ir.Tagged("uuid", ir.FromString(u.String())), u},
		{"time", reflect.TypeFor[time.Time](), ir.FromTime(when), when},
		{"slice", reflect.TypeFor[[]int32](), mustParse(t, `[1 2]`), []int32{1, 2}},
		{"array", reflect.TypeFor[[2]string](), mustParse(t, `["a" "b"]`), [2]string{"a", "b"}},
		{"set", reflect.TypeFor[map[string]struct{}](), mustParse(t, `#{"a"}`), map[string]struct{}{"a": {}}},
		{"map", reflect.TypeFor[map[string]float64](), mustParse(t, `{"a" 1 "b" 2.5}`), map[string]float64{"a": 1, "b": 2.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToTyped(tt.t, tt.n)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestToTypedKey(t *testing.T) {
	got, err := ToTyped(reflect.TypeFor[ir.Key](), ir.Keyword("k"))
	if err != nil {
		t.Fatal(err)
	}
	if got != ir.K("k") {
		t.Errorf("got %v", got)
	}
}

func TestToTypedMismatch(t *testing.T) {
	tests := []struct {
		t reflect.Type
		n *ir.Node
	}{
		{reflect.TypeFor[int64](), ir.FromFloat(1)},
		{reflect.TypeFor[string](), ir.Keyword("k")},
		{reflect.TypeFor[[]int64](), mustParse(t, `#{1}`)},
		{reflect.TypeFor[[3]int64](), mustParse(t, `[1]`)},
		{reflect.TypeFor[map[string]int64](), mustParse(t, `[1]`)},
		{reflect.TypeFor[Point](), ir.FromInt(1)},
	}
	for _, tt := range tests {
		_, err := ToTyped(tt.t, tt.n)
		if !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("%s from %s: got %v", tt.t, tt.n.Type, err)
		}
	}
}

func TestToGeneric(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"nil pointer", (*int64)(nil), `nil`},
		{"nil slice", []int64(nil), `nil`},
		{"map sorted", map[string]int{"b": 2, "a": 1}, `{"a" 1 "b" 2}`},
		{"set sorted", map[int64]struct{}{3: {}, 1: {}}, `#{1 3}`},
		{"key", ir.K("k"), `:k`},
		{"uint overflow", uint64(1) << 63, `9223372036854775808N`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToGeneric(nil, tt.v)
			if err != nil {
				t.Fatal(err)
			}
			if s := encode.MustString(got, encode.EncodeWire(true)); s != tt.want {
				t.Errorf("got %s, want %s", s, tt.want)
			}
		})
	}
	if _, err := ToGeneric(reflect.TypeFor[string](), 1); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("got %v", err)
	}
	if _, err := ToGeneric(nil, make(chan int)); !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("got %v", err)
	}
}

func TestCheckShape(t *testing.T) {
	ok := []reflect.Type{
		reflect.TypeFor[[]Point](),
		reflect.TypeFor[map[string]*int64](),
		reflect.TypeFor[*ir.Node](),
		reflect.TypeFor[any](),
		reflect.TypeFor[map[ir.Key][]time.Time](),
	}
	for _, typ := range ok {
		if err := CheckShape(typ); err != nil {
			t.Errorf("%s: %v", typ, err)
		}
	}
	bad := []reflect.Type{
		reflect.TypeFor[[]any](),
		reflect.TypeFor[map[string]any](),
		reflect.TypeFor[chan int](),
		reflect.TypeFor[struct{ A int }](),
		reflect.TypeFor[complex128](),
	}
	for _, typ := range bad {
		if err := CheckShape(typ); !errors.Is(err, ErrUnsupportedShape) {
			t.Errorf("%s: got %v", typ, err)
		}
	}
}

type label string

func TestKeywordKeyedMaps(t *testing.T) {
	tests := []struct {
		name string
		t    reflect.Type
		in   string
		want any
	}{
		{"keywords", reflect.TypeFor[map[string]int64](), `{:a 1 :b 2}`, map[string]int64{"a": 1, "b": 2}},
		{"mixed", reflect.TypeFor[map[string]int64](), `{:a 1 "b" 2}`, map[string]int64{"a": 1, "b": 2}},
		{"named string", reflect.TypeFor[map[label]bool](), `{:on true}`, map[label]bool{"on": true}},
		{"set", reflect.TypeFor[map[string]struct{}](), `#{:x :y}`, map[string]struct{}{"x": {}, "y": {}}},
		{"key type", reflect.TypeFor[map[ir.Key]int64](), `{:a 1}`, map[ir.Key]int64{ir.K("a"): 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToTyped(tt.t, mustParse(t, tt.in))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got, cmp.Comparer(func(a, b ir.Key) bool { return a == b })); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}

	s := schema.MustNew("tally", schema.Of[map[string]int64]("counts"))
	r := mustRecord(t, `{:counts {:a 1}}`, s)
	counts, err := Get[map[string]int64](r, "counts")
	if err != nil {
		t.Fatal(err)
	}
	if counts["a"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func fillValue(n *ir.Node) (*ir.Node, error) {
	if ir.GetKey(n, ir.K("value")) == nil {
		return n.Assoc(ir.Keyword("value"), ir.FromInt(42)), nil
	}
	return n, nil
}

var defaultedSchema = schema.MustNew("defaulted", schema.Of[int64]("value")).WithAfterDecode(fillValue)

type Defaulted struct{ *Record }

func (Defaulted) ViewSchema() *schema.Schema { return defaultedSchema }

func TestAfterDecode(t *testing.T) {
	holder := schema.MustNew("holder", schema.Of[Defaulted]("inner"))
	tests := []struct {
		name string
		read func() (*Record, error)
		want int64
	}{
		{"FromNode fills", func() (*Record, error) { return FromNode(mustParse(t, `{}`), defaultedSchema) }, 42},
		{"FromNode keeps", func() (*Record, error) { return FromNode(mustParse(t, `{:value 1}`), defaultedSchema) }, 1},
		{"tagged node", func() (*Record, error) { return FromNode(mustParse(t, `#defaulted{}`), defaultedSchema) }, 42},
		{"view", func() (*Record, error) {
			v, err := View[Defaulted](mustParse(t, `{}`))
			return v.Record, err
		}, 42},
		{"nested view", func() (*Record, error) {
			v, err := Get[Defaulted](mustRecord(t, `{:inner {}}`, holder), "inner")
			return v.Record, err
		}, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.read()
			if err != nil {
				t.Fatal(err)
			}
			if v, err := Get[int64](r, "value"); err != nil || v != tt.want {
				t.Errorf("value = %d, %v", v, err)
			}
		})
	}

	calls := 0
	counted := schema.MustNew("counted").WithAfterDecode(func(n *ir.Node) (*ir.Node, error) {
		calls++
		return n, nil
	})
	r, err := FromNode(mustParse(t, `{:a 1}`), counted)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := FromNode(r.Node(), counted); err != nil {
		t.Fatal(err)
	}
	_ = New(counted)
	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}

	failing := schema.MustNew("failing").WithAfterDecode(func(*ir.Node) (*ir.Node, error) {
		return nil, errors.New("rejected")
	})
	if _, err := FromNode(mustParse(t, `{}`), failing); err == nil || !strings.Contains(err.Error(), "rejected") {
		t.Errorf("got %v", err)
	}
}
