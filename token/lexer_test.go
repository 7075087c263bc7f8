package token

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lexAll(t *testing.T, in string) []Token {
	t.Helper()
	lx := NewLexer(strings.NewReader(in))
	var res []Token
	for {
		tok, err := lx.Next()
		if errors.Is(err, io.EOF) {
			return res
		}
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		res = append(res, tok)
	}
}

func TestLexer(t *testing.T) {
	toks := lexAll(t, "{:a 1, :b [2.5 \"x\"]} #{nil} #_ true #inst\"t\" ##Inf -3N 1.0M sym")
	var got []string
	for _, tok := range toks {
		got = append(got, tok.Type.String()+" "+tok.String())
	}
	want := []string{
		"{ {",
		"keyword :a",
		"integer 1",
		"keyword :b",
		"[ [",
		"float 2.5",
		`string "x"`,
		"] ]",
		"} }",
		"#{ #{",
		"nil nil",
		"} }",
		"#_ #_",
		"true true",
		"tag #inst",
		`string "t"`,
		"float ##Inf",
		"integer -3N",
		"float 1.0M",
		"symbol sym",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens (-want +got):\n%s", diff)
	}
}

func TestLexerPos(t *testing.T) {
	toks := lexAll(t, "[1\n  :k]")
	if len(toks) != 4 {
		t.Fatalf("got %d tokens", len(toks))
	}
	if p := toks[2].Pos; p.Line != 1 || p.Col != 2 || p.Offset != 5 {
		t.Errorf("got %s", p)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{`"abc`, ErrUnterminated},
		{`"\q"`, ErrBadEscape},
		{`"\u12"`, ErrBadUnicode},
		{":", ErrEmptyName},
		{"#", ErrUnterminated},
		{"#!", ErrUnexpected},
		{"##Foo", ErrUnexpected},
	}
	for _, tt := range tests {
		lx := NewLexer(strings.NewReader(tt.in))
		_, err := lx.Next()
		if !errors.Is(err, tt.err) {
			t.Errorf("%q: got %v, want %v", tt.in, err, tt.err)
		}
	}
}

func TestQuote(t *testing.T) {
	in := "a\"b\\c\n\x01é"
	q := Quote(in)
	if q != `"a\"b\\c\n\u0001é"` {
		t.Errorf("got %s", q)
	}
	toks := lexAll(t, q)
	if len(toks) != 1 || toks[0].Text != in {
		t.Errorf("round trip: got %+v", toks)
	}
	if IsSymbol("a b") || !IsSymbol("a.b/c-d") || IsTagName("1a") || !IsTagName("inst") {
		t.Error("IsSymbol/IsTagName")
	}
}
