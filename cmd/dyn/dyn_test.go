package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/signadot/dynobj/compact"
	"github.com/signadot/dynobj/format"
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/parse"
	"github.com/signadot/dynobj/stream"
)

func mustParse(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := parse.Parse([]byte(s))
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return n
}

func TestCount(t *testing.T) {
	if got := count(true, false, true); got != 2 {
		t.Errorf("got %d", got)
	}
	if got := count(); got != 0 {
		t.Errorf("got %d", got)
	}
}

func TestFormats(t *testing.T) {
	cfg := &MainConfig{}
	if _, ok := cfg.inFormat(); ok {
		t.Errorf("input format given without flags")
	}
	if got := cfg.outFormat(); got != format.TextFormat {
		t.Errorf("default output %s", got)
	}
	cfg.J = true
	if f, ok := cfg.inFormat(); !ok || f != format.JSONFormat {
		t.Errorf("got %s %v", f, ok)
	}
	y := format.YAMLFormat
	cfg.OutFormat = &y
	if got := cfg.outFormat(); got != format.YAMLFormat {
		t.Errorf("-O ignored, got %s", got)
	}
	if f, _ := cfg.inFormat(); f != format.JSONFormat {
		t.Errorf("-O changed input format to %s", f)
	}
}

func TestNewReaderDetectsBinary(t *testing.T) {
	docs := []*ir.Node{mustParse(t, `{:a 1}`), mustParse(t, `[1 2]`)}
	d, err := compact.Marshal(docs)
	if err != nil {
		t.Fatal(err)
	}
	nr, err := newReader(&MainConfig{}, bytes.NewReader(d))
	if err != nil {
		t.Fatal(err)
	}
	got, err := stream.ReadAll(nr)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || !ir.Equal(got[0], docs[0]) || !ir.Equal(got[1], docs[1]) {
		t.Errorf("got %v", got)
	}
}

func TestSingle(t *testing.T) {
	a := mustParse(t, `{:a 1}`)
	got, err := single(stream.NewSliceReader(a))
	if err != nil || !ir.Equal(got, a) {
		t.Errorf("got %v, %v", got, err)
	}
	if _, err := single(stream.NewSliceReader()); !errors.Is(err, format.ErrSyntax) {
		t.Errorf("empty input: %v", err)
	}
	if _, err := single(stream.NewSliceReader(a, a)); !errors.Is(err, format.ErrSyntax) {
		t.Errorf("two documents: %v", err)
	}
}

func TestAsRecord(t *testing.T) {
	r, err := asRecord(mustParse(t, `#point {:x 1 :y 2}`))
	if err != nil {
		t.Fatal(err)
	}
	if n := r.Node(); n.Type != ir.RecordType || n.Tag != "point" {
		t.Errorf("got %s #%s", n.Type, n.Tag)
	}
	if _, err := asRecord(mustParse(t, `[1 2]`)); err == nil {
		t.Errorf("sequence read as a record")
	}
}

func TestCombineOps(t *testing.T) {
	a, err := asRecord(mustParse(t, `{:a 1 :b 2}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := asRecord(mustParse(t, `{:b 3 :c 4}`))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		op   combineOp
		want string
	}{
		{mergeOp, `{:a 1 :b 3 :c 4}`},
		{intersectOp, `{}`},
		{subtractOp, `{:a 1 :b 2}`},
	}
	for _, tt := range tests {
		t.Run(tt.op.name, func(t *testing.T) {
			res, err := tt.op.apply(a, b)
			if err != nil {
				t.Fatal(err)
			}
			if want := mustParse(t, tt.want); !ir.Equal(res.Node(), want) {
				t.Errorf("got %v, want %v", res.Node(), want)
			}
		})
	}
}

func TestTextDiff(t *testing.T) {
	buf := &bytes.Buffer{}
	a := mustParse(t, `{:a {:x 1} :b 2}`)
	b := mustParse(t, `{:a {:x 1} :b 3}`)
	if err := textDiff(buf, a, b, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"-  :b 2\n", "+  :b 3\n", "   :a {:x 1}\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestStructural(t *testing.T) {
	got := structural(mustParse(t, `{:b 2}`), nil)
	want := mustParse(t, `{:only-a {:b 2} :only-b nil}`)
	if !ir.Equal(got, want) {
		t.Errorf("got %v", got)
	}
}

func TestApplyPatch(t *testing.T) {
	doc := mustParse(t, `{:a 1 :b 2}`)
	tests := []struct {
		name  string
		cfg   PatchConfig
		patch string
		want  string
	}{
		{"merge", PatchConfig{}, `{:b nil :c 3}`, `{:a 1 :c 3}`},
		{"json", PatchConfig{}, `[{"op" "remove" "path" "/a"}]`, `{:b 2}`},
		{"forced merge", PatchConfig{Merge: true}, `{:a 5}`, `{:a 5 :b 2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.MainConfig = &MainConfig{}
			got, err := applyPatch(&tt.cfg, doc, mustParse(t, tt.patch))
			if err != nil {
				t.Fatal(err)
			}
			if want := mustParse(t, tt.want); !ir.Equal(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
	cfg := &PatchConfig{MainConfig: &MainConfig{}}
	if _, err := applyPatch(cfg, doc, mustParse(t, `1`)); err == nil {
		t.Errorf("scalar patch applied")
	}
	cfg.Merge, cfg.JSON = true, true
	if _, err := applyPatch(cfg, doc, mustParse(t, `{}`)); err == nil {
		t.Errorf("both patch kinds accepted")
	}
}

func TestCheckStream(t *testing.T) {
	docs := []*ir.Node{mustParse(t, `{:a 1}`), mustParse(t, `{:a 2}`), mustParse(t, `"x"`)}
	d, err := compact.Marshal(docs)
	if err != nil {
		t.Fatal(err)
	}
	n, frames, err := checkStream(bytes.NewReader(d), false)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 || frames == 0 {
		t.Errorf("got %d documents in %d frames", n, frames)
	}
	bad := bytes.Clone(d)
	bad[len(bad)-1] ^= 0xff
	if _, _, err := checkStream(bytes.NewReader(bad), false); err == nil {
		t.Errorf("corrupted stream passed")
	}
	if _, _, err := checkStream(strings.NewReader(`{:a 1}`), false); err == nil {
		t.Errorf("text passed as binary")
	}
}

func TestWriteDocs(t *testing.T) {
	cfg := &MainConfig{WireOut: true}
	j := format.JSONFormat
	buf := &bytes.Buffer{}
	if err := writeDocs(cfg, buf, mustParse(t, `{:a 1}`)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{:a 1}\n" {
		t.Errorf("text got %q", got)
	}
	cfg.OutFormat = &j
	buf.Reset()
	if err := writeDocs(cfg, buf, mustParse(t, `{:a 1}`)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\"a\":1}\n" {
		t.Errorf("json got %q", got)
	}
}

func TestViewReader(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := stream.NewWriter(buf, format.TextFormat, stream.Wire(true))
	if err != nil {
		t.Fatal(err)
	}
	nr := parse.NewDecoder(strings.NewReader(`1 [2] {:a 3}`))
	if err := viewReader(w, nr); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "1\n[2]\n{:a 3}\n" {
		t.Errorf("got %q", got)
	}
}
