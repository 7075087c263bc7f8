package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, f := range AllFormats() {
		g, err := ParseFormat(f.String())
		if err != nil {
			t.Fatal(err)
		}
		if g != f {
			t.Errorf("%s parsed as %s", f, g)
		}
	}
	if _, err := ParseFormat("toml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("got %v", err)
	}
}

func TestFromSuffix(t *testing.T) {
	tests := map[string]Format{
		"a.json":  JSONFormat,
		"a.yml":   YAMLFormat,
		"a.yaml":  YAMLFormat,
		"a.dyb":   BinaryFormat,
		"a.edn":   TextFormat,
		"unknown": TextFormat,
	}
	for name, want := range tests {
		if got := FromSuffix(name); got != want {
			t.Errorf("%s: got %s want %s", name, got, want)
		}
	}
}
