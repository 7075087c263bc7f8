package encode_test

import (
	"testing"

	"github.com/signadot/dynobj/encode"
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/parse"
)

func TestRoundTrip(t *testing.T) {
	docs := []string{
		`{:a [1 2.5 "s" nil true] :b #{:x :y} :c {"str key" 1N, 3 4.5M}}`,
		`#point{:x 1 :y [{:z #inst "2020-01-01T00:00:00Z"}]}`,
		`[#unknown {:a 1} #uuid "f81d4fae-7dec-11d0-a765-00a0c91e6bf6" #base64 "AAE="]`,
		`[##NaN ##Inf -0.5 1e-7]`,
	}
	for _, doc := range docs {
		n, err := parse.Parse([]byte(doc))
		if err != nil {
			t.Fatalf("%s: %v", doc, err)
		}
		for _, opts := range [][]encode.EncodeOption{nil, {encode.EncodeWire(true)}} {
			out := encode.MustString(n, opts...)
			back, err := parse.Parse([]byte(out))
			if err != nil {
				t.Fatalf("%s: %v", out, err)
			}
			if !ir.Equal(n, back) {
				t.Errorf("round trip of %s produced %s", doc, out)
			}
		}
	}
}
