package interop

import (
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/dynobj/debug"
	"github.com/signadot/dynobj/ir"
)

// ApplyJSONPatch applies the RFC 6902 patch, a sequence of operation
// maps, to doc.
func ApplyJSONPatch(doc, patch *ir.Node, options ...Option) (*ir.Node, error) {
	pd, err := ToJSON(patch)
	if err != nil {
		return nil, err
	}
	ops, err := jsonpatch.DecodePatch(pd)
	if err != nil {
		return nil, err
	}
	d, err := ToJSON(doc)
	if err != nil {
		return nil, err
	}
	if debug.Convert() {
		debug.Logf("json patch %d ops on %v\n", len(ops), doc)
	}
	out, err := ops.Apply(d)
	if err != nil {
		return nil, err
	}
	return restore(doc, out, options)
}

// ApplyMergePatch applies the RFC 7386 merge patch to doc. Null values in
// patch remove keys.
func ApplyMergePatch(doc, patch *ir.Node, options ...Option) (*ir.Node, error) {
	pd, err := ToJSON(patch)
	if err != nil {
		return nil, err
	}
	d, err := ToJSON(doc)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, pd)
	if err != nil {
		return nil, err
	}
	return restore(doc, out, options)
}

func restore(doc *ir.Node, out []byte, options []Option) (*ir.Node, error) {
	res, err := FromJSON(out, options...)
	if err != nil {
		return nil, err
	}
	if doc != nil && doc.Type == ir.RecordType && res.Type.IsMap() {
		res = res.AsRecord(doc.Tag)
	}
	return res, nil
}
