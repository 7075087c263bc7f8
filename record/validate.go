package record

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/signadot/dynobj/debug"
	"github.com/signadot/dynobj/ir"
)

// Validate checks the value fields of r against their declared types,
// descending into nested records and collections. On success it returns r
// unchanged with every field value cached. Otherwise it returns a
// *ValidationError listing every missing required field and every
// mismatched value, or a *ShapeError when a declared type cannot be
// converted at all.
//
// The schema check hook runs only once everything else is clean.
func (r *Record) Validate() (*Record, error) {
	if r.schema == nil {
		return r, nil
	}
	verr := &ValidationError{Schema: r.schema.Name}
	if err := r.validate(nil, verr); err != nil {
		return nil, err
	}
	if verr.empty() && r.schema.Check != nil {
		if err := r.schema.Check(r.node); err != nil {
			verr.Check = append(verr.Check, err)
		}
	}
	if debug.Validate() {
		debug.Logf("validate %s: %d missing %d mismatched %d failed\n",
			r.schema.Name, len(verr.Missing), len(verr.Mismatched), len(verr.Check))
	}
	if !verr.empty() {
		return nil, verr
	}
	return r, nil
}

// Validate validates the record underlying view v.
func Validate[V Viewer](v V) (V, error) {
	var zero V
	r, ok := Of(v)
	if !ok {
		r = New(v.ViewSchema())
	}
	if _, err := r.Validate(); err != nil {
		return zero, err
	}
	return v, nil
}

func (e *ValidationError) count() int {
	return len(e.Missing) + len(e.Mismatched) + len(e.Check)
}

func (e *ValidationError) mismatch(path string, m Mismatch) {
	if e.Mismatched == nil {
		e.Mismatched = map[string]Mismatch{}
	}
	e.Mismatched[path] = m
}

func (r *Record) validate(prefix *ir.Path, verr *ValidationError) error {
	fields := r.schema.ValueFields()
	for _, f := range fields {
		if err := checkShape(f.Type, prefix.WithField(f.Name)); err != nil {
			return err
		}
	}
	for _, f := range fields {
		path := prefix.WithField(f.Name)
		n := r.Lookup(f.Key)
		if n.IsNull() {
			if f.Required {
				verr.Missing = append(verr.Missing, path.String())
			}
			continue
		}
		before := verr.count()
		if err := checkValue(f.Type, n, path, verr); err != nil {
			return err
		}
		if verr.count() != before {
			continue
		}
		if _, err := r.Value(f); err != nil {
			addErr(verr, path, err)
		}
	}
	return nil
}

func checkValue(t reflect.Type, n *ir.Node, path *ir.Path, verr *ValidationError) error {
	if n.IsNull() {
		return nil
	}
	switch {
	case t == nodeType, t == anyType:
		return nil
	case isView(t):
		return checkView(t, n, path, verr)
	case t == recordPtrType, isLeafType(t), isSelfConverting(t), isText(t):
		return checkLeaf(t, n, path, verr)
	}
	switch t.Kind() {
	case reflect.Pointer:
		return checkValue(t.Elem(), n, path, verr)
	case reflect.Slice, reflect.Array:
		if n.Type != ir.SeqType {
			verr.mismatch(path.String(), Mismatch{Expected: t.String(), Actual: n.Type.String()})
			return nil
		}
		if t.Kind() == reflect.Array && t.Len() != len(n.Values) {
			verr.mismatch(path.String(), Mismatch{Expected: t.String(), Actual: fmt.Sprintf("Seq of length %d", len(n.Values))})
			return nil
		}
		for i, e := range n.Values {
			if err := checkValue(t.Elem(), e, path.WithPos(i), verr); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if t.Elem() == emptyType {
			if n.Type != ir.SetType {
				verr.mismatch(path.String(), Mismatch{Expected: t.String(), Actual: n.Type.String()})
				return nil
			}
			for _, e := range n.Values {
				if err := checkValue(t.Key(), e, path.WithKey(keyText(e)), verr); err != nil {
					return err
				}
			}
			return nil
		}
		if !n.Type.IsMap() {
			verr.mismatch(path.String(), Mismatch{Expected: t.String(), Actual: n.Type.String()})
			return nil
		}
		for k, e := range n.Entries() {
			kp := path.WithKey(keyText(k))
			if err := checkValue(t.Key(), k, kp, verr); err != nil {
				return err
			}
			if err := checkValue(t.Elem(), e, kp, verr); err != nil {
				return err
			}
		}
		return nil
	}
	return checkLeaf(t, n, path, verr)
}

func checkView(t reflect.Type, n *ir.Node, path *ir.Path, verr *ValidationError) error {
	s := viewSchema(t)
	nr, err := fromNode(n, s, path)
	if err != nil {
		addErr(verr, path, err)
		return nil
	}
	before := verr.count()
	if err := nr.validate(path, verr); err != nil {
		return err
	}
	if verr.count() == before && s.Check != nil {
		if err := s.Check(nr.node); err != nil {
			verr.Check = append(verr.Check, fmt.Errorf("%s: %w", path, err))
		}
	}
	return nil
}

func checkLeaf(t reflect.Type, n *ir.Node, path *ir.Path, verr *ValidationError) error {
	if _, err := toTyped(t, n, path); err != nil {
		var se *ShapeError
		if errors.As(err, &se) {
			return err
		}
		addErr(verr, path, err)
	}
	return nil
}

func addErr(verr *ValidationError, path *ir.Path, err error) {
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		verr.Check = append(verr.Check, fmt.Errorf("%s: %w", path, err))
		return
	}
	at := tm.Path
	if at == "" {
		at = path.String()
	}
	verr.mismatch(at, Mismatch{Expected: tm.Expected, Actual: tm.Actual})
}
