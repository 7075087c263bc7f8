package record

import (
	"reflect"
	"sync"

	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/schema"
)

// Viewer is implemented by view types: structs embedding *Record whose
// ViewSchema method, callable on the zero value, returns the schema the
// view reads through.
//
//	type Point struct{ *record.Record }
//
//	func (Point) ViewSchema() *schema.Schema { return pointSchema }
type Viewer interface {
	ViewSchema() *schema.Schema
}

var (
	recordPtrType = reflect.TypeFor[*Record]()
	viewerType    = reflect.TypeFor[Viewer]()

	// view type -> index of the embedded *Record, or -1
	viewIndex sync.Map
)

func viewField(t reflect.Type) int {
	if i, ok := viewIndex.Load(t); ok {
		return i.(int)
	}
	i := -1
	if t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(viewerType) {
		for j := range t.NumField() {
			f := t.Field(j)
			if f.Anonymous && f.Type == recordPtrType {
				i = j
				break
			}
		}
	}
	viewIndex.Store(t, i)
	return i
}

func isView(t reflect.Type) bool {
	return viewField(t) >= 0
}

func viewSchema(t reflect.Type) *schema.Schema {
	return reflect.New(t).Interface().(Viewer).ViewSchema()
}

func wrap(t reflect.Type, r *Record) reflect.Value {
	v := reflect.New(t).Elem()
	v.Field(viewField(t)).Set(reflect.ValueOf(r))
	return v
}

func unwrap(v reflect.Value) *Record {
	return v.Field(viewField(v.Type())).Interface().(*Record)
}

// As reads r through view V. A record of another schema is rejected with a
// TypeMismatchError.
func As[V Viewer](r *Record) (V, error) {
	var zero V
	t := reflect.TypeFor[V]()
	if !isView(t) {
		return zero, &ShapeError{Type: t, Reason: "view must be a struct embedding *record.Record"}
	}
	s := viewSchema(t)
	if r == nil {
		return zero, nil
	}
	if r.schema != s {
		nr, err := FromNode(r.node, s)
		if err != nil {
			return zero, err
		}
		nr.meta = r.meta
		r = nr
	}
	return wrap(t, r).Interface().(V), nil
}

// View wraps n as a record of V's schema and returns it as a V.
func View[V Viewer](n *ir.Node) (V, error) {
	var zero V
	t := reflect.TypeFor[V]()
	if !isView(t) {
		return zero, &ShapeError{Type: t, Reason: "view must be a struct embedding *record.Record"}
	}
	r, err := FromNode(n, viewSchema(t))
	if err != nil {
		return zero, err
	}
	return wrap(t, r).Interface().(V), nil
}

// Empty returns a V over an empty record.
func Empty[V Viewer]() V {
	t := reflect.TypeFor[V]()
	if !isView(t) {
		var zero V
		return zero
	}
	return wrap(t, New(viewSchema(t))).Interface().(V)
}

// Of returns the record underlying a view or *Record value.
func Of(v any) (*Record, bool) {
	switch x := v.(type) {
	case *Record:
		return x, x != nil
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if !isView(rv.Type()) {
		return nil, false
	}
	r := unwrap(rv)
	return r, r != nil
}
