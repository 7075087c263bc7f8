package schema

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/signadot/dynobj/ir"
)

var (
	ErrDuplicateField = errors.New("duplicate field")
	ErrNoName         = errors.New("schema must have a name")
)

type FieldKind int

const (
	// ValueField is stored in the backing document.
	ValueField FieldKind = iota
	// MetaField is stored in the record's metadata and never serialized.
	MetaField
)

func (k FieldKind) String() string {
	if k == MetaField {
		return "meta"
	}
	return "value"
}

type Field struct {
	// Name is the accessor name.
	Name string
	// Key is the key under which the field is stored. It defaults to Name.
	Key      ir.Key
	Type     reflect.Type
	Kind     FieldKind
	Required bool
	// Cached marks values worth deduplicating in the binary format.
	Cached bool
}

// Of returns a field named name of type T.
func Of[T any](name string) Field {
	return Field{Name: name, Key: ir.K(name), Type: reflect.TypeFor[T]()}
}

func (f Field) Req() Field {
	f.Required = true
	return f
}

func (f Field) WithKey(name string) Field {
	f.Key = ir.K(name)
	return f
}

func (f Field) AsCached() Field {
	f.Cached = true
	return f
}

func (f Field) AsMeta() Field {
	f.Kind = MetaField
	return f
}

func (f *Field) String() string {
	var flags string
	if f.Required {
		flags += " required"
	}
	if f.Cached {
		flags += " cached"
	}
	if f.Kind == MetaField {
		flags += " meta"
	}
	return fmt.Sprintf("%s %s%s", f.Key, f.Type, flags)
}

type Schema struct {
	// Name identifies the schema. It is also the tag written for records of
	// this schema.
	Name   string
	Fields []Field

	// Check, when set, runs after structural validation succeeds. It
	// receives the record's backing map.
	Check func(*ir.Node) error

	// AfterDecode, when set, runs whenever a decoded map becomes a record
	// of this schema. It receives the map and returns the map to keep.
	AfterDecode func(*ir.Node) (*ir.Node, error)

	byName map[string]int
	byKey  map[ir.Key]int
}

// New builds a schema, defaulting field keys to field names.
func New(name string, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, ErrNoName
	}
	s := &Schema{
		Name:   name,
		Fields: slices.Clone(fields),
		byName: make(map[string]int, len(fields)),
		byKey:  make(map[ir.Key]int, len(fields)),
	}
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Key.IsZero() {
			f.Key = ir.K(f.Name)
		}
		if f.Type == nil {
			return nil, fmt.Errorf("schema %s: field %q has no type", name, f.Name)
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: schema %s: name %q", ErrDuplicateField, name, f.Name)
		}
		if _, dup := s.byKey[f.Key]; dup && f.Kind == ValueField {
			return nil, fmt.Errorf("%w: schema %s: key %s", ErrDuplicateField, name, f.Key)
		}
		s.byName[f.Name] = i
		if f.Kind == ValueField {
			s.byKey[f.Key] = i
		}
	}
	return s, nil
}

func MustNew(name string, fields ...Field) *Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// WithCheck returns a copy of s with a post-validation hook.
func (s *Schema) WithCheck(f func(*ir.Node) error) *Schema {
	res := *s
	res.Check = f
	return &res
}

// WithAfterDecode returns a copy of s with a hook run on decoded maps.
func (s *Schema) WithAfterDecode(f func(*ir.Node) (*ir.Node, error)) *Schema {
	res := *s
	res.AfterDecode = f
	return &res
}

// AsRecord returns the map n as a record of s, passed through AfterDecode
// when one is set.
func (s *Schema) AsRecord(n *ir.Node) (*ir.Node, error) {
	if n == nil || !n.Type.IsMap() {
		return nil, fmt.Errorf("record %s: %w, got %s", s.Name, ir.ErrNotMap, typeOf(n))
	}
	if s.AfterDecode != nil {
		m, err := s.AfterDecode(n)
		if err != nil {
			return nil, fmt.Errorf("record %s: after decode: %w", s.Name, err)
		}
		if m == nil || !m.Type.IsMap() {
			return nil, fmt.Errorf("record %s: after decode: %w, got %s", s.Name, ir.ErrNotMap, typeOf(m))
		}
		n = m
	}
	return n.AsRecord(s.Name), nil
}

func typeOf(n *ir.Node) ir.Type {
	if n == nil {
		return ir.NullType
	}
	return n.Type
}

// Field returns the field with accessor name name.
func (s *Schema) Field(name string) (*Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return &s.Fields[i], true
}

// FieldByKey returns the value field stored under k.
func (s *Schema) FieldByKey(k ir.Key) (*Field, bool) {
	i, ok := s.byKey[k]
	if !ok {
		return nil, false
	}
	return &s.Fields[i], true
}

// ValueFields returns the fields stored in the backing document.
func (s *Schema) ValueFields() []*Field {
	res := make([]*Field, 0, len(s.Fields))
	for i := range s.Fields {
		if s.Fields[i].Kind == ValueField {
			res = append(res, &s.Fields[i])
		}
	}
	return res
}

// Required returns the names of the required value fields.
func (s *Schema) Required() []string {
	var res []string
	for _, f := range s.ValueFields() {
		if f.Required {
			res = append(res, f.Name)
		}
	}
	return res
}

// IsCachedKey reports whether the value field stored under k is cached.
func (s *Schema) IsCachedKey(k ir.Key) bool {
	f, ok := s.FieldByKey(k)
	return ok && f.Cached
}

func (s *Schema) String() string {
	if s == nil {
		return "<nil schema>"
	}
	return s.Name
}
