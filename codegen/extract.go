package codegen

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/signadot/dynobj/schema"
)

// methods of *record.Record and of generated views, which accessors and
// builders must not shadow
var reserved = map[string]bool{
	"Node": true, "Schema": true, "Lookup": true, "Len": true,
	"Entries": true, "Assoc": true, "Without": true, "Meta": true,
	"WithMeta": true, "Equal": true, "Hash": true, "String": true,
	"Value": true, "Validate": true, "ViewSchema": true, "Record": true,
}

// Extract collects the shape structs of p, in source order. It returns a
// nil File when p has none.
func Extract(p *Package) (*File, error) {
	type found struct {
		shape *Shape
		st    *types.Struct
	}
	fset, pkg, info := p.Fset, p.Types, p.TypesInfo
	var all []found
	byObj := map[*types.TypeName]*Shape{}
	for _, file := range p.Files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				obj, ok := info.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}
				st, ok := obj.Type().Underlying().(*types.Struct)
				if !ok {
					continue
				}
				s, err := marker(obj.Name(), st)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", fset.Position(ts.Pos()), err)
				}
				if s == nil {
					continue
				}
				s.Pos = fset.Position(ts.Pos())
				all = append(all, found{s, st})
				byObj[obj] = s
			}
		}
	}
	if len(all) == 0 {
		return nil, nil
	}
	views := map[string]*Shape{}
	for _, f := range all {
		if o, dup := views[f.shape.View]; dup {
			return nil, fmt.Errorf("%s: view %s also generated for %s", f.shape.Pos, f.shape.View, o.Name)
		}
		views[f.shape.View] = f.shape
		if obj := pkg.Scope().Lookup(f.shape.View); obj != nil && !generated(fset, obj) {
			return nil, fmt.Errorf("%s: view %s is already declared", f.shape.Pos, f.shape.View)
		}
	}
	r := &renderer{pkg: pkg, shapes: byObj, imports: map[string]string{}, names: map[string]bool{
		"record": true,
		"schema": true,
	}}
	res := &File{Package: p.Name}
	for _, f := range all {
		if err := r.fields(f.shape, f.st); err != nil {
			return nil, fmt.Errorf("%s: %w", f.shape.Pos, err)
		}
		res.Shapes = append(res.Shapes, f.shape)
	}
	res.Imports = r.importList()
	return res, nil
}

// generated reports whether obj comes from a file written by Generate.
func generated(fset *token.FileSet, obj types.Object) bool {
	return strings.HasSuffix(fset.Position(obj.Pos()).Filename, OutputSuffix)
}

// marker returns the shape for a struct with a schema marker field, or nil.
func marker(name string, st *types.Struct) (*Shape, error) {
	for i := range st.NumFields() {
		if st.Field(i).Name() != "_" {
			continue
		}
		tag, err := schema.ParseStructTag(reflect.StructTag(st.Tag(i)).Get("dyn"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		sn, ok := tag["schema"]
		if !ok {
			continue
		}
		if sn == "" {
			return nil, fmt.Errorf("%s: empty schema name", name)
		}
		view := tag["view"]
		if view == "" {
			view = viewName(name)
		}
		return &Shape{Name: name, Schema: sn, View: view}, nil
	}
	return nil, nil
}

func viewName(shape string) string {
	if v, ok := strings.CutSuffix(shape, "Shape"); ok && v != "" {
		return v
	}
	return shape + "View"
}

func (r *renderer) fields(s *Shape, st *types.Struct) error {
	for i := range st.NumFields() {
		v := st.Field(i)
		if v.Name() == "_" || !v.Exported() {
			continue
		}
		tag, err := schema.ParseStructTag(reflect.StructTag(st.Tag(i)).Get("dyn"))
		if err != nil {
			return fmt.Errorf("%s.%s: %w", s.Name, v.Name(), err)
		}
		if _, skip := tag["-"]; skip {
			continue
		}
		if v.Embedded() {
			return fmt.Errorf("%s.%s: embedded fields are not supported", s.Name, v.Name())
		}
		if reserved[v.Name()] || reserved["With"+v.Name()] {
			return fmt.Errorf("%s.%s: field name conflicts with a record method", s.Name, v.Name())
		}
		text, err := r.typeText(v.Type())
		if err != nil {
			return fmt.Errorf("%s.%s: %w", s.Name, v.Name(), err)
		}
		_, req := tag["required"]
		_, cached := tag["cached"]
		_, meta := tag["meta"]
		s.Fields = append(s.Fields, &ShapeField{
			GoName:   v.Name(),
			Name:     lowerFirst(v.Name()),
			Key:      tag["key"],
			Type:     v.Type(),
			TypeText: text,
			Required: req,
			Cached:   cached,
			Meta:     meta,
		})
	}
	return nil
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
