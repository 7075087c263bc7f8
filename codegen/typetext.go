package codegen

import (
	"fmt"
	"go/types"
	"slices"
	"strconv"
	"strings"
)

// renderer writes field types as they appear in the generated file.
type renderer struct {
	pkg    *types.Package
	shapes map[*types.TypeName]*Shape
	// import path to name
	imports map[string]string
	// names in use
	names map[string]bool
}

func (r *renderer) typeText(t types.Type) (string, error) {
	switch x := types.Unalias(t).(type) {
	case *types.Basic:
		switch x.Kind() {
		case types.Complex64, types.Complex128, types.Uintptr, types.UnsafePointer:
			return "", fmt.Errorf("unsupported type %s", x)
		}
		if x.Info()&types.IsUntyped != 0 {
			return "", fmt.Errorf("unsupported type %s", x)
		}
		return x.Name(), nil
	case *types.Pointer:
		e, err := r.typeText(x.Elem())
		return "*" + e, err
	case *types.Slice:
		e, err := r.typeText(x.Elem())
		return "[]" + e, err
	case *types.Array:
		e, err := r.typeText(x.Elem())
		return fmt.Sprintf("[%d]%s", x.Len(), e), err
	case *types.Map:
		k, err := r.typeText(x.Key())
		if err != nil {
			return "", err
		}
		v, err := r.typeText(x.Elem())
		return "map[" + k + "]" + v, err
	case *types.Struct:
		if x.NumFields() == 0 {
			return "struct{}", nil
		}
	case *types.Interface:
		if x.Empty() {
			return "any", nil
		}
	case *types.Named:
		obj := x.Obj()
		if s, ok := r.shapes[obj]; ok {
			return s.View, nil
		}
		if x.TypeArgs().Len() != 0 {
			return "", fmt.Errorf("unsupported generic type %s", x)
		}
		if obj.Pkg() == nil || obj.Pkg() == r.pkg {
			return obj.Name(), nil
		}
		return r.importName(obj.Pkg()) + "." + obj.Name(), nil
	}
	return "", fmt.Errorf("unsupported type %s", t)
}

func (r *renderer) importName(p *types.Package) string {
	if name, ok := r.imports[p.Path()]; ok {
		return name
	}
	name := p.Name()
	for i := 2; r.names[name] || r.pkg.Scope().Lookup(name) != nil; i++ {
		name = p.Name() + strconv.Itoa(i)
	}
	r.names[name] = true
	r.imports[p.Path()] = name
	return name
}

func (r *renderer) importList() []Import {
	res := []Import{
		{Name: "record", Path: "github.com/signadot/dynobj/record"},
		{Name: "schema", Path: "github.com/signadot/dynobj/schema"},
	}
	for path, name := range r.imports {
		res = append(res, Import{Name: name, Path: path})
	}
	slices.SortFunc(res[2:], func(a, b Import) int {
		return strings.Compare(a.Path, b.Path)
	})
	return res
}
