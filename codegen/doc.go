// Package codegen generates record views from annotated shape structs.
//
// A shape struct is marked by a blank field carrying the schema name:
//
//	type PointShape struct {
//	    _ struct{} `dyn:"schema=point"`
//
//	    X     int64 `dyn:"required"`
//	    Y     int64
//	    Label string `dyn:"key=name,cached"`
//	}
//
// Fields use the same `dyn` tags as schema.FromStruct. For each shape the
// generator writes a schema variable, a view type embedding
// *record.Record with its ViewSchema method, a constructor, a Validate
// method, and per field an accessor and a With builder:
//
//	p, err := NewPoint().WithX(1)
//	x, err := p.X()
//
// The view is named by `view=Name` in the marker tag, or else by the shape
// name without its "Shape" suffix. Fields whose type is another shape of
// the same package get that shape's view type.
//
// Generated code is written to <package>_dyn.go.
//
// # Related Packages
//
//   - github.com/signadot/dynobj/record - views and records
//   - github.com/signadot/dynobj/schema - schema descriptors
package codegen
