// Package schema describes the typed views laid over generic documents.
//
// A [Schema] is a named list of [Field] descriptors. Each field has a Go
// type, a key in the backing map, and flags marking it required, cached (for
// the binary format's value cache) or meta (kept beside the document rather
// than in it).
//
// Schemas are plain values. They can be assembled directly:
//
//	point := schema.MustNew("point",
//		schema.Of[int64]("x").Req(),
//		schema.Of[int64]("y").Req(),
//		schema.Of[*string]("label"),
//	)
//
// or discovered from an annotated shape struct with [FromStruct]:
//
//	type Point struct {
//		_     struct{} `dyn:"schema=point"`
//		X     int64    `dyn:"required"`
//		Y     int64    `dyn:"required"`
//		Label *string
//	}
//
// A [Registry] maps schema names, which double as format tags, to schemas.
// Registries are owned by the caller and handed to the adapters explicitly.
package schema
