// Package record provides typed views over generic documents.
//
// A [Record] pairs a map node with a [schema.Schema]. Field reads convert
// the stored node to the field's declared Go type on first access and
// cache the result for the lifetime of the record; entries the schema does
// not declare are kept untouched, so a document survives a read, modify,
// write cycle unchanged apart from what was modified.
//
// View types give records a static API:
//
//	type Point struct{ *record.Record }
//
//	func (Point) ViewSchema() *schema.Schema { return pointSchema }
//
//	func (p Point) X() (int64, error) { return record.Get[int64](p.Record, "x") }
//
// Views nest: a field declared as Point, []Point or map[string]Point holds
// record nodes which are wrapped on access and checked by [Validate].
//
// [ToTyped] and [ToGeneric] are the converters used by field access and
// builders. They are exported for adapters and generated code.
//
// [Merge], [Intersect], [Subtract] and [Diff] combine two records of the
// same schema.
package record
