// Package interop converts documents between ir and JSON or YAML and
// applies JSON patches to documents.
//
// # JSON
//
// JSON objects become maps. Object keys are read as keywords when they can
// be written as keywords and as strings otherwise; StringKeys reads them
// all as strings. Numbers are read through
// json.Number: integers become Int, or BigInt when they do not fit in 64
// bits, and all other numbers become Float (or Decimal with WithDecimals).
//
// Writing JSON loses information. Keywords are written as strings, sets
// as arrays, times as RFC 3339 strings and bytes as base64 strings. Record
// and reader tags are dropped. Map keys which are not strings or keywords
// are written as their text notation.
//
// # YAML
//
// YAML is closer to ir. A local tag such as !point on a mapping names a
// record when the registry holds a schema for it; other local tags go
// through the same readers as the text notation and by default are kept
// as tagged values. !!set mappings become sets, !!timestamp scalars
// become times and !!binary scalars become bytes. Keywords are written as
// plain strings.
//
// # Patches
//
// ApplyJSONPatch and ApplyMergePatch round trip a document through JSON,
// so they carry the JSON losses above, except that the record tag of the
// patched document is restored.
//
// # Related Packages
//
//   - github.com/signadot/dynobj/stream - format independent readers and writers
//   - github.com/signadot/dynobj/parse - the text notation
package interop
