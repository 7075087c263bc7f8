// Package ir provides the generic value model underneath typed record views.
//
// # Overview
//
// Every document, whether read from text, decoded from the binary format,
// imported from JSON or YAML, or built programmatically, is an [ir.Node]
// tree. A Node is a recursive tagged union: the Type field says which of the
// other fields carries the value.
//
//   - Scalars: null, bool, int, float, big integers, decimals, strings,
//     byte strings, instants and keywords
//   - Collections: seqs (ordered), sets (unordered, no duplicates) and maps
//   - Records: maps carrying a schema identifier in Tag
//   - Tagged values: an element wrapped under a reader tag that had no
//     registered reader
//
// Nodes are treated as immutable. Operations such as [Node.Assoc] and
// [Node.Without] return a new node sharing structure with the receiver.
//
// # Equality
//
// [Compare] defines a total order and [Equal] structural equality. Map and
// set comparison ignores entry order, and Int/BigInt nodes holding the same
// integer are equal. [Node.Hash] is consistent with Equal.
//
// # Keys
//
// Record fields are addressed by [Key], an interned keyword name. Map nodes
// produced for records use keyword keys, see [Keyword] and [FromKey].
//
// # Go values
//
// [FromGo] converts dynamically typed Go values, normalizing numeric width.
package ir
