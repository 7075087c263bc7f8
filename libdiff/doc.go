// Package libdiff computes structural differences between documents.
//
// # Usage
//
//	onlyA, onlyB, common := libdiff.Diff(a, b)
//
// Maps (and records) are compared key by key: values equal on both sides
// go to common, keys present on one side only go to that side, and map
// values present on both sides are diffed recursively so that each side
// holds only the part that differs. Any other pair of values is compared
// whole. In particular sequences and sets are never diffed element-wise: a
// seq that differs in one element appears in full on both sides.
//
// Keys keep their insertion order: onlyA and common list keys in the order
// of a, onlyB in the order of b.
//
// A nil result means "nothing": Diff(a, a) returns nil, nil, a.
//
// [Lines] renders a line oriented textual diff of two printed documents.
package libdiff
