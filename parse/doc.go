// Package parse reads the text notation into [ir.Node] trees.
//
// # Usage
//
//	// one value
//	node, err := parse.Parse([]byte(`#point{:x 1 :y 2}`), parse.WithRegistry(reg))
//
//	// a stream of top-level values
//	dec := parse.NewDecoder(r)
//	for {
//		node, err := dec.Decode()
//		if err == io.EOF {
//			break
//		}
//		...
//	}
//
// # Tags
//
// A tagged element `#tag value` is resolved in order by a reader registered
// with [WithReader], by the registry given with [WithRegistry] (turning a
// map into a record of that schema), by the built-in readers for #inst,
// #uuid and #base64, and finally by the default reader. The default reader
// keeps the tag and value as an [ir.TaggedType] node so that unknown tags
// survive a round trip; [NoDefaultReader] makes them an error instead.
//
// # Related Packages
//
//   - github.com/signadot/dynobj/encode - the printer for the same notation
//   - github.com/signadot/dynobj/stream - iterate over a Decoder
package parse
