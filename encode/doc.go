// Package encode prints [ir.Node] trees in the text notation read by the
// parse package.
//
// # Usage
//
//	// pretty, multi-line output
//	err := encode.Encode(node, os.Stdout)
//
//	// one line per document
//	err := encode.Encode(node, w, encode.EncodeWire(true))
//
//	// terminal colors
//	err := encode.Encode(node, w, encode.EncodeColors(encode.NewColors()))
//
// Records print as `#name{...}` using the schema identifier carried by the
// node; [EncodeRecordTags] turns that off. Instants, byte strings and
// unknown tagged values print under their tags (#inst, #base64, #tag) so
// that the output reads back to an equal node.
package encode
