// Package format names the document formats understood by the adapters and
// holds the errors they share.
//
// # Related Packages
//
//   - github.com/signadot/dynobj/parse - read the text notation
//   - github.com/signadot/dynobj/encode - print the text notation
//   - github.com/signadot/dynobj/compact - the binary format
//   - github.com/signadot/dynobj/interop - JSON and YAML
package format
