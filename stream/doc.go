// Package stream reads and writes sequences of documents in any of the
// supported formats.
//
// Every format has a reader with a Decode method returning io.EOF after
// the last document, and a writer with an Encode method. NewReader and
// NewWriter pick the implementation for a format.Format:
//
//	r, err := stream.NewReader(os.Stdin, format.BinaryFormat, stream.WithRegistry(reg))
//	if err != nil {
//	    return err
//	}
//	it := stream.New(r)
//	for doc := range it.All() {
//	    ...
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
//
// An Iterator is forward only and cannot be restarted. It ends either done,
// when the reader is exhausted, or failed, when a document could not be
// decoded; Err is nil in the first case.
//
// Records and Views wrap the documents of an Iterator as records of a
// schema.
//
// # Related Packages
//
//   - github.com/signadot/dynobj/parse - text reader
//   - github.com/signadot/dynobj/compact - binary reader and writer
//   - github.com/signadot/dynobj/interop - JSON and YAML readers and writers
package stream
