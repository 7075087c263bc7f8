package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/signadot/dynobj/format"
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/record"
	"github.com/signadot/dynobj/stream"

	"github.com/scott-cotton/cli"
)

// withInput calls f with a reader of the documents in path, or in cc.In
// when path is "-".
func withInput(cfg *MainConfig, cc *cli.Context, path string, f func(stream.NodeReader) error) error {
	var r io.Reader
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("could not open %q: %w", path, err)
		}
		defer file.Close()
		r = file
	} else {
		r = cc.In
	}
	nr, err := newReader(cfg, r)
	if err != nil {
		return err
	}
	if err := f(nr); err != nil {
		return fmt.Errorf("error processing %s: %w", path, err)
	}
	return nil
}

func newReader(cfg *MainConfig, r io.Reader) (stream.NodeReader, error) {
	if f, ok := cfg.inFormat(); ok {
		return stream.NewReader(r, f, cfg.readOpts()...)
	}
	nr, _, err := stream.Open(r, format.TextFormat, cfg.readOpts()...)
	return nr, err
}

// inputs returns the file arguments, standing in "-" for none.
func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

// getObjFile reads the single document in path.
func getObjFile(cfg *MainConfig, cc *cli.Context, path string) (*ir.Node, error) {
	var res *ir.Node
	err := withInput(cfg, cc, path, func(nr stream.NodeReader) error {
		n, err := single(nr)
		res = n
		return err
	})
	return res, err
}

func single(nr stream.NodeReader) (*ir.Node, error) {
	n, err := nr.Decode()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no document", format.ErrSyntax)
	}
	if err != nil {
		return nil, err
	}
	_, err = nr.Decode()
	if err == nil {
		return nil, fmt.Errorf("%w: more than one document", format.ErrSyntax)
	}
	if !errors.Is(err, io.EOF) {
		return nil, err
	}
	return n, nil
}

// asRecord reads n as a record. Tagged maps whose tag has no schema are
// read as records carrying the tag.
func asRecord(n *ir.Node) (*record.Record, error) {
	if n.Type == ir.TaggedType && n.Elem().Type.IsMap() {
		n = n.Elem().AsRecord(n.Tag)
	}
	return record.FromNode(n, nil)
}

func getRecord(cfg *MainConfig, cc *cli.Context, path string) (*record.Record, error) {
	n, err := getObjFile(cfg, cc, path)
	if err != nil {
		return nil, err
	}
	r, err := asRecord(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// writeDocs writes docs to w in the output format.
func writeDocs(cfg *MainConfig, w io.Writer, docs ...*ir.Node) error {
	sw, err := stream.NewWriter(w, cfg.outFormat(), cfg.writeOpts(w)...)
	if err != nil {
		return err
	}
	for i, doc := range docs {
		if err := sw.Encode(doc); err != nil {
			return fmt.Errorf("error encoding result %d: %w", i, err)
		}
	}
	return sw.Close()
}
