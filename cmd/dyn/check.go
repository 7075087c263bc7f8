package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/signadot/dynobj/compact"

	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	for _, file := range inputs(args) {
		if err := checkFile(cfg, cc, file); err != nil {
			return err
		}
	}
	return nil
}

func checkFile(cfg *CheckConfig, cc *cli.Context, file string) error {
	var r io.Reader = cc.In
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("could not open %q: %w", file, err)
		}
		defer f.Close()
		r = f
	}
	docs, frames, err := checkStream(r, cfg.Strict)
	if err != nil {
		return fmt.Errorf("%s: document %d: %w", file, docs, err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(cc.Out, "%s: %d documents, %d frames ok\n", file, docs, frames)
	}
	return nil
}

// checkStream decodes every document of the binary stream r, returning
// the number of documents and frames read.
func checkStream(r io.Reader, strict bool) (docs, frames int, err error) {
	var opts []compact.Option
	if strict {
		opts = append(opts, compact.NoDefaultReader())
	}
	dec := compact.NewDecoder(r, opts...)
	for {
		_, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return docs, dec.Frames(), nil
		}
		if err != nil {
			return docs, dec.Frames(), err
		}
		docs++
	}
}
