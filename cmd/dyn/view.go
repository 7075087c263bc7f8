package main

import (
	"fmt"

	"github.com/signadot/dynobj/format"
	"github.com/signadot/dynobj/stream"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	w, err := stream.NewWriter(cc.Out, format.TextFormat, cfg.writeOpts(cc.Out)...)
	if err != nil {
		return err
	}
	for _, file := range inputs(args) {
		if err := withInput(cfg.MainConfig, cc, file, func(nr stream.NodeReader) error {
			return viewReader(w, nr)
		}); err != nil {
			return err
		}
	}
	return w.Close()
}

func viewReader(w stream.NodeWriter, nr stream.NodeReader) error {
	it := stream.New(nr)
	for doc := range it.All() {
		if err := w.Encode(doc); err != nil {
			return fmt.Errorf("error encoding document %d: %w", it.Count(), err)
		}
	}
	return it.Err()
}

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		return err
	}
	w, err := stream.NewWriter(cc.Out, cfg.outFormat(), cfg.writeOpts(cc.Out)...)
	if err != nil {
		return err
	}
	for _, file := range inputs(args) {
		if err := withInput(cfg.MainConfig, cc, file, func(nr stream.NodeReader) error {
			_, err := stream.Copy(w, nr)
			return err
		}); err != nil {
			return err
		}
	}
	return w.Close()
}
