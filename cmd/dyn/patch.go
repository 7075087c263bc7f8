package main

import (
	"fmt"

	"github.com/signadot/dynobj/interop"
	"github.com/signadot/dynobj/ir"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires 2 arguments, a patch document, and a file to which to apply it", cli.ErrUsage)
	}
	p, err := getObjFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	target, err := getObjFile(cfg.MainConfig, cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	res, err := applyPatch(cfg, target, p)
	if err != nil {
		return fmt.Errorf("error patching %s: %w", args[1], err)
	}
	return writeDocs(cfg.MainConfig, cc.Out, res)
}

func applyPatch(cfg *PatchConfig, doc, p *ir.Node) (*ir.Node, error) {
	if cfg.Merge && cfg.JSON {
		return nil, fmt.Errorf("%w: must specify at most one of -merge -json6902", cli.ErrUsage)
	}
	opts := []interop.Option{interop.WithDecimals(cfg.Decimals)}
	switch {
	case cfg.Merge:
		return interop.ApplyMergePatch(doc, p, opts...)
	case cfg.JSON:
		return interop.ApplyJSONPatch(doc, p, opts...)
	case p.Type == ir.SeqType:
		return interop.ApplyJSONPatch(doc, p, opts...)
	case p.Type.IsMap():
		return interop.ApplyMergePatch(doc, p, opts...)
	}
	return nil, fmt.Errorf("%w: a patch is a sequence or a map, got %s", cli.ErrUsage, p.Type)
}
