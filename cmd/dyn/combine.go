package main

import (
	"fmt"

	"github.com/signadot/dynobj/record"

	"github.com/scott-cotton/cli"
)

type combineOp struct {
	name    string
	aliases []string
	desc    string
	apply   func(a, b *record.Record) (*record.Record, error)
}

var (
	mergeOp = combineOp{
		name:    "merge",
		aliases: []string{"m"},
		desc:    "merge two records, the second taking precedence",
		apply:   record.Merge,
	}
	intersectOp = combineOp{
		name:    "intersect",
		aliases: []string{"i", "and"},
		desc:    "print the entries two records have in common",
		apply:   record.Intersect,
	}
	subtractOp = combineOp{
		name:    "subtract",
		aliases: []string{"s", "sub"},
		desc:    "print the entries of the first record not in the second",
		apply:   record.Subtract,
	}
)

func combine(cfg *CombineConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Combine.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: %s requires 2 args, got %v", cli.ErrUsage, cfg.op.name, args)
	}
	a, err := getRecord(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	b, err := getRecord(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	res, err := cfg.op.apply(a, b)
	if err != nil {
		return fmt.Errorf("error in %s: %w", cfg.op.name, err)
	}
	return writeDocs(cfg.MainConfig, cc.Out, res.Node())
}
