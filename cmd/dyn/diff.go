package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/dynobj/encode"
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/libdiff"

	"github.com/scott-cotton/cli"

	"github.com/fatih/color"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	y1, err := getObjFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	y2, err := getObjFile(cfg.MainConfig, cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	if ir.Equal(y1, y2) {
		return nil
	}
	if cfg.Structural {
		onlyA, onlyB, _ := libdiff.Diff(y1, y2)
		err = writeDocs(cfg.MainConfig, cc.Out, structural(onlyA, onlyB))
	} else {
		err = textDiff(cc.Out, y1, y2, cfg.colors(cc.Out))
	}
	if err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

// structural is the document printed by diff -s.
func structural(onlyA, onlyB *ir.Node) *ir.Node {
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.Keyword("only-a"), Val: orNull(onlyA)},
		{Key: ir.Keyword("only-b"), Val: orNull(onlyB)},
	})
}

func orNull(n *ir.Node) *ir.Node {
	if n == nil {
		return ir.Null()
	}
	return n
}

// textDiff writes a line diff of the pretty text of a and b.
func textDiff(w io.Writer, a, b *ir.Node, colored bool) error {
	from, err := pretty(a)
	if err != nil {
		return err
	}
	to, err := pretty(b)
	if err != nil {
		return err
	}
	out := libdiff.Lines(from, to)
	if !colored {
		_, err = io.WriteString(w, out)
		return err
	}
	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	for _, ln := range strings.SplitAfter(out, "\n") {
		switch {
		case strings.HasPrefix(ln, "-"):
			ln = del.Sprint(ln)
		case strings.HasPrefix(ln, "+"):
			ln = ins.Sprint(ln)
		}
		if _, err := io.WriteString(w, ln); err != nil {
			return err
		}
	}
	return nil
}

func pretty(n *ir.Node) (string, error) {
	buf := &bytes.Buffer{}
	if err := encode.Encode(n, buf, encode.Pretty(2)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
