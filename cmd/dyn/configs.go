package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/dynobj/encode"
	"github.com/signadot/dynobj/format"
	"github.com/signadot/dynobj/stream"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color    bool `cli:"name=color desc='encode with color'"`
	WireOut  bool `cli:"name=wire desc='output text one document per line'"`
	Indent   int  `cli:"name=indent desc='indentation of text, json and yaml output'"`
	Decimals bool `cli:"name=decimals desc='read json and yaml fractions as decimals'"`
	Strict   bool `cli:"name=strict desc='fail on unknown tags'"`

	T bool `cli:"name=t aliases=text desc='do i/o in text'"`
	B bool `cli:"name=b aliases=binary desc='do i/o in binary'"`
	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// flagFormat is the format selected by -t, -b, -j or -y, if any.
func (cfg *MainConfig) flagFormat() (format.Format, bool) {
	switch {
	case cfg.T:
		return format.TextFormat, true
	case cfg.B:
		return format.BinaryFormat, true
	case cfg.J:
		return format.JSONFormat, true
	case cfg.Y:
		return format.YAMLFormat, true
	}
	return format.TextFormat, false
}

// inFormat returns the input format and whether it was given explicitly.
// Without one, binary input is recognized by its header and anything else
// is read as text.
func (cfg *MainConfig) inFormat() (format.Format, bool) {
	if cfg.InFormat != nil {
		return *cfg.InFormat, true
	}
	return cfg.flagFormat()
}

func (cfg *MainConfig) outFormat() format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	f, _ := cfg.flagFormat()
	return f
}

func (cfg *MainConfig) readOpts() []stream.Option {
	res := []stream.Option{stream.WithDecimals(cfg.Decimals)}
	if cfg.Strict {
		res = append(res, stream.NoDefaultReader())
	}
	return res
}

func (cfg *MainConfig) writeOpts(w io.Writer) []stream.Option {
	res := []stream.Option{stream.Wire(cfg.WireOut)}
	if cfg.Indent > 0 {
		res = append(res, stream.WithIndent(cfg.Indent))
	}
	if cfg.colors(w) {
		res = append(res, stream.WithColors(encode.NewColors()))
	}
	return res
}

// colors reports whether text output to w is colored: always with -color,
// never with -color=false, and otherwise when w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name != "color" {
				continue
			}
			if opt.Value != nil {
				return false
			}
			break
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type ConvertConfig struct {
	*MainConfig

	Convert *cli.Command
}

type CombineConfig struct {
	*MainConfig
	op combineOp

	Combine *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Structural bool `cli:"name=s desc='print the entries only in each input instead of a line diff'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Merge bool `cli:"name=merge desc='treat the patch as a merge patch'"`
	JSON  bool `cli:"name=json6902 desc='treat the patch as a json patch'"`

	Patch *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q desc='only report errors'"`

	Check *cli.Command
}
