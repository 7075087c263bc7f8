package format

import (
	"errors"
	"fmt"
)

type Format int

const (
	TextFormat Format = iota
	BinaryFormat
	JSONFormat
	YAMLFormat
)

var (
	ErrBadFormat = errors.New("bad format")

	// ErrUnknownTag is returned when a tagged element has no reader and the
	// default reader has been disabled.
	ErrUnknownTag = errors.New("unknown format tag")

	// ErrChecksum is returned when a binary frame fails its checksum.
	ErrChecksum = errors.New("checksum mismatch")

	ErrSyntax = errors.New("syntax error")
)

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"t":      TextFormat,
		"text":   TextFormat,
		"edn":    TextFormat,
		"b":      BinaryFormat,
		"binary": BinaryFormat,
		"j":      JSONFormat,
		"json":   JSONFormat,
		"y":      YAMLFormat,
		"yaml":   YAMLFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case TextFormat:
		return []byte("text"), nil
	case BinaryFormat:
		return []byte("binary"), nil
	case JSONFormat:
		return []byte("json"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsText() bool   { return f == TextFormat }
func (f Format) IsBinary() bool { return f == BinaryFormat }
func (f Format) IsJSON() bool   { return f == JSONFormat }
func (f Format) IsYAML() bool   { return f == YAMLFormat }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case TextFormat:
		return ".edn"
	case BinaryFormat:
		return ".dyb"
	case JSONFormat:
		return ".json"
	case YAMLFormat:
		return ".yaml"
	default:
		return ""
	}
}

// FromSuffix guesses a format from a file name, defaulting to text.
func FromSuffix(name string) Format {
	for _, f := range AllFormats() {
		if n := len(f.Suffix()); len(name) > n && name[len(name)-n:] == f.Suffix() {
			return f
		}
	}
	if n := len(name); n > 4 && name[n-4:] == ".yml" {
		return YAMLFormat
	}
	return TextFormat
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{TextFormat, BinaryFormat, JSONFormat, YAMLFormat}
}
