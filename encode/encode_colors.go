package encode

import (
	"github.com/fatih/color"
	"github.com/signadot/dynobj/ir"
)

type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	TagColor ColorAttr = iota
	FieldColor
	ValueColor
	SepColor
)

// Colors maps each (type, attribute) pair of the printer to a coloring
// function. Pairs missing from Map print through Default.
type Colors struct {
	Default func(string) string
	Map     map[Colorable]func(string) string
}

type shade struct {
	types []ir.Type
	attr  ColorAttr
	c     *color.Color
}

// shades are applied in order, later entries overriding earlier ones.
func shades() []shade {
	numbers := []ir.Type{ir.IntType, ir.FloatType, ir.BigIntType, ir.DecimalType}
	return []shade{
		{ir.Types(), TagColor, color.RGB(74, 92, 138)},
		{ir.Types(), SepColor, color.RGB(255, 0, 196)},
		{[]ir.Type{ir.MapType, ir.RecordType}, SepColor, color.RGB(196, 128, 128)},
		{numbers, ValueColor, color.RGB(128, 216, 236)},
		{[]ir.Type{ir.NullType}, ValueColor, color.RGB(168, 0, 196)},
		{[]ir.Type{ir.BoolType}, ValueColor, color.New(color.FgCyan)},
		{[]ir.Type{ir.KeywordType}, ValueColor, color.RGB(196, 168, 128)},
		{[]ir.Type{ir.KeywordType}, FieldColor, color.RGB(128, 168, 196)},
		{[]ir.Type{ir.StringType}, ValueColor, color.RGB(8, 196, 16)},
		{[]ir.Type{ir.StringType}, FieldColor, color.RGB(196, 96, 16)},
		{[]ir.Type{ir.TimeType}, ValueColor, color.RGB(88, 158, 86)},
		{[]ir.Type{ir.BytesType}, ValueColor, color.RGB(198, 198, 46)},
	}
}

func NewColors() *Colors {
	colors := &Colors{
		Default: func(s string) string { return s },
		Map:     map[Colorable]func(string) string{},
	}
	for _, sh := range shades() {
		f := sh.c.SprintFunc()
		for _, t := range sh.types {
			colors.Map[Colorable{Type: t, Attr: sh.attr}] = func(s string) string { return f(s) }
		}
	}
	return colors
}

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t ir.Type, a ColorAttr) func(string) string {
	if f := c.Map[Colorable{Type: t, Attr: a}]; f != nil {
		return f
	}
	return c.Default
}
