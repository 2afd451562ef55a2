package encode

import (
	"github.com/jsontree/go-jsontree/ir"

	"github.com/fatih/color"
)

type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
	ErrorColor
	MarkColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, t := range ir.Types() {
		able := Colorable{Type: t, Attr: SepColor}
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
		able.Attr = FieldColor
		colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
		able.Attr = ErrorColor
		colors.Map[able] = color.New(color.FgRed, color.Bold).SprintfFunc()
		able.Attr = MarkColor
		colors.Map[able] = color.New(color.FgYellow).SprintfFunc()
	}
	able := Colorable{Attr: ValueColor}

	able.Type = ir.NumberType
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()

	able.Type = ir.NullType
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()

	able.Type = ir.BoolType
	colors.Map[able] = color.CyanString

	able.Type = ir.StringType
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()

	able.Type = ir.CustomType
	colors.Map[able] = color.RGB(198, 198, 46).SprintfFunc()
	return colors
}

func colorDefault(s string, _ ...any) string {
	return s
}

// Color returns the formatting function for t and attr; nil Colors format
// nothing.
func (c *Colors) Color(t ir.Type, attr ColorAttr) func(string, ...any) string {
	if c == nil {
		return colorDefault
	}
	if f, ok := c.Map[Colorable{Type: t, Attr: attr}]; ok {
		return f
	}
	return c.Default
}
