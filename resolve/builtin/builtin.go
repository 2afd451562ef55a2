// Package builtin provides ready-made custom node definitions.
package builtin

import (
	"time"

	"github.com/fatih/color"

	"github.com/jsontree/go-jsontree/encode"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/policy"
	"github.com/jsontree/go-jsontree/resolve"
)

// Hyperlink matches http and https URL strings and renders them as links.
// It keeps the normal string editor.
func Hyperlink() *resolve.Definition {
	return &resolve.Definition{
		Name:      "Hyperlink",
		Condition: resolve.Condition(policy.MustExpr(`type == "string" && value matches "^https?://.+\\..+$"`)),
		Renderer: resolve.RenderFunc(func(d *resolve.Descriptor, _ *resolve.Resolved, _ resolve.Control) string {
			return color.New(color.FgBlue, color.Underline).Sprint(d.Value.String)
		}),
		ShowOnEdit:     resolve.Bool(false),
		ShowOnView:     resolve.Bool(true),
		ShowInSelector: resolve.Bool(false),
	}
}

// HexColor matches "#rrggbb" strings and renders a swatch before the
// value. It can be selected as a target type, starting from white.
func HexColor() *resolve.Definition {
	return &resolve.Definition{
		Name:      "Color",
		Condition: resolve.Condition(policy.MustExpr(`type == "string" && value matches "^#[0-9A-Fa-f]{6}$"`)),
		Renderer: resolve.RenderFunc(func(d *resolve.Descriptor, _ *resolve.Resolved, _ resolve.Control) string {
			return swatch(d.Value.String) + " " + d.Value.String
		}),
		ShowInSelector: resolve.Bool(true),
		DefaultValue:   ir.FromString("#ffffff"),
	}
}

// DateTime matches RFC 3339 timestamps and renders them in a readable
// form.
func DateTime() *resolve.Definition {
	return &resolve.Definition{
		Name: "Date",
		Condition: func(d *resolve.Descriptor) bool {
			if d.Value.Type != ir.StringType {
				return false
			}
			_, err := time.Parse(time.RFC3339, d.Value.String)
			return err == nil
		},
		Renderer: resolve.RenderFunc(func(d *resolve.Descriptor, _ *resolve.Resolved, _ resolve.Control) string {
			t, err := time.Parse(time.RFC3339, d.Value.String)
			if err != nil {
				return encode.Scalar(d.Value)
			}
			return t.Format("Jan 2, 2006 15:04 MST")
		}),
		ShowInSelector: resolve.Bool(true),
		DefaultValue:   ir.FromString("1970-01-01T00:00:00Z"),
	}
}

// All returns every built-in definition, most specific first.
func All() []*resolve.Definition {
	return []*resolve.Definition{HexColor(), DateTime(), Hyperlink()}
}

// ByName returns the built-in definition called name.
func ByName(name string) (*resolve.Definition, bool) {
	for _, def := range All() {
		if def.Name == name {
			return def, true
		}
	}
	return nil, false
}

func swatch(hex string) string {
	var r, g, b int
	for i, p := range []*int{&r, &g, &b} {
		*p = hexByte(hex[1+2*i:3+2*i])
	}
	return color.RGB(r, g, b).Sprint("■")
}

func hexByte(s string) int {
	n := 0
	for _, c := range s {
		n <<= 4
		switch {
		case c >= '0' && c <= '9':
			n |= int(c - '0')
		case c >= 'a' && c <= 'f':
			n |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			n |= int(c-'A') + 10
		}
	}
	return n
}
