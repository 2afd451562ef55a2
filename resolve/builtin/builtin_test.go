package builtin

import (
	"testing"

	"github.com/fatih/color"

	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/resolve"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		in   *ir.Node
		want string
	}{
		{"url", ir.FromString("https://example.com/x"), "Hyperlink"},
		{"http url", ir.FromString("http://a.b"), "Hyperlink"},
		{"not a url", ir.FromString("ftp://example.com"), "string"},
		{"no dot", ir.FromString("https://localhost"), "string"},
		{"color", ir.FromString("#A0b1C2"), "Color"},
		{"short color", ir.FromString("#fff"), "string"},
		{"date", ir.FromString("2024-02-29T10:00:00Z"), "Date"},
		{"offset date", ir.FromString("2024-02-29T10:00:00+02:00"), "Date"},
		{"bad date", ir.FromString("2024-02-30T10:00:00Z"), "string"},
		{"number", ir.FromInt(12), "number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resolve.Resolve(resolve.Root(tt.in, "root"), All())
			if r.Name() != tt.want {
				t.Errorf("Resolve() = %s, want %s", r.Name(), tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	color.NoColor = true
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Date", "2024-02-29T10:00:00Z", "Feb 29, 2024 10:00 UTC"},
		{"Color", "#ff0000", "■ #ff0000"},
		{"Hyperlink", "https://example.com", "https://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := ByName(tt.name)
			if !ok {
				t.Fatalf("ByName(%q) not found", tt.name)
			}
			d := resolve.Root(ir.FromString(tt.in), "root")
			r := resolve.Resolve(d, []*resolve.Definition{def})
			if got := def.Renderer.Render(d, r, nil); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectable(t *testing.T) {
	sel := resolve.Selectable(All())
	var names []string
	for _, def := range sel {
		names = append(names, def.Name)
		if def.DefaultValue == nil {
			t.Errorf("%s has no default value", def.Name)
		}
		d := resolve.Root(def.DefaultValue, "root")
		if r := resolve.Resolve(d, All()); r.Definition == nil || r.Definition.Name != def.Name {
			t.Errorf("default of %s resolves to %s", def.Name, r.Name())
		}
	}
	if len(names) != 2 {
		t.Errorf("Selectable() = %v, want Color and Date", names)
	}
}

func TestHexByte(t *testing.T) {
	for in, want := range map[string]int{"00": 0, "ff": 255, "A0": 160, "7f": 127} {
		if got := hexByte(in); got != want {
			t.Errorf("hexByte(%q) = %d, want %d", in, got, want)
		}
	}
}
