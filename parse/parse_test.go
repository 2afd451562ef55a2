package parse

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jsontree/go-jsontree/format"
	"github.com/jsontree/go-jsontree/ir"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *ir.Node
	}{
		{"null", "null", ir.Null()},
		{"number", "12", ir.FromInt(12)},
		{"float", "1.5", ir.FromFloat(1.5)},
		{"string", `"a\"b"`, ir.FromString(`a"b`)},
		{"empty object", "{}", ir.FromKeyVals(nil)},
		{"empty array", " [ ] ", ir.FromSlice(nil)},
		{"key order", `{"b":1,"a":[true,null]}`, ir.FromKeyVals([]ir.KeyVal{
			{Key: "b", Val: ir.FromInt(1)},
			{Key: "a", Val: ir.FromSlice([]*ir.Node{ir.FromBool(true), ir.Null()})},
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !ir.Equal(got, tt.want) {
				t.Errorf("Parse() = %v, want %v", ir.ToAny(got), ir.ToAny(tt.want))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"{",
		`{"a":1,}`,
		`{"a":1,"a":2}`,
		"[1] 2",
		"nope",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse([]byte(in))
			if !errors.Is(err, ErrParse) {
				t.Errorf("Parse(%q) error = %v, want ErrParse", in, err)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	in := `
z: 1
a:
  - x
  - -2
  - 2.5
m: {k: true}
`
	got, err := Parse([]byte(in), ParseFormat(format.YAMLFormat))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"z", "a", "m"}, got.Fields); diff != "" {
		t.Errorf("key order (-want +got):\n%s", diff)
	}
	want := map[string]any{
		"z": int64(1),
		"a": []any{"x", int64(-2), 2.5},
		"m": map[string]any{"k": true},
	}
	if diff := cmp.Diff(want, ir.ToAny(got)); diff != "" {
		t.Errorf("Parse() (-want +got):\n%s", diff)
	}
	if _, err := Parse([]byte("a: [1"), ParseYAML()); !errors.Is(err, ErrParse) {
		t.Errorf("bad yaml error = %v, want ErrParse", err)
	}
}
