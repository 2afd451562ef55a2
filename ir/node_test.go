package ir

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTruth(t *testing.T) {
	tests := []struct {
		name string
		in   *Node
		want bool
	}{
		{"nil", nil, false},
		{"null", Null(), false},
		{"empty string", FromString(""), false},
		{"string", FromString("x"), true},
		{"zero", FromInt(0), false},
		{"zero float", FromFloat(0), false},
		{"number", FromFloat(0.5), true},
		{"false", FromBool(false), false},
		{"true", FromBool(true), true},
		{"empty array", FromSlice(nil), true},
		{"empty object", FromKeyVals(nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truth(tt.in); got != tt.want {
				t.Errorf("Truth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromNumber(t *testing.T) {
	tests := []struct {
		in   string
		text string
	}{
		{"12", "12"},
		{"-3", "-3"},
		{"1.25", "1.25"},
		{"1e400", "1e400"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n := FromNumber(tt.in)
			if n.Type != NumberType {
				t.Fatalf("type = %v", n.Type)
			}
			if got := n.NumberText(); got != tt.text {
				t.Errorf("NumberText() = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestShallowCopy(t *testing.T) {
	child := FromInt(1)
	a := FromKeyVals([]KeyVal{{Key: "a", Val: child}})
	b := a.ShallowCopy()
	b.Fields[0] = "b"
	if a.Fields[0] != "a" {
		t.Errorf("ShallowCopy shares fields")
	}
	if b.Values[0] != child {
		t.Errorf("ShallowCopy copied children")
	}
}

func TestCheck(t *testing.T) {
	good := FromKeyVals([]KeyVal{{Key: "a", Val: FromSlice([]*Node{Null()})}})
	if err := good.Check(); err != nil {
		t.Fatalf("Check() = %v", err)
	}
	dup := FromKeyVals([]KeyVal{{Key: "a", Val: Null()}, {Key: "a", Val: Null()}})
	if err := dup.Check(); !errors.Is(err, ErrBadShape) {
		t.Errorf("Check() duplicate = %v, want ErrBadShape", err)
	}
	short := &Node{Type: ObjectType, Fields: []string{"a"}}
	if err := short.Check(); !errors.Is(err, ErrBadShape) {
		t.Errorf("Check() short = %v, want ErrBadShape", err)
	}
}

func TestAny(t *testing.T) {
	in := map[string]any{
		"b": []any{1.0, "x", nil, true},
		"a": json.Number("2.5"),
	}
	n := FromAny(in)
	if diff := cmp.Diff([]string{"a", "b"}, n.Fields); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
	want := map[string]any{
		"a": 2.5,
		"b": []any{int64(1), "x", nil, true},
	}
	if diff := cmp.Diff(want, ToAny(n)); diff != "" {
		t.Errorf("ToAny (-want +got):\n%s", diff)
	}
}
