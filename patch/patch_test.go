package patch

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jsontree/go-jsontree/encode"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/parse"
)

func mustParse(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := parse.Parse([]byte(s))
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return n
}

func jsonText(t *testing.T, n *ir.Node) string {
	t.Helper()
	d, err := encode.MarshalJSON(n)
	if err != nil {
		t.Fatal(err)
	}
	return string(d)
}

func TestOps(t *testing.T) {
	add, err := Add(kpath.Of("a", 0), ir.FromString("x"))
	if err != nil {
		t.Fatal(err)
	}
	rep, err := Replace(nil, ir.FromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	d, err := Encode(add, rep, Remove(kpath.Of("a/b")), Move(kpath.Of("x"), kpath.Of("y", "~")))
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"op":"add","path":"/a/0","value":"x"},` +
		`{"op":"replace","path":"","value":1},` +
		`{"op":"remove","path":"/a~1b"},` +
		`{"op":"move","path":"/y/~0","from":"/x"}]`
	if string(d) != want {
		t.Errorf("Encode() = %s, want %s", d, want)
	}
	ops, err := Decode(d)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"add", "replace", "remove", "move"}, []string{ops[0].Op, ops[1].Op, ops[2].Op, ops[3].Op}); diff != "" {
		t.Errorf("Decode() ops (-want +got):\n%s", diff)
	}
	empty, _ := Encode()
	if string(empty) != "[]" {
		t.Errorf("Encode() = %s, want []", empty)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		patch   string
		want    string
		wantErr error
	}{
		{
			name:  "replace keeps order",
			doc:   `{"z":1,"a":2,"m":3}`,
			patch: `[{"op":"replace","path":"/a","value":20}]`,
			want:  `{"z":1,"a":20,"m":3}`,
		},
		{
			name:  "added members come last",
			doc:   `{"z":1,"a":2}`,
			patch: `[{"op":"add","path":"/b","value":{"x":2}}]`,
			want:  `{"z":1,"a":2,"b":{"x":2}}`,
		},
		{
			name:  "array ops",
			doc:   `{"l":[1,2,3]}`,
			patch: `[{"op":"remove","path":"/l/0"},{"op":"add","path":"/l/-","value":4}]`,
			want:  `{"l":[2,3,4]}`,
		},
		{
			name:  "move",
			doc:   `{"a":{"q":1},"b":{}}`,
			patch: `[{"op":"move","from":"/a/q","path":"/b/q"}]`,
			want:  `{"a":{},"b":{"q":1}}`,
		},
		{
			name:    "not a patch",
			doc:     `{}`,
			patch:   `{"op":"add"}`,
			wantErr: parse.ErrParse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(mustParse(t, tt.doc), []byte(tt.patch))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if jsonText(t, got) != tt.want {
				t.Errorf("Apply() = %s, want %s", jsonText(t, got), tt.want)
			}
		})
	}
	if _, err := Apply(mustParse(t, `{}`), []byte(`[{"op":"remove","path":"/nope"}]`)); err == nil {
		t.Errorf("Apply() of a failing patch succeeded")
	}
}

func TestMerge(t *testing.T) {
	doc := mustParse(t, `{"name":"a","tags":["x"],"meta":{"k":1,"drop":true}}`)
	got, err := Merge(doc, []byte(`{"tags":["y","z"],"meta":{"drop":null,"n":2}}`))
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"name":"a","tags":["y","z"],"meta":{"k":1,"n":2}}`; jsonText(t, got) != want {
		t.Errorf("Merge() = %s, want %s", jsonText(t, got), want)
	}

	to := mustParse(t, `{"name":"b","tags":["x"],"meta":{"k":1}}`)
	p, err := MergeDiff(doc, to)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Merge(doc, p)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(back, to) {
		t.Errorf("Merge(MergeDiff()) = %s, want %s", jsonText(t, back), jsonText(t, to))
	}
}

func TestEqual(t *testing.T) {
	a := mustParse(t, `{"a":1,"b":[1,2]}`)
	if !Equal(a, mustParse(t, `{"b":[1,2],"a":1}`)) {
		t.Errorf("Equal() is order sensitive")
	}
	if Equal(a, mustParse(t, `{"a":1,"b":[2,1]}`)) {
		t.Errorf("Equal() ignores array order")
	}
}

func TestReorder(t *testing.T) {
	like := mustParse(t, `{"b":{"y":1,"x":2},"a":[{"q":1,"p":2}]}`)
	n := mustParse(t, `{"a":[{"p":3,"q":4}],"c":0,"b":{"x":5,"y":6}}`)
	if got := jsonText(t, Reorder(n, like)); got != `{"b":{"y":6,"x":5},"a":[{"q":4,"p":3}],"c":0}` {
		t.Errorf("Reorder() = %s", got)
	}
	if Reorder(n, ir.FromInt(1)) != n {
		t.Errorf("Reorder() against another type changed n")
	}
}
