package walk

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/resolve"
)

// {"b": 1, "a": {"y": 2, "x": 3}, "c": [4, 5]}
func testRoot() *resolve.Descriptor {
	doc := ir.FromKeyVals([]ir.KeyVal{
		{Key: "b", Val: ir.FromInt(1)},
		{Key: "a", Val: ir.FromKeyVals([]ir.KeyVal{
			{Key: "y", Val: ir.FromInt(2)},
			{Key: "x", Val: ir.FromInt(3)},
		})},
		{Key: "c", Val: ir.FromSlice([]*ir.Node{ir.FromInt(4), ir.FromInt(5)})},
	})
	return resolve.Root(doc, "root")
}

func paths(ds []*resolve.Descriptor) []string {
	res := make([]string, len(ds))
	for i, d := range ds {
		res[i] = d.Path.String()
	}
	return res
}

func collapsed(ps ...string) func(*resolve.Descriptor) bool {
	return func(d *resolve.Descriptor) bool {
		for _, p := range ps {
			if d.Path.String() == p {
				return false
			}
		}
		return true
	}
}

func TestWalk(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "document order",
			want: []string{"", "b", "a", "a.y", "a.x", "c", "c[0]", "c[1]"},
		},
		{
			name: "ascending",
			opts: Options{Order: Ascending},
			want: []string{"", "a", "a.x", "a.y", "b", "c", "c[0]", "c[1]"},
		},
		{
			name: "descending",
			opts: Options{Order: Descending},
			want: []string{"", "c", "c[0]", "c[1]", "b", "a", "a.y", "a.x"},
		},
		{
			name: "collapsed",
			opts: Options{Descend: collapsed("a")},
			want: []string{"", "b", "a", "c", "c[0]", "c[1]"},
		},
		{
			name: "collapsed root",
			opts: Options{Descend: collapsed("")},
			want: []string{""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []*resolve.Descriptor
			done := Walk(testRoot(), tt.opts, func(d *resolve.Descriptor) bool {
				got = append(got, d)
				return true
			})
			if !done {
				t.Errorf("Walk() did not complete")
			}
			if diff := cmp.Diff(tt.want, paths(got)); diff != "" {
				t.Errorf("Walk() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalkStop(t *testing.T) {
	n := 0
	done := Walk(testRoot(), Options{}, func(d *resolve.Descriptor) bool {
		n++
		return d.Key.String() != "a"
	})
	if done || n != 3 {
		t.Errorf("Walk() = %v after %d visits, want false after 3", done, n)
	}
}

func TestNeighbor(t *testing.T) {
	leaves := func(d *resolve.Descriptor) bool { return !d.Value.IsCollection() }
	tests := []struct {
		name   string
		from   kpath.Path
		dir    Direction
		opts   NavOptions
		want   string
		wantOK bool
	}{
		{"next", kpath.Of("b"), Forward, NavOptions{}, "a", true},
		{"next leaf", kpath.Of("b"), Forward, NavOptions{Eligible: leaves}, "a.y", true},
		{"previous leaf", kpath.Of("c", 0), Backward, NavOptions{Eligible: leaves}, "a.x", true},
		{"last", kpath.Of("c", 1), Forward, NavOptions{}, "", false},
		{"first", kpath.Of("b"), Backward, NavOptions{Eligible: leaves}, "", false},
		{"missing", kpath.Of("zz"), Forward, NavOptions{}, "", false},
		{"sorted", kpath.Of("a", "y"), Forward, NavOptions{Options: Options{Order: Ascending}, Eligible: leaves}, "b", true},
		{
			"skips collapsed",
			kpath.Of("b"), Forward,
			NavOptions{Options: Options{Descend: collapsed("a")}, Eligible: leaves},
			"c[0]", true,
		},
		{
			"from inside collapsed",
			kpath.Of("a", "y"), Forward,
			NavOptions{Options: Options{Descend: collapsed("a")}, Eligible: leaves},
			"c[0]", true,
		},
		{
			"back from inside collapsed",
			kpath.Of("a", "x"), Backward,
			NavOptions{Options: Options{Descend: collapsed("a")}, Eligible: leaves},
			"b", true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Neighbor(testRoot(), tt.from, tt.dir, tt.opts)
			if ok != tt.wantOK {
				t.Fatalf("Neighbor() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Path.String() != tt.want {
				t.Errorf("Neighbor() = %s, want %s", got.Path, tt.want)
			}
		})
	}
}
