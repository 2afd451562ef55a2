package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/resolve"
)

func testDoc() *ir.Node {
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: "title", Val: ir.FromString("Hello World")},
		{Key: "count", Val: ir.FromInt(1024)},
		{Key: "flags", Val: ir.FromKeyVals([]ir.KeyVal{
			{Key: "on", Val: ir.FromBool(true)},
			{Key: "off", Val: ir.FromBool(false)},
			{Key: "none", Val: ir.Null()},
		})},
		{Key: "list", Val: ir.FromSlice([]*ir.Node{ir.FromString("alpha"), ir.FromString("beta")})},
	})
}

func at(t *testing.T, p kpath.Path) *resolve.Descriptor {
	t.Helper()
	d, err := resolve.At(testDoc(), p, "root")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestMatchNode(t *testing.T) {
	tests := []struct {
		path kpath.Path
		text string
		want bool
	}{
		{kpath.Of("title"), "world", true},
		{kpath.Of("title"), "WORLD", true},
		{kpath.Of("title"), "worlds", false},
		{kpath.Of("count"), "02", true},
		{kpath.Of("count"), "3", false},
		{kpath.Of("flags", "on"), "tr", true},
		{kpath.Of("flags", "on"), "1", true},
		{kpath.Of("flags", "on"), "fa", false},
		{kpath.Of("flags", "off"), "FALSE", true},
		{kpath.Of("flags", "off"), "0", true},
		{kpath.Of("flags", "off"), "true", false},
		{kpath.Of("flags", "none"), "nu", true},
		{kpath.Of("flags", "none"), "nil", false},
		{kpath.Of("flags"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path.String()+"/"+tt.text, func(t *testing.T) {
			if got := MatchNode(at(t, tt.path), tt.text); got != tt.want {
				t.Errorf("MatchNode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchKey(t *testing.T) {
	if !MatchKey(at(t, kpath.Of("flags", "on")), "FLA") {
		t.Errorf("MatchKey() missed an ancestor key")
	}
	if !MatchKey(at(t, kpath.Of("list", 1)), "1") {
		t.Errorf("MatchKey() missed an index")
	}
	if MatchKey(at(t, nil), "root") {
		t.Errorf("MatchKey() matched the root")
	}
	if !MatchAll(at(t, kpath.Of("title")), "hello") || !MatchAll(at(t, kpath.Of("title")), "tit") {
		t.Errorf("MatchAll() missed")
	}
	if ForMode("bogus") == nil || ForMode(ModeKey) == nil {
		t.Errorf("ForMode() returned nil")
	}
}

func TestIsVisible(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		path kpath.Path
		pred Func
		text string
		want bool
	}{
		{"no search", ValueKind, kpath.Of("title"), nil, "", true},
		{"value match", ValueKind, kpath.Of("title"), nil, "hello", true},
		{"value miss", ValueKind, kpath.Of("count"), nil, "hello", false},
		{"collection by descendant", CollectionKind, kpath.Of("list"), nil, "bet", true},
		{"collection miss", CollectionKind, kpath.Of("flags"), nil, "bet", false},
		{"root by descendant", CollectionKind, nil, nil, "alp", true},
		{"custom predicate", CollectionKind, kpath.Of("flags"), MatchKey, "fla", true},
		{"custom predicate empty text", ValueKind, kpath.Of("title"), func(*resolve.Descriptor, string) bool { return false }, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisible(tt.kind, at(t, tt.path), tt.pred, tt.text); got != tt.want {
				t.Errorf("IsVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleSet(t *testing.T) {
	all := []kpath.Path{
		nil,
		kpath.Of("title"),
		kpath.Of("count"),
		kpath.Of("flags"),
		kpath.Of("flags", "on"),
		kpath.Of("flags", "off"),
		kpath.Of("flags", "none"),
		kpath.Of("list"),
		kpath.Of("list", 0),
		kpath.Of("list", 1),
	}
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "inactive",
			want: []string{"", "title", "count", "flags", "flags.on", "flags.off", "flags.none", "list", "list[0]", "list[1]"},
		},
		{
			name: "value",
			opts: Options{Text: "a"},
			want: []string{"", "list", "list[0]", "list[1]"},
		},
		{
			name: "nothing matches",
			opts: Options{Text: "zzz"},
			want: []string{""},
		},
		{
			name: "key",
			opts: Options{Predicate: MatchKey, Text: "flags"},
			want: []string{"", "flags", "flags.on", "flags.off", "flags.none"},
		},
	}
	root := resolve.Root(testDoc(), "root")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := VisibleSet(root, tt.opts)
			var got []string
			for _, p := range all {
				if s.Visible(p) {
					got = append(got, p.String())
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("VisibleSet() (-want +got):\n%s", diff)
			}
			if s.Hidden() != len(all)-len(tt.want) {
				t.Errorf("Hidden() = %d, want %d", s.Hidden(), len(all)-len(tt.want))
			}
		})
	}
}

func TestVisibleSetLeaf(t *testing.T) {
	root := resolve.Root(testDoc(), "root")
	flags := kpath.Of("flags")
	if !VisibleSet(root, Options{Text: "tr"}).Visible(flags) {
		t.Fatalf("flags hidden without a leaf rule")
	}
	leaf := func(d *resolve.Descriptor) bool { return d.Path.Equal(flags) }
	if VisibleSet(root, Options{Text: "tr", Leaf: leaf}).Visible(flags) {
		t.Errorf("leaf collection matched by a child")
	}
	if !VisibleSet(root, Options{Predicate: MatchKey, Text: "fla", Leaf: leaf}).Visible(flags) {
		t.Errorf("leaf collection not matched by itself")
	}
}
