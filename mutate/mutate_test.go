package mutate

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

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		path    kpath.Path
		value   string
		op      Op
		want    string
		prev    string
		wantErr error
	}{
		{
			name: "update nested",
			doc:  `{"a":1,"b":{"c":2,"d":3}}`, path: kpath.Of("b", "d"), value: `30`, op: Update,
			want: `{"a":1,"b":{"c":2,"d":30}}`, prev: `3`,
		},
		{
			name: "delete member",
			doc:  `{"a":1,"b":{"c":2,"d":3}}`, path: kpath.Of("b"), op: Delete,
			want: `{"a":1}`, prev: `{"c":2,"d":3}`,
		},
		{
			name: "update appends missing key",
			doc:  `{"a":1}`, path: kpath.Of("z"), value: `true`, op: Update,
			want: `{"a":1,"z":true}`,
		},
		{
			name: "update array element",
			doc:  `[1,2,3]`, path: kpath.Of(1), value: `"x"`, op: Update,
			want: `[1,"x",3]`, prev: `2`,
		},
		{
			name: "update array out of range",
			doc:  `[1]`, path: kpath.Of(1), value: `0`, op: Update,
			wantErr: ErrInvalidPath,
		},
		{
			name: "add to object",
			doc:  `{"a":1}`, path: kpath.Of("b"), value: `[]`, op: Add,
			want: `{"a":1,"b":[]}`,
		},
		{
			name: "add existing key",
			doc:  `{"a":1}`, path: kpath.Of("a"), value: `2`, op: Add,
			wantErr: ErrKeyExists,
		},
		{
			name: "add into array shifts",
			doc:  `[1,3]`, path: kpath.Of(1), value: `2`, op: Add,
			want: `[1,2,3]`,
		},
		{
			name: "add at array end",
			doc:  `{"l":[1]}`, path: kpath.Of("l", 1), op: Add,
			want: `{"l":[1,null]}`,
		},
		{
			name: "add past array end",
			doc:  `[1]`, path: kpath.Of(2), value: `2`, op: Add,
			wantErr: ErrInvalidPath,
		},
		{
			name: "delete array element",
			doc:  `[1,2,3]`, path: kpath.Of(0), op: Delete,
			want: `[2,3]`, prev: `1`,
		},
		{
			name: "delete missing",
			doc:  `{"a":1}`, path: kpath.Of("b"), op: Delete,
			wantErr: ErrInvalidPath,
		},
		{
			name: "through a leaf",
			doc:  `{"a":1}`, path: kpath.Of("a", "b"), value: `1`, op: Update,
			wantErr: ErrInvalidPath,
		},
		{
			name: "replace root",
			doc:  `{"a":1}`, path: nil, value: `[1]`, op: Update,
			want: `[1]`, prev: `{"a":1}`,
		},
		{
			name: "delete root",
			doc:  `{"a":1}`, path: nil, op: Delete,
			want: `null`, prev: `{"a":1}`,
		},
		{
			name: "numeric key on object",
			doc:  `{"0":"x"}`, path: kpath.Of(0), value: `"y"`, op: Update,
			want: `{"0":"y"}`, prev: `"x"`,
		},
		{
			name: "move is rejected",
			doc:  `[1]`, path: kpath.Of(0), op: Move,
			wantErr: ErrInvalidPath,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.doc)
			orig := jsonText(t, doc)
			var v *ir.Node
			if tt.value != "" {
				v = mustParse(t, tt.value)
			}
			res, err := Apply(doc, tt.path, v, tt.op)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got := jsonText(t, res.Doc); got != tt.want {
				t.Errorf("Apply() = %s, want %s", got, tt.want)
			}
			if tt.prev != "" && jsonText(t, res.Previous) != tt.prev {
				t.Errorf("Previous = %s, want %s", jsonText(t, res.Previous), tt.prev)
			}
			if tt.prev == "" && res.Previous != nil {
				t.Errorf("Previous = %s, want nil", jsonText(t, res.Previous))
			}
			if jsonText(t, doc) != orig {
				t.Errorf("Apply() modified its input: %s", jsonText(t, doc))
			}
		})
	}
}

func TestApplySharesUntouched(t *testing.T) {
	doc := mustParse(t, `{"a":{"x":1},"b":{"y":2}}`)
	res, err := Apply(doc, kpath.Of("b", "y"), ir.FromInt(3), Update)
	if err != nil {
		t.Fatal(err)
	}
	if res.Doc.Values[0] != doc.Values[0] {
		t.Errorf("untouched sibling was copied")
	}
	if res.Doc.Values[1] == doc.Values[1] {
		t.Errorf("changed parent was not copied")
	}
}

func TestDeleteAddInverse(t *testing.T) {
	tests := []struct {
		doc    string
		parent kpath.Path
	}{
		{`[1]`, nil},
		{`[1,2,3]`, nil},
		{`["a",{"b":[1]},null,true]`, nil},
		{`{"x":{"l":[[1],2,"s"]}}`, kpath.Of("x", "l")},
	}
	for _, tt := range tests {
		doc := mustParse(t, tt.doc)
		arr, err := Get(doc, tt.parent)
		if err != nil {
			t.Fatal(err)
		}
		for i := range arr.Len() {
			p := tt.parent.Append(kpath.Index(i))
			t.Run(tt.doc+" "+p.String(), func(t *testing.T) {
				del, err := Apply(doc, p, nil, Delete)
				if err != nil {
					t.Fatalf("delete: %v", err)
				}
				add, err := Apply(del.Doc, p, del.Previous, Add)
				if err != nil {
					t.Fatalf("add: %v", err)
				}
				if diff := cmp.Diff(tt.doc, jsonText(t, add.Doc)); diff != "" {
					t.Errorf("delete then add mismatch (-want +got):\n%s", diff)
				}
				if !ir.Equal(doc, add.Doc) {
					t.Errorf("restored document not equal to the original")
				}
			})
		}
	}
}

// paths lists the path of every node in n, n included.
func paths(n *ir.Node, at kpath.Path) []kpath.Path {
	res := []kpath.Path{at}
	for i, v := range n.Values {
		k := kpath.Index(i)
		if n.Type == ir.ObjectType {
			k = kpath.Field(n.Fields[i])
		}
		res = append(res, paths(v, at.Append(k))...)
	}
	return res
}

func TestApplyLeavesOtherPaths(t *testing.T) {
	const src = `{"a":{"x":1,"y":[1,2]},"b":[{"c":true},3],"d":"s"}`
	tests := []struct {
		name  string
		path  kpath.Path
		value string
		op    Op
	}{
		{"update leaf", kpath.Of("b", 0, "c"), `false`, Update},
		{"update collection", kpath.Of("a", "y"), `{"z":0}`, Update},
		{"update array element", kpath.Of("b", 1), `[4]`, Update},
		{"add member", kpath.Of("a", "w"), `null`, Add},
		{"delete member", kpath.Of("a", "x"), ``, Delete},
		{"delete top level", kpath.Of("d"), ``, Delete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, src)
			var v *ir.Node
			if tt.value != "" {
				v = mustParse(t, tt.value)
			}
			res, err := Apply(doc, tt.path, v, tt.op)
			if err != nil {
				t.Fatal(err)
			}
			for _, q := range paths(doc, nil) {
				if q.IsWithin(tt.path) || tt.path.IsWithin(q) {
					continue
				}
				before, _ := Get(doc, q)
				after, err := Get(res.Doc, q)
				if err != nil {
					t.Errorf("%s: %v", q.String(), err)
					continue
				}
				if diff := cmp.Diff(jsonText(t, before), jsonText(t, after)); diff != "" {
					t.Errorf("%s changed (-before +after):\n%s", q.String(), diff)
				}
			}
		})
	}
}

func TestGet(t *testing.T) {
	doc := mustParse(t, `{"a":[{"b":true}]}`)
	v, err := Get(doc, kpath.Of("a", 0, "b"))
	if err != nil || !ir.Equal(v, ir.FromBool(true)) {
		t.Errorf("Get() = %v, %v", v, err)
	}
	if _, err := Get(doc, kpath.Of("a", 1)); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Get() error = %v, want ErrInvalidPath", err)
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		src     kpath.Path
		dst     kpath.Path
		pos     Position
		want    string
		to      string
		wantErr error
	}{
		{
			name: "below next sibling",
			doc:  `[10,20,30]`, src: kpath.Of(0), dst: kpath.Of(1), pos: Below,
			want: `[20,10,30]`, to: "[1]",
		},
		{
			name: "above earlier sibling",
			doc:  `[10,20,30]`, src: kpath.Of(2), dst: kpath.Of(0), pos: Above,
			want: `[30,10,20]`, to: "[0]",
		},
		{
			name: "above next sibling is a no-op",
			doc:  `[10,20,30]`, src: kpath.Of(0), dst: kpath.Of(1), pos: Above,
			want: `[10,20,30]`, to: "[0]",
		},
		{
			name: "below last",
			doc:  `[10,20,30]`, src: kpath.Of(0), dst: kpath.Of(2), pos: Below,
			want: `[20,30,10]`, to: "[2]",
		},
		{
			name: "reorder object members",
			doc:  `{"a":1,"b":2,"c":3}`, src: kpath.Of("c"), dst: kpath.Of("a"), pos: Above,
			want: `{"c":3,"a":1,"b":2}`, to: "c",
		},
		{
			name: "into another object",
			doc:  `{"a":{"x":1},"b":{"y":2}}`, src: kpath.Of("a", "x"), dst: kpath.Of("b", "y"), pos: Below,
			want: `{"a":{},"b":{"y":2,"x":1}}`, to: "b.x",
		},
		{
			name: "array element into object",
			doc:  `{"l":[5,6],"o":{"k":0}}`, src: kpath.Of("l", 1), dst: kpath.Of("o", "k"), pos: Above,
			want: `{"l":[5],"o":{"1":6,"k":0}}`, to: "o.1",
		},
		{
			name: "destination after removed array slot",
			doc:  `[[1],[2,3]]`, src: kpath.Of(0), dst: kpath.Of(1, 0), pos: Below,
			want: `[[2,[1],3]]`, to: "[0][1]",
		},
		{
			name: "key taken in destination",
			doc:  `{"a":{"x":1},"b":{"x":2}}`, src: kpath.Of("a", "x"), dst: kpath.Of("b", "x"),
			wantErr: ErrKeyExists,
		},
		{
			name: "into itself",
			doc:  `{"a":{"b":{"c":1}}}`, src: kpath.Of("a"), dst: kpath.Of("a", "b", "c"),
			wantErr: ErrMoveIntoSelf,
		},
		{
			name: "onto itself",
			doc:  `[1,2]`, src: kpath.Of(0), dst: kpath.Of(0),
			wantErr: ErrMoveIntoSelf,
		},
		{
			name: "root",
			doc:  `[1,2]`, src: nil, dst: kpath.Of(0),
			wantErr: ErrInvalidPath,
		},
		{
			name: "missing target",
			doc:  `[1,2]`, src: kpath.Of(0), dst: kpath.Of(5),
			wantErr: ErrInvalidPath,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.doc)
			res, err := MoveNode(doc, tt.src, tt.dst, tt.pos)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("MoveNode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("MoveNode() error = %v", err)
			}
			if got := jsonText(t, res.Doc); got != tt.want {
				t.Errorf("MoveNode() = %s, want %s", got, tt.want)
			}
			if res.To.String() != tt.to {
				t.Errorf("To = %s, want %s", res.To, tt.to)
			}
			moved, err := Get(res.Doc, res.To)
			if err != nil || !ir.Equal(moved, res.Value) {
				t.Errorf("moved value not at To: %v", err)
			}
		})
	}
}

func TestRenameKey(t *testing.T) {
	doc := mustParse(t, `{"o":{"a":1,"b":2,"c":3}}`)
	res, err := RenameKey(doc, kpath.Of("o", "b"), "z")
	if err != nil {
		t.Fatal(err)
	}
	if got := jsonText(t, res.Doc); got != `{"o":{"a":1,"z":2,"c":3}}` {
		t.Errorf("RenameKey() = %s", got)
	}
	if jsonText(t, res.Previous) != `{"a":1,"b":2,"c":3}` || jsonText(t, res.Value) != `{"a":1,"z":2,"c":3}` {
		t.Errorf("Previous, Value = %s, %s", jsonText(t, res.Previous), jsonText(t, res.Value))
	}
	same, err := RenameKey(doc, kpath.Of("o", "b"), "b")
	if err != nil || same.Doc != doc {
		t.Errorf("same-key rename changed the document: %v", err)
	}
	for _, tc := range []struct {
		path kpath.Path
		key  string
		err  error
	}{
		{kpath.Of("o", "b"), "c", ErrKeyExists},
		{kpath.Of("o", "q"), "x", ErrInvalidPath},
		{nil, "x", ErrInvalidPath},
	} {
		if _, err := RenameKey(doc, tc.path, tc.key); !errors.Is(err, tc.err) {
			t.Errorf("RenameKey(%s, %q) error = %v, want %v", tc.path, tc.key, err, tc.err)
		}
	}
	arr := mustParse(t, `[1]`)
	if _, err := RenameKey(arr, kpath.Of(0), "x"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("RenameKey() on array error = %v", err)
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		in   string
		to   ir.Type
		want string
	}{
		{`12`, ir.StringType, `"12"`},
		{`"x"`, ir.StringType, `"x"`},
		{`{"a":1}`, ir.StringType, `"{\"a\":1}"`},
		{`" 2.5 "`, ir.NumberType, `2.5`},
		{`"abc"`, ir.NumberType, `0`},
		{`true`, ir.NumberType, `1`},
		{`null`, ir.NumberType, `0`},
		{`"no"`, ir.BoolType, `true`},
		{`""`, ir.BoolType, `false`},
		{`0`, ir.BoolType, `false`},
		{`[1]`, ir.NullType, `null`},
		{`5`, ir.ObjectType, `{"value":5}`},
		{`[7,8]`, ir.ObjectType, `{"0":7,"1":8}`},
		{`null`, ir.ObjectType, `{}`},
		{`{"a":1,"b":2}`, ir.ArrayType, `[1,2]`},
		{`"s"`, ir.ArrayType, `["s"]`},
		{`null`, ir.ArrayType, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.in+"->"+tt.to.String(), func(t *testing.T) {
			got, err := Convert(mustParse(t, tt.in), tt.to, nil)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if jsonText(t, got) != tt.want {
				t.Errorf("Convert() = %s, want %s", jsonText(t, got), tt.want)
			}
		})
	}
	got, err := Convert(ir.FromInt(1), ir.StringType, ir.FromString("#ffffff"))
	if err != nil || got.String != "#ffffff" {
		t.Errorf("Convert() with default = %v, %v", got, err)
	}
	if _, err := Convert(ir.FromInt(1), ir.CustomType, nil); !errors.Is(err, ir.ErrUnsupported) {
		t.Errorf("Convert() to custom error = %v", err)
	}
}

func TestParsePosition(t *testing.T) {
	for _, p := range []Position{Above, Below} {
		got, err := ParsePosition(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePosition(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParsePosition("left"); err == nil {
		t.Errorf("ParsePosition(\"left\") succeeded")
	}
}
