package kpath

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Path
		wantErr bool
	}{
		{name: "root", input: "", want: Path{}},
		{name: "dollar root", input: "$", want: Path{}},
		{name: "field", input: "a", want: Of("a")},
		{name: "nested", input: "a.b.c", want: Of("a", "b", "c")},
		{name: "dollar prefix", input: "$.a[0]", want: Of("a", 0)},
		{name: "index", input: "a[0].b", want: Of("a", 0, "b")},
		{name: "leading index", input: "[2][3]", want: Of(2, 3)},
		{name: "quoted", input: "'a.b'.c", want: Of("a.b", "c")},
		{name: "double quoted", input: `x."y z"`, want: Of("x", "y z")},
		{name: "escaped quote", input: `'it\'s'`, want: Of("it's")},
		{name: "numeric field", input: "a.0", want: Of("a", "0")},
		{name: "unterminated index", input: "a[0", wantErr: true},
		{name: "negative index", input: "a[-1]", wantErr: true},
		{name: "trailing dot", input: "a.", wantErr: true},
		{name: "empty field", input: "a..b", wantErr: true},
		{name: "unterminated quote", input: "'a", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrSyntax) {
					t.Fatalf("Parse(%q) error = %v, want ErrSyntax", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	paths := []Path{
		Of("a", 0, "b"),
		Of("with space", "x.y"),
		Of(""),
		Of(3),
		Of("$"),
	}
	for _, p := range paths {
		t.Run(p.String(), func(t *testing.T) {
			got, err := Parse(p.String())
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", p.String(), err)
			}
			if !got.Equal(p) {
				t.Errorf("Parse(%q) = %v, want %v", p.String(), got, p)
			}
		})
	}
}

func TestAsIndex(t *testing.T) {
	tests := []struct {
		key  Key
		want int
		ok   bool
	}{
		{Index(4), 4, true},
		{Field("4"), 4, true},
		{Field("0"), 0, true},
		{Field("04"), 0, false},
		{Field("-1"), 0, false},
		{Field("x"), 0, false},
		{Field(""), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.key.Segment(), func(t *testing.T) {
			got, ok := tt.key.AsIndex()
			if got != tt.want || ok != tt.ok {
				t.Errorf("AsIndex() = %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPrefix(t *testing.T) {
	p := Of("a", 1, "b")
	if !p.HasPrefix(nil) || !p.HasPrefix(Of("a", 1)) || !p.HasPrefix(p) {
		t.Errorf("HasPrefix missed an ancestor")
	}
	if p.HasPrefix(Of("a", 2)) || p.HasPrefix(Of("a", 1, "b", "c")) {
		t.Errorf("HasPrefix matched a non-ancestor")
	}
	if !p.Parent().Equal(Of("a", 1)) {
		t.Errorf("Parent() = %v", p.Parent())
	}
	if Path(nil).Parent() != nil {
		t.Errorf("root Parent() is not root")
	}
	q := p.Parent().Append(Field("c"))
	if !p.Equal(Of("a", 1, "b")) {
		t.Errorf("Append aliased its receiver: %v", p)
	}
	if !q.Equal(Of("a", 1, "c")) {
		t.Errorf("Append() = %v", q)
	}
}

func TestJSON(t *testing.T) {
	p := Of("a", 2, "b c")
	d, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != `["a",2,"b c"]` {
		t.Errorf("MarshalJSON() = %s", d)
	}
	for _, in := range []string{string(d), `"a[2].'b c'"`} {
		var got Path
		if err := json.Unmarshal([]byte(in), &got); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", in, err)
		}
		if !got.Equal(p) {
			t.Errorf("Unmarshal(%s) = %v", in, got)
		}
	}
}

func TestPointer(t *testing.T) {
	p := Of("a/b", 0, "c~d")
	if got := p.Pointer(); got != "/a~1b/0/c~0d" {
		t.Errorf("Pointer() = %q", got)
	}
	got, err := ParsePointer("/a~1b/0/c~0d")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Of("a/b", "0", "c~d"), got); diff != "" {
		t.Errorf("ParsePointer (-want +got):\n%s", diff)
	}
	if _, err := ParsePointer("a"); !errors.Is(err, ErrSyntax) {
		t.Errorf("ParsePointer(\"a\") error = %v", err)
	}
}
