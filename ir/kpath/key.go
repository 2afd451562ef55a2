package kpath

import (
	"strconv"
	"strings"
)

// Key is one path segment: an object field or an array index.
type Key struct {
	Field   string
	Index   int
	IsIndex bool
}

func Field(f string) Key {
	return Key{Field: f}
}

func Index(i int) Key {
	return Key{Index: i, IsIndex: true}
}

// String returns the key as displayed next to its value: the field name
// or the decimal index.
func (k Key) String() string {
	if k.IsIndex {
		return strconv.Itoa(k.Index)
	}
	return k.Field
}

// Segment returns the path syntax of the key alone.
func (k Key) Segment() string {
	if k.IsIndex {
		return "[" + strconv.Itoa(k.Index) + "]"
	}
	if quoteField(k.Field) {
		return quote(k.Field)
	}
	return k.Field
}

// AsIndex interprets the key as an array index. Field keys holding a
// non-negative decimal integer qualify.
func (k Key) AsIndex() (int, bool) {
	if k.IsIndex {
		return k.Index, true
	}
	if k.Field == "" || (len(k.Field) > 1 && k.Field[0] == '0') {
		return 0, false
	}
	i, err := strconv.Atoi(k.Field)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

func (k Key) Compare(o Key) int {
	switch {
	case k.IsIndex && o.IsIndex:
		return k.Index - o.Index
	case k.IsIndex:
		return -1
	case o.IsIndex:
		return 1
	}
	return strings.Compare(k.Field, o.Field)
}

func quoteField(f string) bool {
	if f == "" {
		return true
	}
	return strings.ContainsAny(f, ".[]'\"\\ \t\n$")
}

func quote(f string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range f {
		switch r {
		case '\'', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
