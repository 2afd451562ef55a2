// Package filter decides which nodes stay visible while a search is
// active.
package filter

import (
	"strings"

	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/resolve"
)

// Func is a search predicate: it reports whether d matches text.
type Func func(d *resolve.Descriptor, text string) bool

// Kind tells IsVisible how to treat a node.
type Kind int

const (
	ValueKind Kind = iota
	CollectionKind
)

// IsVisible reports whether d survives the search. A value node is
// visible iff it matches. A collection is visible iff it matches itself
// or any descendant matches, recursively. A nil predicate selects
// MatchNode, and with neither a predicate nor text every node is visible.
func IsVisible(kind Kind, d *resolve.Descriptor, pred Func, text string) bool {
	if pred == nil {
		if text == "" {
			return true
		}
		pred = MatchNode
	}
	if kind == ValueKind {
		return pred(d, text)
	}
	return matchTree(d, pred, text, nil)
}

func matchTree(d *resolve.Descriptor, pred Func, text string, leaf func(*resolve.Descriptor) bool) bool {
	if pred(d, text) {
		return true
	}
	if !d.Value.IsCollection() || (leaf != nil && leaf(d)) {
		return false
	}
	for i := range d.Value.Len() {
		if matchTree(d.Child(i), pred, text, leaf) {
			return true
		}
	}
	return false
}

// MatchNode is the default value matcher:
//
//	string   case-insensitive substring
//	number   substring of the decimal text
//	boolean  text is a prefix of "true" or "false" matching the value,
//	         or "1"/"0"
//	null     text is a prefix of "null"
//
// Collections never match by value.
func MatchNode(d *resolve.Descriptor, text string) bool {
	v := d.Value
	if v == nil {
		return false
	}
	text = strings.ToLower(text)
	switch v.Type {
	case ir.StringType:
		return strings.Contains(strings.ToLower(v.String), text)
	case ir.NumberType:
		return strings.Contains(strings.ToLower(v.NumberText()), text)
	case ir.BoolType:
		if v.Bool {
			return text == "1" || strings.HasPrefix("true", text)
		}
		return text == "0" || strings.HasPrefix("false", text)
	case ir.NullType:
		return strings.HasPrefix("null", text)
	}
	return false
}

// MatchKey matches a case-insensitive substring of any key on the
// node's path, so everything below a matching key is found too. The root
// never matches.
func MatchKey(d *resolve.Descriptor, text string) bool {
	text = strings.ToLower(text)
	for _, k := range d.Path {
		if strings.Contains(strings.ToLower(k.String()), text) {
			return true
		}
	}
	return false
}

// MatchAll matches either the value or the key.
func MatchAll(d *resolve.Descriptor, text string) bool {
	return MatchNode(d, text) || MatchKey(d, text)
}

// Mode names a built-in matcher.
type Mode string

const (
	ModeValue Mode = "value"
	ModeKey   Mode = "key"
	ModeAll   Mode = "all"
)

// ForMode returns the matcher for m, MatchNode for an unknown mode.
func ForMode(m Mode) Func {
	switch m {
	case ModeKey:
		return MatchKey
	case ModeAll:
		return MatchAll
	}
	return MatchNode
}
