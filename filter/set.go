package filter

import (
	"log/slog"

	"github.com/jsontree/go-jsontree/debug"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/resolve"
)

// Options configure a visibility pass over a document.
type Options struct {
	Predicate Func
	Text      string
	// Leaf reports collections rendered as values: they are matched
	// directly and never searched inside.
	Leaf func(d *resolve.Descriptor) bool
}

func (o *Options) active() bool {
	return o.Predicate != nil || o.Text != ""
}

// Set is the outcome of a visibility pass. The zero Set shows
// everything.
type Set struct {
	hidden map[string]bool
}

// Visible reports whether the node at p is shown.
func (s Set) Visible(p kpath.Path) bool {
	return !s.hidden[p.String()]
}

// Hidden is the number of hidden nodes.
func (s Set) Hidden() int {
	return len(s.hidden)
}

// VisibleSet evaluates visibility for every node under root in one
// bottom-up pass, so each node's predicate runs once. The root is always
// visible.
func VisibleSet(root *resolve.Descriptor, o Options) Set {
	if !o.active() {
		return Set{}
	}
	pred := o.Predicate
	if pred == nil {
		pred = MatchNode
	}
	s := Set{hidden: map[string]bool{}}
	compute(root, pred, &o, s.hidden)
	delete(s.hidden, root.Path.String())
	if debug.Filter() {
		slog.Debug("search filter", "text", o.Text, "hidden", len(s.hidden))
	}
	return s
}

// compute reports whether d is visible and records every hidden node
// under it. Descendants of a hidden collection are hidden with it.
func compute(d *resolve.Descriptor, pred Func, o *Options, hidden map[string]bool) bool {
	self := pred(d, o.Text)
	if !d.Value.IsCollection() || (o.Leaf != nil && o.Leaf(d)) {
		if !self {
			hidden[d.Path.String()] = true
		}
		return self
	}
	found := false
	for i := range d.Value.Len() {
		if compute(d.Child(i), pred, o, hidden) {
			found = true
		}
	}
	if self || found {
		return true
	}
	hidden[d.Path.String()] = true
	return false
}
