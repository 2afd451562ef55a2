// Package walk traverses a document in display order: object members in
// key order when one is configured, collapsed collections skipped.
package walk

import (
	"slices"
	"strings"

	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/resolve"
)

// Order compares two object keys for display. A nil Order keeps document
// order.
type Order func(a, b string) int

func Ascending(a, b string) int {
	return strings.Compare(a, b)
}

func Descending(a, b string) int {
	return strings.Compare(b, a)
}

// Children returns the children of d in display order. Arrays always keep
// their element order.
func Children(d *resolve.Descriptor, order Order) []*resolve.Descriptor {
	cs := d.Children()
	if order != nil && d.Value.Type == ir.ObjectType {
		slices.SortStableFunc(cs, func(a, b *resolve.Descriptor) int {
			return order(a.Key.Field, b.Key.Field)
		})
	}
	return cs
}

type Options struct {
	Order Order
	// Descend reports whether a collection's children are displayed. A
	// nil Descend opens every collection.
	Descend func(d *resolve.Descriptor) bool
}

func (o *Options) open(d *resolve.Descriptor) bool {
	if !d.Value.IsCollection() {
		return false
	}
	return o.Descend == nil || o.Descend(d)
}

// Walk visits root and its displayed descendants in pre-order. It stops
// as soon as visit returns false and reports whether the walk completed.
func Walk(root *resolve.Descriptor, o Options, visit func(d *resolve.Descriptor) bool) bool {
	if !visit(root) {
		return false
	}
	if !o.open(root) {
		return true
	}
	for _, c := range Children(root, o.Order) {
		if !Walk(c, o, visit) {
			return false
		}
	}
	return true
}

type Direction int

const (
	Forward Direction = iota
	Backward
)

type NavOptions struct {
	Options
	// Eligible selects the nodes navigation may land on. A nil Eligible
	// accepts every displayed node.
	Eligible func(d *resolve.Descriptor) bool
}

// Neighbor returns the nearest eligible displayed node after (Forward)
// or before (Backward) from in display pre-order. Collections on the way
// to from are entered even when collapsed, but nothing inside a collapsed
// collection is ever returned. There is no wraparound: at either end, or
// when from does not exist, Neighbor reports false.
func Neighbor(root *resolve.Descriptor, from kpath.Path, dir Direction, o NavOptions) (*resolve.Descriptor, bool) {
	var (
		prev, res *resolve.Descriptor
		found     bool
	)
	eligible := func(d *resolve.Descriptor, hidden bool) bool {
		return !hidden && (o.Eligible == nil || o.Eligible(d))
	}
	var rec func(d *resolve.Descriptor, hidden bool) bool
	rec = func(d *resolve.Descriptor, hidden bool) bool {
		switch {
		case found:
			if eligible(d, hidden) {
				res = d
				return false
			}
		case d.Path.Equal(from):
			found = true
			if dir == Backward {
				res = prev
				return false
			}
		case eligible(d, hidden):
			prev = d
		}
		if !d.Value.IsCollection() {
			return true
		}
		open := o.open(d)
		if !open && !(!found && from.HasPrefix(d.Path)) {
			return true
		}
		for _, c := range Children(d, o.Order) {
			if !rec(c, hidden || !open) {
				return false
			}
		}
		return true
	}
	rec(root, false)
	return res, found && res != nil
}
