package mutate

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jsontree/go-jsontree/debug"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/resolve"
)

// Result describes one applied mutation.
type Result struct {
	Doc *ir.Node
	// Previous is the value at the path before the change, nil when there
	// was none.
	Previous *ir.Node
	// Value is the value at the path after the change, nil after a
	// delete.
	Value *ir.Node
}

// Get returns the value at p.
func Get(doc *ir.Node, p kpath.Path) (*ir.Node, error) {
	n := doc
	for i, k := range p {
		if !n.IsCollection() {
			return nil, fmt.Errorf("%w: %s is a %s", ErrInvalidPath, p[:i].String(), n.Type)
		}
		j := resolve.ChildIndex(n, k)
		if j < 0 {
			return nil, fmt.Errorf("%w: no %q in %q", ErrInvalidPath, k.String(), p[:i].String())
		}
		n = n.Values[j]
	}
	return n, nil
}

// Apply performs op with v at p. The root path replaces the whole
// document with v (null for a delete).
//
// Update replaces an existing child; on an object a missing key is
// appended. Add inserts: on an object the key must be new, on an array
// the index may be at most the length and later elements shift up.
// Delete removes the child. Move is not accepted here, see MoveNode.
func Apply(doc *ir.Node, p kpath.Path, v *ir.Node, op Op) (*Result, error) {
	if op == Move {
		return nil, fmt.Errorf("%w: move needs a source and a destination", ErrInvalidPath)
	}
	if v == nil && op != Delete {
		v = ir.Null()
	}
	if len(p) == 0 {
		if op == Delete {
			v = ir.Null()
		}
		return &Result{Doc: v, Previous: doc, Value: v}, nil
	}
	res := &Result{}
	if op != Add {
		prev, err := Get(doc, p)
		if err == nil {
			res.Previous = prev
		} else if op == Delete {
			return nil, err
		}
	}
	last := p[len(p)-1]
	var edit func(coll *ir.Node) (*ir.Node, error)
	switch op {
	case Update:
		edit = func(coll *ir.Node) (*ir.Node, error) { return setChild(coll, last, v) }
	case Add:
		edit = func(coll *ir.Node) (*ir.Node, error) { return insertChild(coll, last, v) }
	case Delete:
		edit = func(coll *ir.Node) (*ir.Node, error) { return removeChild(coll, last) }
	}
	doc, err := modify(doc, p.Parent(), 0, edit)
	if err != nil {
		return nil, err
	}
	res.Doc = doc
	if op != Delete {
		res.Value = v
	}
	if debug.Mutate() {
		slog.Debug("mutate", "op", op, "path", p.String())
	}
	return res, nil
}

// modify copies the nodes along parent and hands the collection at its
// end to edit.
func modify(n *ir.Node, parent kpath.Path, depth int, edit func(*ir.Node) (*ir.Node, error)) (*ir.Node, error) {
	if !n.IsCollection() {
		return nil, fmt.Errorf("%w: %s is a %s", ErrInvalidPath, parent[:depth].String(), n.Type)
	}
	if depth == len(parent) {
		return edit(n)
	}
	k := parent[depth]
	i := resolve.ChildIndex(n, k)
	if i < 0 {
		return nil, fmt.Errorf("%w: no %q in %q", ErrInvalidPath, k.String(), parent[:depth].String())
	}
	c, err := modify(n.Values[i], parent, depth+1, edit)
	if err != nil {
		return nil, err
	}
	res := n.ShallowCopy()
	res.Values[i] = c
	return res, nil
}

func setChild(coll *ir.Node, k kpath.Key, v *ir.Node) (*ir.Node, error) {
	i := resolve.ChildIndex(coll, k)
	if i < 0 {
		if coll.Type == ir.ObjectType {
			res := coll.ShallowCopy()
			res.Fields = append(res.Fields, k.String())
			res.Values = append(res.Values, v)
			return res, nil
		}
		return nil, fmt.Errorf("%w: index %s out of range [0,%d)", ErrInvalidPath, k.String(), len(coll.Values))
	}
	res := coll.ShallowCopy()
	res.Values[i] = v
	return res, nil
}

func insertChild(coll *ir.Node, k kpath.Key, v *ir.Node) (*ir.Node, error) {
	if coll.Type == ir.ObjectType {
		f := k.String()
		if coll.FieldIndex(f) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrKeyExists, f)
		}
		return insertAt(coll, len(coll.Values), f, v), nil
	}
	i, ok := k.AsIndex()
	if !ok || i > len(coll.Values) {
		return nil, fmt.Errorf("%w: index %s out of range [0,%d]", ErrInvalidPath, k.String(), len(coll.Values))
	}
	return insertAt(coll, i, "", v), nil
}

func removeChild(coll *ir.Node, k kpath.Key) (*ir.Node, error) {
	i := resolve.ChildIndex(coll, k)
	if i < 0 {
		return nil, fmt.Errorf("%w: no %q", ErrInvalidPath, k.String())
	}
	res := coll.ShallowCopy()
	res.Values = slices.Delete(res.Values, i, i+1)
	if res.Type == ir.ObjectType {
		res.Fields = slices.Delete(res.Fields, i, i+1)
	}
	return res, nil
}

// insertAt places v at position i of coll, under field f when coll is an
// object.
func insertAt(coll *ir.Node, i int, f string, v *ir.Node) *ir.Node {
	res := coll.ShallowCopy()
	res.Values = slices.Insert(res.Values, i, v)
	if res.Type == ir.ObjectType {
		res.Fields = slices.Insert(res.Fields, i, f)
	}
	return res
}
