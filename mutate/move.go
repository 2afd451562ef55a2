package mutate

import (
	"fmt"
	"log/slog"

	"github.com/jsontree/go-jsontree/debug"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/resolve"
)

// MoveResult describes an applied move.
type MoveResult struct {
	Doc   *ir.Node
	Value *ir.Node
	// To is where the moved node ended up in Doc.
	To kpath.Path
}

// MoveNode relocates the node at src next to the node at dst, above or below
// it. It is a delete followed by an insert; when both happen in the same
// collection the insertion index accounts for the removed slot. Moving
// into an object keeps the node's key, which must not already be taken
// unless the move stays within one object.
func MoveNode(doc *ir.Node, src, dst kpath.Path, pos Position) (*MoveResult, error) {
	if len(src) == 0 || len(dst) == 0 {
		return nil, fmt.Errorf("%w: the root cannot be moved or be a drop target", ErrInvalidPath)
	}
	if dst.IsWithin(src) {
		return nil, fmt.Errorf("%w: %s into %s", ErrMoveIntoSelf, src.String(), dst.String())
	}
	v, err := Get(doc, src)
	if err != nil {
		return nil, err
	}
	srcParent, dstParent := src.Parent(), dst.Parent()
	dp, err := Get(doc, dstParent)
	if err != nil {
		return nil, err
	}
	if !dp.IsCollection() {
		return nil, fmt.Errorf("%w: %s is a %s", ErrInvalidPath, dstParent.String(), dp.Type)
	}
	dstLast, _ := dst.Last()
	di := resolve.ChildIndex(dp, dstLast)
	if di < 0 {
		return nil, fmt.Errorf("%w: no drop target at %s", ErrInvalidPath, dst.String())
	}
	srcLast, _ := src.Last()
	sp, err := Get(doc, srcParent)
	if err != nil {
		return nil, err
	}
	si := resolve.ChildIndex(sp, srcLast)
	sameParent := srcParent.Equal(dstParent)
	key := srcLast.String()
	if dp.Type == ir.ObjectType && !sameParent && dp.FieldIndex(key) >= 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrKeyExists, key, dstParent.String())
	}

	del, err := Apply(doc, src, nil, Delete)
	if err != nil {
		return nil, err
	}
	if sameParent && si < di {
		di--
	}
	if pos == Below {
		di++
	}
	dstParent = shiftAfterDelete(dstParent, src, sp.Type, si)
	out, err := modify(del.Doc, dstParent, 0, func(coll *ir.Node) (*ir.Node, error) {
		return insertAt(coll, di, key, v), nil
	})
	if err != nil {
		return nil, err
	}
	var to kpath.Path
	if dp.Type == ir.ObjectType {
		to = dstParent.Append(kpath.Field(key))
	} else {
		to = dstParent.Append(kpath.Index(di))
	}
	if debug.Mutate() || debug.Drag() {
		slog.Debug("move", "from", src.String(), "to", to.String(), "position", pos)
	}
	return &MoveResult{Doc: out, Value: v, To: to}, nil
}

// shiftAfterDelete rewrites p, a path valid before the element at
// index si of an array was removed, so it is valid after.
func shiftAfterDelete(p, removed kpath.Path, parentType ir.Type, si int) kpath.Path {
	n := len(removed) - 1
	if parentType != ir.ArrayType || len(p) <= n || !p.HasPrefix(removed[:n]) {
		return p
	}
	i, ok := p[n].AsIndex()
	if !ok || i <= si {
		return p
	}
	res := p.Clone()
	res[n] = kpath.Index(i - 1)
	return res
}
