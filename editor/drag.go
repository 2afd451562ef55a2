package editor

import (
	"context"
	"fmt"

	"github.com/jsontree/go-jsontree/debug"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/mutate"
)

// StartDrag records this node as the source of a drag. It needs drag
// permission, which is withheld while an edit is active.
func (n *Node) StartDrag() error {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	d, r, err := e.describeLocked(n.path)
	if err != nil {
		return err
	}
	if !e.permissionsLocked(d, r).Drag {
		return fmt.Errorf("%w: drag $%s", ErrRestricted, n.path.String())
	}
	e.drag, e.dragging = n.path.Clone(), true
	if debug.Drag() {
		debug.Logf("drag start %v\n", n.path)
	}
	return nil
}

// Dragging returns the source of the drag in progress.
func (e *Editor) Dragging() (kpath.Path, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.Clone(), e.dragging
}

// EndDrag abandons the drag in progress.
func (e *Editor) EndDrag() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag, e.dragging = nil, false
}

// Drop moves the dragged node above or below this node. Dropping a node
// into its own subtree fails with INVALID_DROP, and moving into another
// object that already has the node's key fails with KEY_EXISTS; neither
// touches the document. The drag ends whatever the outcome. Errors show
// on the drop target.
func (n *Node) Drop(ctx context.Context, pos mutate.Position) error {
	e := n.e
	e.mu.Lock()
	src, ok := e.drag, e.dragging
	e.drag, e.dragging = nil, false
	if !ok {
		e.mu.Unlock()
		return ErrNoDrag
	}
	if n.path.IsWithin(src) {
		err := e.failKeyLocked(n.path, CodeInvalidDrop, "ERROR_INVALID_DROP", fmt.Errorf("%w: $%s into $%s", mutate.ErrMoveIntoSelf, src.String(), n.path.String()))
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()
	if debug.Drag() {
		debug.Logf("drop %v %s %v\n", src, pos, n.path)
	}
	return e.commit(ctx, n.path, func(base *ir.Node) (*proposal, error) {
		res, err := mutate.MoveNode(base, src, n.path, pos)
		if err != nil {
			return nil, err
		}
		return &proposal{
			change: Change{
				Op:    mutate.Move,
				Path:  res.To,
				From:  src,
				Name:  nameOf(res.To),
				Value: res.Value,
				Doc:   res.Doc,
			},
			wholeDoc: true,
			patch:    patchMove(src, res.To),
			remap:    moveRemap(base, res.Doc, src, res.To),
		}, nil
	})
}
