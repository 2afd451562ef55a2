package editor

import (
	"context"
	"errors"

	"github.com/jsontree/go-jsontree/filter"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/resolve"
	"github.com/jsontree/go-jsontree/walk"
)

// Tab confirms the active edit and starts editing the next (or, with
// reverse, the previous) editable value in display order, skipping
// anything inside a collapsed collection or hidden by the search. From a
// key edit, Tab moves on to the same node's value when it is editable.
// At either end of the document the edit stays where it is. The target
// is recomputed from the current state on every call.
func (e *Editor) Tab(ctx context.Context, reverse bool) (kpath.Path, error) {
	dir := walk.Forward
	if reverse {
		dir = walk.Backward
	}
	e.mu.Lock()
	s := e.session
	if s == nil {
		e.mu.Unlock()
		return nil, ErrNotEditing
	}
	from, mode := s.path.Clone(), s.mode
	keyDraft := e.sessionStateLocked().keyDraft
	self := mode == EditingKey && !reverse
	_, ok := e.neighborLocked(from, dir)
	if self {
		self = e.tabEligibleAtLocked(from)
	}
	e.mu.Unlock()
	if !ok && !self {
		return from, nil
	}

	err := e.Node(from).Confirm(ctx)
	var nerr *Error
	if err != nil && !errors.As(err, &nerr) {
		return nil, err
	}
	if mode == EditingKey && err == nil {
		from = from.Parent().Append(kpath.Field(keyDraft))
	}

	e.mu.Lock()
	var target kpath.Path
	switch {
	case self && e.tabEligibleAtLocked(from):
		target = from
	default:
		d, ok := e.neighborLocked(from, dir)
		if !ok {
			e.mu.Unlock()
			return from, nil
		}
		target = d.Path
	}
	e.mu.Unlock()
	return target, e.Node(target).StartEdit(EditingValue, nil)
}

func (e *Editor) neighborLocked(from kpath.Path, dir walk.Direction) (*resolve.Descriptor, bool) {
	root := resolve.Root(e.doc, e.cfg.RootName)
	vis := e.visibilityLocked(root)
	return walk.Neighbor(root, from, dir, walk.NavOptions{
		Options: e.displayLocked(vis),
		Eligible: func(d *resolve.Descriptor) bool {
			return e.tabEligibleLocked(d, vis)
		},
	})
}

// tabEligibleLocked reports whether Tab may land on d: a visible leaf
// whose value may be edited.
func (e *Editor) tabEligibleLocked(d *resolve.Descriptor, vis filter.Set) bool {
	if !vis.Visible(d.Path) {
		return false
	}
	d.Collapsed = e.collapsedLocked(d)
	r := resolve.Resolve(d, e.cfg.Definitions)
	return r.Leaf && e.permissionsLocked(d, r).Edit
}

func (e *Editor) tabEligibleAtLocked(p kpath.Path) bool {
	d, err := resolve.At(e.doc, p, e.cfg.RootName)
	if err != nil {
		return false
	}
	return e.tabEligibleLocked(d, e.visibilityLocked(resolve.Root(e.doc, e.cfg.RootName)))
}
