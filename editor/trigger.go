package editor

import (
	"context"
	"errors"

	"github.com/jsontree/go-jsontree/ir/kpath"
)

// CollapseTrigger collapses or expands one node, or its whole subtree
// when IncludeChildren is set.
type CollapseTrigger struct {
	Path            kpath.Path
	Collapsed       bool
	IncludeChildren bool
}

type EditAction int

const (
	EditStart EditAction = iota
	EditAccept
	EditCancel
)

// EditTrigger starts, accepts or cancels an edit. Accept and cancel
// with a nil Path act on the active edit.
type EditTrigger struct {
	Path   kpath.Path
	Action EditAction
	Mode   Mode
}

// Triggers drive the editor from outside the tree, for instance from
// host application controls.
type Triggers struct {
	Collapse []CollapseTrigger
	Edit     *EditTrigger
}

// Trigger applies t: collapse triggers first, then the edit trigger.
func (e *Editor) Trigger(ctx context.Context, t Triggers) error {
	var errs []error
	for _, c := range t.Collapse {
		if c.IncludeChildren {
			e.BroadcastCollapse(c.Path, c.Collapsed)
			continue
		}
		if err := e.Node(c.Path).SetCollapsed(c.Collapsed); err != nil {
			errs = append(errs, err)
		}
	}
	if et := t.Edit; et != nil {
		p := et.Path
		if p == nil && et.Action != EditStart {
			p, _ = e.Session()
		}
		if p == nil {
			errs = append(errs, ErrNotEditing)
		} else {
			n := e.Node(p)
			switch et.Action {
			case EditStart:
				mode := et.Mode
				if mode == Idle {
					mode = EditingValue
				}
				errs = append(errs, n.StartEdit(mode, nil))
			case EditAccept:
				errs = append(errs, n.Confirm(ctx))
			case EditCancel:
				n.Cancel()
			}
		}
	}
	return errors.Join(errs...)
}
