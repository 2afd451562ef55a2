package editor

import (
	"context"
	"fmt"

	"github.com/jsontree/go-jsontree/debug"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/mutate"
	"github.com/jsontree/go-jsontree/parse"
	"github.com/jsontree/go-jsontree/resolve"
)

// Mode is the state of the edit session.
type Mode int

const (
	Idle Mode = iota
	EditingValue
	EditingKey
)

func (m Mode) String() string {
	switch m {
	case EditingValue:
		return "value"
	case EditingKey:
		return "key"
	}
	return "idle"
}

// session is the single active edit.
type session struct {
	path     kpath.Path
	mode     Mode
	onCancel func()
}

// Session returns the path and mode of the active edit, Idle when there
// is none.
func (e *Editor) Session() (kpath.Path, Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, Idle
	}
	return e.session.path.Clone(), e.session.mode
}

func (e *Editor) editingLocked(p kpath.Path, m Mode) bool {
	s := e.session
	return s != nil && s.mode == m && s.path.Equal(p)
}

// Cancel ends the active edit, if any, discarding its draft.
func (e *Editor) Cancel() {
	e.mu.Lock()
	s := e.endSessionLocked()
	e.mu.Unlock()
	if s != nil && s.onCancel != nil {
		s.onCancel()
	}
}

// endSessionLocked moves to Idle, restoring the draft of the ended
// session, and returns it.
func (e *Editor) endSessionLocked() *session {
	s := e.session
	if s == nil {
		return nil
	}
	e.session = nil
	if st := e.peekLocked(s.path); st != nil {
		st.draft = nil
		st.keyDraft = ""
	}
	if debug.Edit() {
		debug.Logf("edit %s on %v ended\n", s.mode, s.path)
	}
	return s
}

// StartEdit makes this node the one being edited in mode. An edit in
// progress on another node, or in another mode, is cancelled first and
// its onCancel runs before this edit becomes active; onCancel runs with
// the editor locked and must not call back into it.
//
// Editing a value needs edit permission, editing a key needs key edit
// permission.
func (n *Node) StartEdit(mode Mode, onCancel func()) error {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	if mode == Idle {
		return fmt.Errorf("cannot start an idle edit")
	}
	d, r, err := e.describeLocked(n.path)
	if err != nil {
		return err
	}
	perm := e.permissionsLocked(d, r)
	if (mode == EditingValue && !perm.Edit) || (mode == EditingKey && !perm.EditKey) {
		return e.failKeyLocked(n.path, CodeRestricted, "ERROR_RESTRICTED", fmt.Errorf("%w: edit %s", ErrRestricted, mode))
	}
	st := e.stateLocked(d)
	if st.pending {
		return ErrBusy
	}
	if e.editingLocked(n.path, mode) {
		if onCancel != nil {
			e.session.onCancel = onCancel
		}
		return nil
	}
	if prev := e.endSessionLocked(); prev != nil && prev.onCancel != nil {
		prev.onCancel()
	}
	e.session = &session{path: n.path.Clone(), mode: mode, onCancel: onCancel}
	st.draft = d.Value
	st.keyDraft = d.Key.String()
	e.log.Debug("edit started", "path", n.path.String(), "mode", mode)
	return nil
}

// Cancel ends this node's edit, if it is the one being edited.
func (n *Node) Cancel() {
	e := n.e
	e.mu.Lock()
	var s *session
	if e.session != nil && e.session.path.Equal(n.path) {
		s = e.endSessionLocked()
	}
	e.mu.Unlock()
	if s != nil && s.onCancel != nil {
		s.onCancel()
	}
}

// SetDraft replaces the uncommitted value of the node being edited.
func (n *Node) SetDraft(v *ir.Node) error {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editingLocked(n.path, EditingValue) {
		return ErrNotEditing
	}
	e.sessionStateLocked().draft = v
	return nil
}

// SetKeyDraft replaces the uncommitted key of the node whose key is
// being edited.
func (n *Node) SetKeyDraft(key string) error {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editingLocked(n.path, EditingKey) {
		return ErrNotEditing
	}
	e.sessionStateLocked().keyDraft = key
	return nil
}

// Confirm commits the draft of the node being edited. The session ends
// whatever the outcome; a rejection only leaves an error on the node.
// An unchanged draft ends the session without a change.
func (n *Node) Confirm(ctx context.Context) error {
	e := n.e
	e.mu.Lock()
	if e.editingLocked(n.path, EditingKey) {
		key := e.sessionStateLocked().keyDraft
		e.mu.Unlock()
		return n.ConfirmKey(ctx, key)
	}
	if !e.editingLocked(n.path, EditingValue) {
		e.mu.Unlock()
		return ErrNotEditing
	}
	draft := e.sessionStateLocked().draft
	cur, err := mutate.Get(e.doc, n.path)
	if err != nil {
		e.invariant("edited node %s does not resolve: %v", n.path.String(), err)
	}
	e.endSessionLocked()
	e.mu.Unlock()
	if draft == nil || (cur != nil && draft.Type == cur.Type && ir.Equal(draft, cur)) {
		return nil
	}
	return n.commitValue(ctx, mutate.Update, n.path, draft)
}

// ConfirmText parses text as the new value of the node being edited,
// which is how collections are edited in bulk. Text that does not parse
// leaves the session open with an INVALID_JSON error on the node.
func (n *Node) ConfirmText(ctx context.Context, text string) error {
	e := n.e
	v, err := parse.Parse([]byte(text), parse.ParseJSON())
	if err != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.editingLocked(n.path, EditingValue) {
			return ErrNotEditing
		}
		return e.failKeyLocked(n.path, CodeInvalidJSON, "ERROR_INVALID_JSON", err)
	}
	if err := n.SetDraft(v); err != nil {
		return err
	}
	return n.Confirm(ctx)
}

// ConfirmKey renames the node being key-edited to key, keeping its
// position. It is reported to the confirmation hook as an update of the
// parent collection.
func (n *Node) ConfirmKey(ctx context.Context, key string) error {
	e := n.e
	e.mu.Lock()
	if !e.editingLocked(n.path, EditingKey) {
		e.mu.Unlock()
		return ErrNotEditing
	}
	e.endSessionLocked()
	last, _ := n.path.Last()
	e.mu.Unlock()
	if key == last.String() {
		return nil
	}
	parent := n.path.Parent()
	renamed := parent.Append(kpath.Field(key))
	return e.commit(ctx, n.path, func(base *ir.Node) (*proposal, error) {
		res, err := mutate.RenameKey(base, n.path, key)
		if err != nil {
			return nil, err
		}
		return &proposal{
			change: Change{
				Op:       mutate.Update,
				Path:     parent,
				Name:     nameOf(parent),
				Previous: res.Previous,
				Value:    res.Value,
				Doc:      res.Doc,
			},
			wholeDoc: true,
			patch:    patchMove(n.path, renamed),
			remap:    renameRemap(n.path, renamed),
		}, nil
	})
}

// Update commits v as the node's value without an edit session. Custom
// renderers commit through it.
func (n *Node) Update(ctx context.Context, v *ir.Node) error {
	e := n.e
	e.mu.Lock()
	d, r, err := e.describeLocked(n.path)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if !e.permissionsLocked(d, r).Edit {
		err := e.failKeyLocked(n.path, CodeRestricted, "ERROR_RESTRICTED", fmt.Errorf("%w: edit", ErrRestricted))
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()
	return n.commitValue(ctx, mutate.Update, n.path, v)
}

// Add creates a child of this collection holding the default value: at
// the end of an array, or under key in an object. The collection is
// expanded once the child is added.
func (n *Node) Add(ctx context.Context, key string) error {
	e := n.e
	e.mu.Lock()
	d, r, err := e.describeLocked(n.path)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if !e.permissionsLocked(d, r).Add {
		err := e.failKeyLocked(n.path, CodeRestricted, "ERROR_RESTRICTED", fmt.Errorf("%w: add", ErrRestricted))
		e.mu.Unlock()
		return err
	}
	var p kpath.Path
	if d.Value.Type == ir.ArrayType {
		p = n.path.Append(kpath.Index(d.Value.Len()))
	} else {
		p = n.path.Append(kpath.Field(key))
	}
	v := e.cfg.DefaultValue
	if v == nil {
		v = ir.Null()
	}
	e.mu.Unlock()
	if err := n.commitValue(ctx, mutate.Add, p, v.Clone()); err != nil {
		return err
	}
	return n.SetCollapsed(false)
}

// Delete removes the node.
func (n *Node) Delete(ctx context.Context) error {
	e := n.e
	e.mu.Lock()
	d, r, err := e.describeLocked(n.path)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if !e.permissionsLocked(d, r).Delete {
		err := e.failKeyLocked(n.path, CodeRestricted, "ERROR_RESTRICTED", fmt.Errorf("%w: delete", ErrRestricted))
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()
	return e.commit(ctx, n.path, func(base *ir.Node) (*proposal, error) {
		res, err := mutate.Apply(base, n.path, nil, mutate.Delete)
		if err != nil {
			return nil, err
		}
		return &proposal{
			change: Change{
				Op:       mutate.Delete,
				Path:     n.path,
				Name:     nameOf(n.path),
				Previous: res.Previous,
				Doc:      res.Doc,
			},
			wholeDoc: true,
			patch:    patchRemove(n.path),
			remap:    deleteRemap(base, n.path),
		}, nil
	})
}

// commitValue proposes an update or add of v at p. A substituted value
// is applied at p in place of v.
func (n *Node) commitValue(ctx context.Context, op mutate.Op, p kpath.Path, v *ir.Node) error {
	e := n.e
	return e.commit(ctx, n.path, func(base *ir.Node) (*proposal, error) {
		res, err := mutate.Apply(base, p, v, op)
		if err != nil {
			return nil, err
		}
		pr := &proposal{
			change: Change{
				Op:       op,
				Path:     p,
				Name:     nameOf(p),
				Previous: res.Previous,
				Value:    res.Value,
				Doc:      res.Doc,
			},
			substitute: func(sv *ir.Node) (*ir.Node, error) {
				r, err := mutate.Apply(base, p, sv, op)
				if err != nil {
					return nil, err
				}
				return r.Doc, nil
			},
		}
		switch {
		case op == mutate.Add:
			pr.patch = patchAdd(p)
			pr.remap = insertRemap(base, p)
		case res.Previous == nil:
			pr.patch = patchAdd(p)
		default:
			pr.patch = patchReplace(p)
		}
		return pr, nil
	})
}

// TypeOptions lists the kinds and selectable custom definitions the
// value of this node may be changed to.
func (n *Node) TypeOptions() ([]string, error) {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	d, r, err := e.describeLocked(n.path)
	if err != nil {
		return nil, err
	}
	if !e.permissionsLocked(d, r).ChangeType {
		return nil, nil
	}
	var res []string
	for _, k := range resolve.ValueKinds() {
		res = append(res, k.String())
	}
	for _, def := range resolve.Selectable(e.cfg.Definitions) {
		res = append(res, def.Name)
	}
	return res, nil
}

// ChangeType converts the draft of the node being edited to the named
// kind or selectable custom definition. The change is committed by
// Confirm.
func (n *Node) ChangeType(name string) error {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editingLocked(n.path, EditingValue) {
		return ErrNotEditing
	}
	d, r, err := e.describeLocked(n.path)
	if err != nil {
		return err
	}
	if !e.permissionsLocked(d, r).ChangeType {
		return e.failKeyLocked(n.path, CodeRestricted, "ERROR_RESTRICTED", fmt.Errorf("%w: change type", ErrRestricted))
	}
	st := e.sessionStateLocked()
	for _, def := range resolve.Selectable(e.cfg.Definitions) {
		if def.Name != name {
			continue
		}
		if def.DefaultValue == nil {
			return fmt.Errorf("definition %q has no default value", name)
		}
		st.draft = def.DefaultValue.Clone()
		return nil
	}
	t, err := ir.ParseType(name)
	if err != nil || t == ir.CustomType {
		return fmt.Errorf("unknown type %q", name)
	}
	v, err := mutate.Convert(st.draft, t, nil)
	if err != nil {
		return err
	}
	st.draft = v
	return nil
}

func nameOf(p kpath.Path) string {
	if k, ok := p.Last(); ok {
		return k.String()
	}
	return ""
}
