package policy

import "github.com/jsontree/go-jsontree/resolve"

// Restrictions are filters that, when they match a node, forbid an
// action on it. A nil restriction forbids nothing.
type Restrictions struct {
	Edit       Filter
	Delete     Filter
	Add        Filter
	Drag       Filter
	KeyEdit    Filter
	TypeSelect Filter
}

// Permissions is what the user may do to one node.
type Permissions struct {
	Edit       bool `json:"edit"`
	Delete     bool `json:"delete"`
	Add        bool `json:"add"`
	Drag       bool `json:"drag"`
	EditKey    bool `json:"editKey"`
	ChangeType bool `json:"changeType"`
}

// Evaluate derives the permissions of the node d resolved to r.
//
// A key may only be edited on an object member whose parent allows
// editing, adding and deleting. Dragging needs delete permission. Adding
// applies to collections only.
func (rs *Restrictions) Evaluate(d *resolve.Descriptor, r *resolve.Resolved) Permissions {
	editable := r.Editable()
	p := Permissions{
		Edit:   editable && !rs.Edit.Eval(d, false),
		Delete: editable && !d.IsRoot() && !rs.Delete.Eval(d, false),
		Add:    editable && r.IsCollection() && !rs.Add.Eval(d, false),
	}
	p.Drag = p.Delete && !rs.Drag.Eval(d, false)
	p.ChangeType = p.Edit && !rs.TypeSelect.Eval(d, false)
	if d.Parent != nil && !d.IsArrayElement() {
		p.EditKey = p.Edit && !rs.Add.Eval(d, false) && p.Delete && !rs.KeyEdit.Eval(d, false)
	}
	return p
}
