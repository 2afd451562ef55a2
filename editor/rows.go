package editor

import (
	"context"

	"github.com/jsontree/go-jsontree/encode"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/policy"
	"github.com/jsontree/go-jsontree/resolve"
	"github.com/jsontree/go-jsontree/walk"
)

// Row is one displayed line of the tree.
type Row struct {
	Path    kpath.Path
	Key     string
	IsIndex bool
	HideKey bool
	Level   int

	Kind resolve.Kind
	// Type is the custom definition name, or the kind name.
	Type  string
	Value *ir.Node
	// Text is the rendered value of a leaf.
	Text string

	Collection bool
	// Count is the item count text of a collection.
	Count     string
	Collapsed bool

	Editing     Mode
	Pending     bool
	Error       *Error
	Permissions policy.Permissions
	Dragged     bool
}

type render struct {
	row *Row
	d   *resolve.Descriptor
	r   *resolve.Resolved
}

// Rows lists the displayed nodes in display order: collapsed
// collections show no children and nodes the search hides are left out.
// Custom renderers run after the editor lock is released, so they may
// use their Control.
func (e *Editor) Rows() []Row {
	e.mu.Lock()
	root := resolve.Root(e.doc, e.cfg.RootName)
	vis := e.visibilityLocked(root)
	var (
		rows    []*Row
		renders []render
	)
	walk.Walk(root, e.displayLocked(vis), func(d *resolve.Descriptor) bool {
		if !vis.Visible(d.Path) {
			return true
		}
		d.Collapsed = e.collapsedLocked(d)
		r := resolve.Resolve(d, e.cfg.Definitions)
		st := e.stateLocked(d)
		row := &Row{
			Path:        d.Path,
			Key:         d.Key.String(),
			IsIndex:     d.Key.IsIndex,
			HideKey:     r.HideKey,
			Level:       d.Level,
			Kind:        r.Kind,
			Type:        r.Name(),
			Value:       d.Value,
			Collection:  !r.Leaf,
			Collapsed:   d.Collapsed,
			Pending:     st.pending,
			Error:       st.err,
			Permissions: e.permissionsLocked(d, r),
			Dragged:     e.dragging && e.drag.Equal(d.Path),
		}
		if s := e.session; s != nil && s.path.Equal(d.Path) {
			row.Editing = s.mode
		}
		if !r.Leaf {
			row.Count = e.ItemCount(d.Size)
		} else {
			v := d.Value
			if row.Editing == EditingValue && st.draft != nil {
				v = st.draft
			}
			row.Text = leafText(v)
			def := r.Definition
			show := r.ShowOnView
			if row.Editing != Idle {
				show = r.ShowOnEdit
			}
			if def != nil && def.Renderer != nil && show {
				renders = append(renders, render{row: row, d: d, r: r})
			}
		}
		rows = append(rows, row)
		return true
	})
	e.mu.Unlock()
	for _, rd := range renders {
		rd.row.Text = rd.r.Definition.Renderer.Render(rd.d, rd.r, e.Node(rd.d.Path).Control())
	}
	res := make([]Row, len(rows))
	for i, r := range rows {
		res[i] = *r
	}
	return res
}

func leafText(v *ir.Node) string {
	if v.IsCollection() {
		d, err := encode.MarshalJSON(v)
		if err != nil {
			return ""
		}
		return string(d)
	}
	return encode.Scalar(v)
}

// Control returns the commit and cancel callbacks handed to custom
// renderers for this node.
func (n *Node) Control() resolve.Control {
	return control{n: n}
}

type control struct {
	n *Node
}

func (c control) Commit(ctx context.Context, v *ir.Node) error {
	return c.n.Update(ctx, v)
}

func (c control) Cancel() {
	c.n.Cancel()
}
