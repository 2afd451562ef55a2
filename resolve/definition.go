package resolve

import (
	"context"

	"github.com/jsontree/go-jsontree/ir"
)

// Condition selects the nodes a Definition applies to. It must not
// modify anything reachable from the descriptor.
type Condition func(d *Descriptor) bool

// Control is handed to a Renderer so that a custom editor can finish an
// edit without knowing about the coordinator.
type Control interface {
	Commit(ctx context.Context, v *ir.Node) error
	Cancel()
}

// Renderer produces the textual view of a node matched by a Definition.
type Renderer interface {
	Render(d *Descriptor, r *Resolved, ctl Control) string
}

type RenderFunc func(d *Descriptor, r *Resolved, ctl Control) string

func (f RenderFunc) Render(d *Descriptor, r *Resolved, ctl Control) string {
	return f(d, r, ctl)
}

// Definition overrides classification and rendering for the nodes its
// Condition matches. Definitions are kept in an ordered list; the first
// match wins. Unset flags take the defaults listed on Resolved.
type Definition struct {
	Name      string
	Condition Condition
	Renderer  Renderer

	ShowInSelector *bool
	ShowOnEdit     *bool
	ShowOnView     *bool
	ShowEditTools  *bool
	HideKey        bool

	// RenderAsValue makes a matched collection a leaf: its children are
	// neither displayed nor traversed.
	RenderAsValue bool

	// DefaultValue is used when a node of this kind is created or a value
	// is converted to it.
	DefaultValue *ir.Node

	Props map[string]any
}

func Bool(v bool) *bool {
	return &v
}
