package resolve

import (
	"fmt"
	"log/slog"
)

// Resolved is the outcome of resolving one node.
type Resolved struct {
	Kind Kind
	// Definition is the first matching custom definition, or nil.
	Definition *Definition
	// Index is the position of Definition in the list, -1 without one.
	Index int

	ShowInSelector bool
	ShowOnEdit     bool
	ShowOnView     bool
	ShowEditTools  bool
	HideKey        bool

	// Leaf is set when the node does not recurse into children, either
	// because it is a scalar or because its definition renders it as a
	// value.
	Leaf bool
}

func (r *Resolved) IsCollection() bool {
	return !r.Leaf
}

func (r *Resolved) IsCustom() bool {
	return r.Definition != nil
}

// Editable reports whether the node offers edit affordances at all,
// before restriction policy is consulted.
func (r *Resolved) Editable() bool {
	if r.Definition != nil {
		return r.ShowEditTools
	}
	return r.Kind != Invalid
}

// Name is the definition name, or the kind name without a definition.
func (r *Resolved) Name() string {
	if r.Definition != nil && r.Definition.Name != "" {
		return r.Definition.Name
	}
	return r.Kind.String()
}

// Resolve evaluates defs in order and returns the first match merged over
// the defaults, falling back to primitive classification. It has no side
// effects. A condition that panics counts as no match.
func Resolve(d *Descriptor, defs []*Definition) *Resolved {
	kind := Classify(d.Value)
	for i, def := range defs {
		if def == nil || def.Condition == nil || !evalCondition(def, d) {
			continue
		}
		res := &Resolved{
			Kind:           kind,
			Definition:     def,
			Index:          i,
			ShowInSelector: flag(def.ShowInSelector, false),
			ShowOnEdit:     flag(def.ShowOnEdit, false),
			ShowOnView:     flag(def.ShowOnView, true),
			ShowEditTools:  flag(def.ShowEditTools, true),
			HideKey:        def.HideKey,
		}
		res.Leaf = !kind.IsCollection() || def.RenderAsValue
		return res
	}
	return &Resolved{
		Kind:          kind,
		Index:         -1,
		ShowOnView:    true,
		ShowEditTools: kind != Invalid,
		Leaf:          !kind.IsCollection(),
	}
}

// Selectable returns the definitions offered as target types when a
// value's type is changed.
func Selectable(defs []*Definition) []*Definition {
	var res []*Definition
	for _, def := range defs {
		if def != nil && flag(def.ShowInSelector, false) {
			res = append(res, def)
		}
	}
	return res
}

func evalCondition(def *Definition, d *Descriptor) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("custom definition condition panicked", "definition", def.Name, "path", d.Path.String(), "panic", fmt.Sprint(r))
			ok = false
		}
	}()
	return def.Condition(d)
}

func flag(p *bool, dflt bool) bool {
	if p == nil {
		return dflt
	}
	return *p
}
