package editor

import (
	"github.com/jsontree/go-jsontree/filter"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/resolve"
	"github.com/jsontree/go-jsontree/walk"
)

// SetSearch sets the search text. Empty text with no configured search
// filter shows everything.
func (e *Editor) SetSearch(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.search = text
	e.log.Debug("search", "text", text)
}

func (e *Editor) Search() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.search
}

// Visible reports whether the node at p survives the current search.
func (e *Editor) Visible(p kpath.Path) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visibilityLocked(resolve.Root(e.doc, e.cfg.RootName)).Visible(p)
}

func (e *Editor) visibilityLocked(root *resolve.Descriptor) filter.Set {
	return filter.VisibleSet(root, filter.Options{
		Predicate: e.cfg.SearchFilter,
		Text:      e.search,
		Leaf: func(d *resolve.Descriptor) bool {
			return resolve.Resolve(d, e.cfg.Definitions).Leaf
		},
	})
}

// displayLocked returns the walk options of the rendered tree: key
// order, and descent only into visible expanded collections.
func (e *Editor) displayLocked(vis filter.Set) walk.Options {
	return walk.Options{
		Order: e.cfg.KeySort,
		Descend: func(d *resolve.Descriptor) bool {
			d.Collapsed = e.collapsedLocked(d)
			if d.Collapsed || !vis.Visible(d.Path) {
				return false
			}
			return !resolve.Resolve(d, e.cfg.Definitions).Leaf
		},
	}
}
