package editor

import (
	"github.com/jsontree/go-jsontree/debug"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/resolve"
)

// override is a transient collapse state forced on a subtree.
type override struct {
	prefix    kpath.Path
	collapsed bool
	gen       uint64
	timer     stopper
}

// collapsedLocked returns the effective collapse flag of d. A node that
// sees an active override covering it adopts the override into its own
// flag, once per override, so it keeps the state after expiry and can
// still be toggled while the override lasts.
func (e *Editor) collapsedLocked(d *resolve.Descriptor) bool {
	st := e.stateLocked(d)
	if o := e.override; o != nil && st.ovGen != o.gen && d.Path.HasPrefix(o.prefix) {
		st.collapsed = o.collapsed
		st.ovGen = o.gen
	}
	return st.collapsed
}

// BroadcastCollapse collapses or expands every node under prefix, prefix
// included. The override expires after the configured TTL; a newer
// broadcast supersedes it at once.
func (e *Editor) BroadcastCollapse(prefix kpath.Path, collapsed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if o := e.override; o != nil && o.timer != nil {
		o.timer.Stop()
	}
	e.ovGen++
	gen := e.ovGen
	o := &override{prefix: prefix.Clone(), collapsed: collapsed, gen: gen}
	e.override = o
	o.timer = e.afterFunc(e.cfg.OverrideTTL, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.override != nil && e.override.gen == gen {
			e.override = nil
			if debug.Collapse() {
				debug.Logf("collapse override %d on %v expired\n", gen, prefix)
			}
		}
	})
	e.log.Debug("collapse broadcast", "prefix", prefix.String(), "collapsed", collapsed)
}

// Override reports the active collapse override.
func (e *Editor) Override() (prefix kpath.Path, collapsed, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.override == nil {
		return nil, false, false
	}
	return e.override.prefix.Clone(), e.override.collapsed, true
}

// Collapsed reports the node's effective collapse state.
func (n *Node) Collapsed() (bool, error) {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := resolve.At(e.doc, n.path, e.cfg.RootName)
	if err != nil {
		return false, err
	}
	return e.collapsedLocked(d), nil
}

// SetCollapsed sets the node's own collapse flag.
func (n *Node) SetCollapsed(v bool) error {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := resolve.At(e.doc, n.path, e.cfg.RootName)
	if err != nil {
		return err
	}
	e.collapsedLocked(d)
	e.stateLocked(d).collapsed = v
	if debug.Collapse() {
		debug.Logf("collapse %v = %v\n", n.path, v)
	}
	return nil
}

// ToggleCollapse flips the node's collapse state and returns the new
// state.
func (n *Node) ToggleCollapse() (bool, error) {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := resolve.At(e.doc, n.path, e.cfg.RootName)
	if err != nil {
		return false, err
	}
	st := e.stateLocked(d)
	st.collapsed = !e.collapsedLocked(d)
	return st.collapsed, nil
}
