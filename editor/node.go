package editor

import (
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/policy"
	"github.com/jsontree/go-jsontree/resolve"
)

// Node is a handle on the node at one path.
type Node struct {
	e    *Editor
	path kpath.Path
}

func (n *Node) Path() kpath.Path {
	return n.path.Clone()
}

func (n *Node) Editor() *Editor {
	return n.e
}

// Exists reports whether the path resolves in the current document.
func (n *Node) Exists() bool {
	n.e.mu.Lock()
	defer n.e.mu.Unlock()
	return n.e.existsLocked(n.path)
}

// Value returns the committed value of the node.
func (n *Node) Value() (*ir.Node, error) {
	d, _, err := n.Describe()
	if err != nil {
		return nil, err
	}
	return d.Value, nil
}

// Describe derives the node's descriptor and resolution against the
// current document.
func (n *Node) Describe() (*resolve.Descriptor, *resolve.Resolved, error) {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.describeLocked(n.path)
}

func (n *Node) Permissions() (policy.Permissions, error) {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	d, r, err := e.describeLocked(n.path)
	if err != nil {
		return policy.Permissions{}, err
	}
	return e.permissionsLocked(d, r), nil
}

// Error returns the node's current error, nil once it has cleared.
func (n *Node) Error() *Error {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	if st := e.peekLocked(n.path); st != nil {
		return st.err
	}
	return nil
}

// Pending reports whether a change of this node awaits confirmation.
func (n *Node) Pending() bool {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.peekLocked(n.path)
	return st != nil && st.pending
}

// Draft returns the uncommitted value of a node being edited, or the
// committed value otherwise.
func (n *Node) Draft() (*ir.Node, error) {
	e := n.e
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := resolve.At(e.doc, n.path, e.cfg.RootName)
	if err != nil {
		return nil, err
	}
	if st := e.peekLocked(n.path); st != nil && st.draft != nil && e.editingLocked(n.path, EditingValue) {
		return st.draft, nil
	}
	return d.Value, nil
}
