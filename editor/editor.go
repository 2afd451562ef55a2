package editor

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jsontree/go-jsontree/debug"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/policy"
	"github.com/jsontree/go-jsontree/resolve"
)

type stopper interface {
	Stop() bool
}

func timeAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

type Editor struct {
	cfg       Config
	log       *slog.Logger
	afterFunc func(time.Duration, func()) stopper

	mu       sync.Mutex
	doc      *ir.Node
	version  uint64
	nodes    map[string]*nodeState
	session  *session
	drag     kpath.Path
	dragging bool
	override *override
	ovGen    uint64
	search   string
	busy     bool
}

// nodeState is what the editor remembers about one node between
// document versions.
type nodeState struct {
	path kpath.Path

	seeded    bool
	collapsed bool
	ovGen     uint64

	draft    *ir.Node
	keyDraft string

	err     *Error
	errGen  uint64
	pending bool
}

func New(doc *ir.Node, cfg *Config) *Editor {
	if cfg == nil {
		cfg = &Config{}
	}
	if doc == nil {
		doc = ir.Null()
	}
	c := cfg.withDefaults()
	return &Editor{
		cfg:       c,
		log:       c.Log,
		afterFunc: timeAfterFunc,
		doc:       doc,
		nodes:     map[string]*nodeState{},
	}
}

// Document returns the current document version.
func (e *Editor) Document() *ir.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// Version counts document replacements.
func (e *Editor) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// SetDocument replaces the document without consulting the confirmation
// hook. An edit or drag session whose node no longer exists is cancelled
// and state for vanished nodes is dropped.
func (e *Editor) SetDocument(doc *ir.Node) {
	if doc == nil {
		doc = ir.Null()
	}
	e.mu.Lock()
	e.doc = doc
	e.version++
	cancel := e.settleLocked()
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// settleLocked reconciles coordination state with the current document,
// returning the cancel callback of a dropped edit session.
func (e *Editor) settleLocked() func() {
	var cancel func()
	if s := e.session; s != nil && !e.existsLocked(s.path) {
		e.session = nil
		cancel = s.onCancel
		e.log.Debug("edit session dropped", "path", s.path.String())
	}
	if e.dragging && !e.existsLocked(e.drag) {
		e.dragging, e.drag = false, nil
	}
	for k, st := range e.nodes {
		if !e.existsLocked(st.path) {
			delete(e.nodes, k)
		}
	}
	return cancel
}

func (e *Editor) existsLocked(p kpath.Path) bool {
	_, err := resolve.At(e.doc, p, e.cfg.RootName)
	return err == nil
}

// Node returns the handle of the node at p. The path need not exist yet;
// one that does is normalized so array elements use index keys.
func (e *Editor) Node(p kpath.Path) *Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	if d, err := resolve.At(e.doc, p, e.cfg.RootName); err == nil {
		return &Node{e: e, path: d.Path}
	}
	return &Node{e: e, path: p.Clone()}
}

func (e *Editor) Root() *Node {
	return e.Node(kpath.Path{})
}

func (e *Editor) describeLocked(p kpath.Path) (*resolve.Descriptor, *resolve.Resolved, error) {
	d, err := resolve.At(e.doc, p, e.cfg.RootName)
	if err != nil {
		return nil, nil, err
	}
	d.Collapsed = e.collapsedLocked(d)
	return d, resolve.Resolve(d, e.cfg.Definitions), nil
}

func (e *Editor) permissionsLocked(d *resolve.Descriptor, r *resolve.Resolved) policy.Permissions {
	p := e.cfg.Restrict.Evaluate(d, r)
	if e.session != nil || e.busy {
		p.Drag = false
	}
	return p
}

// stateLocked returns the state of the node d, creating it and seeding
// its collapse flag on first sight.
func (e *Editor) stateLocked(d *resolve.Descriptor) *nodeState {
	k := d.Path.String()
	st := e.nodes[k]
	if st == nil {
		st = &nodeState{path: d.Path.Clone()}
		e.nodes[k] = st
	}
	if !st.seeded {
		st.seeded = true
		st.collapsed = e.cfg.Collapse.Eval(d, false)
	}
	return st
}

// peekLocked returns existing state without creating any.
func (e *Editor) peekLocked(p kpath.Path) *nodeState {
	return e.nodes[p.String()]
}

// remapLocked rewrites the paths of node state, the edit session and the
// drag source with f. Whatever f reports false for is dropped, and the
// onCancel of a dropped edit session is returned.
func (e *Editor) remapLocked(f func(p kpath.Path) (kpath.Path, bool)) func() {
	next := make(map[string]*nodeState, len(e.nodes))
	for _, st := range e.nodes {
		p, ok := f(st.path)
		if !ok {
			continue
		}
		st.path = p
		next[p.String()] = st
	}
	e.nodes = next
	if e.dragging {
		if p, ok := f(e.drag); ok {
			e.drag = p
		} else {
			e.dragging, e.drag = false, nil
		}
	}
	s := e.session
	if s == nil {
		return nil
	}
	if p, ok := f(s.path); ok {
		s.path = p
		return nil
	}
	e.session = nil
	e.log.Debug("edit session dropped", "path", s.path.String())
	return s.onCancel
}

// sessionStateLocked returns the state of the node being edited.
func (e *Editor) sessionStateLocked() *nodeState {
	p := e.session.path
	st := e.peekLocked(p)
	if st == nil {
		e.invariant("no state for edited node %s", p.String())
		st = e.rawStateLocked(p)
	}
	return st
}

// invariant reports an internal inconsistency: a panic in strict mode, a
// logged error otherwise.
func (e *Editor) invariant(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if debug.Strict() {
		panic("editor: " + msg)
	}
	e.log.Error("editor invariant violated", "detail", msg)
}
