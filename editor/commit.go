package editor

import (
	"context"
	"errors"
	"time"

	"github.com/jsontree/go-jsontree/debug"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/mutate"
	"github.com/jsontree/go-jsontree/patch"
)

// proposal is a tentative change awaiting confirmation.
type proposal struct {
	change Change
	// wholeDoc makes a substituted value replace the whole document.
	wholeDoc bool
	// substitute recomputes the document with a substituted value.
	substitute func(v *ir.Node) (*ir.Node, error)
	patch      func(ch *Change) ([]patch.Op, error)
	// remap carries node state across the change.
	remap func(p kpath.Path) (kpath.Path, bool)
}

// commit computes a change with build against the current document,
// asks the confirmation hook about it and applies the verdict. Errors are
// shown on the node at at.
func (e *Editor) commit(ctx context.Context, at kpath.Path, build func(base *ir.Node) (*proposal, error)) error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrBusy
	}
	base, ver := e.doc, e.version
	pr, err := build(base)
	if err != nil {
		code, key := codeOf(err, CodeInvalidPath)
		ferr := e.failLocked(at, code, e.Translate(key, 0), err)
		e.mu.Unlock()
		return ferr
	}
	ch := &pr.change
	ch.Base = base
	e.busy = true
	st := e.rawStateLocked(at)
	st.pending = true
	e.mu.Unlock()

	if debug.Edit() {
		debug.Logf("confirming %s at %v\n", ch.Op, ch.Path)
	}
	verdict := Verdict{}
	var herr error
	if e.cfg.Confirm != nil {
		verdict, herr = e.cfg.Confirm(ctx, ch)
	}

	e.mu.Lock()
	e.busy = false
	st.pending = false
	code := rejectCode(ch.Op)
	if herr != nil {
		verdict = Verdict{Outcome: Reject, Message: herr.Error()}
	}
	if e.version != ver {
		ferr := e.failLocked(at, code, e.Translate(rejectKey(code), 0), ErrStale)
		e.mu.Unlock()
		return ferr
	}
	switch verdict.Outcome {
	case Reject:
		msg := verdict.Message
		if msg == "" {
			msg = e.Translate(rejectKey(code), 0)
		}
		cause := herr
		if cause == nil {
			cause = errors.New(msg)
		}
		ferr := e.failLocked(at, code, msg, cause)
		e.mu.Unlock()
		return ferr
	case Substitute:
		sv := verdict.Value
		if sv == nil {
			sv = ir.Null()
		}
		if pr.wholeDoc || pr.substitute == nil {
			ch.Doc = sv
			pr.remap = nil
			pr.patch = patchReplaceRoot
		} else {
			doc, err := pr.substitute(sv)
			if err != nil {
				c, key := codeOf(err, code)
				ferr := e.failLocked(at, c, e.Translate(key, 0), err)
				e.mu.Unlock()
				return ferr
			}
			ch.Doc = doc
			ch.Value = sv
		}
	}
	e.doc = ch.Doc
	e.version++
	var dropped func()
	if pr.remap != nil {
		dropped = e.remapLocked(pr.remap)
	}
	cancel := e.settleLocked()
	if pr.patch != nil {
		ops, err := pr.patch(ch)
		if err == nil {
			ch.Patch, err = patch.Encode(ops...)
		}
		if err != nil {
			e.log.Warn("encoding change patch", "path", ch.Path.String(), "error", err)
		}
	}
	onChange := e.cfg.OnChange
	e.log.Debug("change applied", "op", ch.Op, "path", ch.Path.String(), "outcome", verdict.Outcome)
	e.mu.Unlock()
	if dropped != nil {
		dropped()
	}
	if cancel != nil {
		cancel()
	}
	if onChange != nil {
		onChange(ch)
	}
	return nil
}

// rawStateLocked returns the state at p without seeding it.
func (e *Editor) rawStateLocked(p kpath.Path) *nodeState {
	k := p.String()
	st := e.nodes[k]
	if st == nil {
		st = &nodeState{path: p.Clone()}
		e.nodes[k] = st
	}
	return st
}

// failLocked records a node error that clears itself after the error
// TTL, and returns it. Nothing is recorded for a node that is not in the
// document.
func (e *Editor) failLocked(p kpath.Path, code Code, msg string, cause error) *Error {
	if msg == "" {
		msg = e.Translate(rejectKey(code), 0)
	}
	err := &Error{Code: code, Message: msg, Path: p.Clone(), Err: cause}
	e.log.Warn("node error", "path", p.String(), "code", string(code), "message", msg, "error", cause)
	if !e.existsLocked(p) {
		return err
	}
	st := e.rawStateLocked(p)
	st.err = err
	st.errGen++
	gen := st.errGen
	e.afterFunc(e.cfg.ErrorTTL, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if st.errGen == gen {
			st.err = nil
		}
	})
	return err
}

func (e *Editor) failKeyLocked(p kpath.Path, code Code, key string, cause error) *Error {
	return e.failLocked(p, code, e.Translate(key, 0), cause)
}

// ErrorTTL is how long node errors stay visible.
func (e *Editor) ErrorTTL() time.Duration {
	return e.cfg.ErrorTTL
}

func patchAdd(p kpath.Path) func(*Change) ([]patch.Op, error) {
	return func(ch *Change) ([]patch.Op, error) {
		op, err := patch.Add(p, ch.Value)
		return []patch.Op{op}, err
	}
}

func patchReplace(p kpath.Path) func(*Change) ([]patch.Op, error) {
	return func(ch *Change) ([]patch.Op, error) {
		op, err := patch.Replace(p, ch.Value)
		return []patch.Op{op}, err
	}
}

func patchRemove(p kpath.Path) func(*Change) ([]patch.Op, error) {
	return func(*Change) ([]patch.Op, error) {
		return []patch.Op{patch.Remove(p)}, nil
	}
}

func patchMove(from, to kpath.Path) func(*Change) ([]patch.Op, error) {
	return func(*Change) ([]patch.Op, error) {
		return []patch.Op{patch.Move(from, to)}, nil
	}
}

func patchReplaceRoot(ch *Change) ([]patch.Op, error) {
	op, err := patch.Replace(kpath.Path{}, ch.Doc)
	return []patch.Op{op}, err
}

// isArrayParent reports whether the parent of p in doc is an array.
func isArrayParent(doc *ir.Node, p kpath.Path) bool {
	parent, err := mutate.Get(doc, p.Parent())
	return err == nil && parent.Type == ir.ArrayType
}

// deleteShift maps a path valid before removing p to one valid after.
func deleteShift(q, p kpath.Path, array bool) (kpath.Path, bool) {
	if q.IsWithin(p) {
		return nil, false
	}
	if !array {
		return q, true
	}
	return shiftIndex(q, p, -1, false), true
}

// insertShift maps a path valid before inserting p to one valid after.
func insertShift(q, p kpath.Path, array bool) kpath.Path {
	if !array {
		return q
	}
	return shiftIndex(q, p, 1, true)
}

// shiftIndex moves q by delta when it lies in the same array as p at a
// later index (or the same index when inclusive).
func shiftIndex(q, p kpath.Path, delta int, inclusive bool) kpath.Path {
	n := len(p) - 1
	if len(q) <= n || !q.HasPrefix(p[:n]) {
		return q
	}
	qi, ok1 := q[n].AsIndex()
	pi, ok2 := p[n].AsIndex()
	if !ok1 || !ok2 || qi < pi || (qi == pi && !inclusive) {
		return q
	}
	res := q.Clone()
	res[n] = kpath.Index(qi + delta)
	return res
}

func deleteRemap(base *ir.Node, p kpath.Path) func(kpath.Path) (kpath.Path, bool) {
	array := isArrayParent(base, p)
	return func(q kpath.Path) (kpath.Path, bool) {
		return deleteShift(q, p, array)
	}
}

func insertRemap(base *ir.Node, p kpath.Path) func(kpath.Path) (kpath.Path, bool) {
	array := isArrayParent(base, p)
	return func(q kpath.Path) (kpath.Path, bool) {
		return insertShift(q, p, array), true
	}
}

func renameRemap(from, to kpath.Path) func(kpath.Path) (kpath.Path, bool) {
	return func(q kpath.Path) (kpath.Path, bool) {
		if !q.IsWithin(from) {
			return q, true
		}
		return to.Append(q[len(from):]...), true
	}
}

// moveRemap carries the moved subtree's state to its new place and
// shifts the siblings at both ends.
func moveRemap(base, moved *ir.Node, from, to kpath.Path) func(kpath.Path) (kpath.Path, bool) {
	fromArray := isArrayParent(base, from)
	toArray := isArrayParent(moved, to)
	return func(q kpath.Path) (kpath.Path, bool) {
		if q.IsWithin(from) {
			return to.Append(q[len(from):]...), true
		}
		q, _ = deleteShift(q, from, fromArray)
		return insertShift(q, to, toArray), true
	}
}
