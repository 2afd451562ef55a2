// Package editor coordinates interactive editing of a document.
//
// An Editor owns the current document version and the coordination state
// shared by every node: the single edit session, the drag session, the
// transient collapse override and the search text. Nodes are addressed
// by path through Node handles; a handle holds no state of its own, so a
// handle obtained before a mutation stays usable as long as its path
// still resolves.
//
// Mutations are computed tentatively and passed to the configured
// confirmation hook, which may accept them, substitute a value or reject
// them. The document is only replaced once the hook has answered. While
// a change awaits its answer, further changes fail with ErrBusy.
//
// All methods are safe for concurrent use.
package editor
