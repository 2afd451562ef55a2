// Package mutate applies edits to an immutable document. Every operation
// returns a new root; only the nodes on the path to the change are
// copied and the rest of the tree is shared with the input.
package mutate
