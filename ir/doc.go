// Package ir provides the in-memory representation of documents edited by
// the tree editor.
//
// # Overview
//
// A document is a tree of *Node values: null, boolean, number, string,
// object (ordered key/value pairs), array, and opaque custom values
// supplied by the host (dates, big integers and the like).
//
// Documents are immutable values. Nothing in this module mutates a node
// that is reachable from a document version; mutations build new nodes
// along the changed path and share every untouched subtree with the
// previous version. For that reason nodes carry no parent back-reference:
// a shared subtree may belong to several document versions at once.
// Parent information is derived per pass by the resolve package.
//
// # Node Types
//
//   - NullType: null value
//   - BoolType: boolean
//   - NumberType: Int64, Float64, or the literal text in Number
//   - StringType: string value
//   - ArrayType: ordered list of nodes in Values
//   - ObjectType: Fields[i] is the key of Values[i]; keys are unique
//   - CustomType: host value in Custom, rendered and compared opaquely
//
// # Creating Nodes
//
//	obj := ir.FromKeyVals([]ir.KeyVal{
//	    {Key: "a", Val: ir.FromInt(1)},
//	    {Key: "b", Val: ir.FromSlice([]*ir.Node{ir.FromString("x")})},
//	})
//
// # Comparison and Hashing
//
//	ir.Equal(a, b)
//	a.Hash()
//
// # Thread Safety
//
// Since document nodes are never mutated, a document version may be read
// from any number of goroutines.
package ir
