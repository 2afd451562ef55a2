// Package policy holds the predicates that govern what the user may do to
// a node: edit, delete, add, drag, rename and retype restrictions, the
// initial collapse state and search matching.
//
// Every predicate is a Filter over a resolve.Descriptor. Filters are
// built from constants, from a minimum depth or from an expression in the
// expr language evaluated against the node:
//
//	key        the node's key: a string, or an int for array elements
//	path       the key path as a list of strings and ints
//	level      the depth, 0 at the root
//	value      the node's value as plain data
//	size       the number of children, 1 for a leaf
//	type       object, array, string, number, boolean or null
//	parentType the type of the containing collection, "" at the root
//	collapsed  whether the node is collapsed
//	searchText the active search text
//	getpath(p) the value at key path p in the whole document
package policy
