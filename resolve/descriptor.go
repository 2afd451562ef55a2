package resolve

import (
	"errors"
	"fmt"

	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
)

var ErrNotFound = errors.New("no node at path")

// Descriptor is the derived view of one path in one document version. It
// is created fresh on every pass and never stored across versions.
type Descriptor struct {
	Key   kpath.Key
	Path  kpath.Path
	Level int
	Value *ir.Node
	// Parent is the containing collection, for inspection only. It is nil
	// at the root.
	Parent *ir.Node
	// Size is the child count of a collection and 1 for a leaf.
	Size int
	// Doc is the whole document this descriptor was derived from.
	Doc *ir.Node
	// Collapsed is the node's effective collapse state when the caller
	// knows it.
	Collapsed bool
}

// Root derives the descriptor of the document root, named rootName.
func Root(doc *ir.Node, rootName string) *Descriptor {
	return &Descriptor{
		Key:   kpath.Field(rootName),
		Path:  kpath.Path{},
		Value: doc,
		Size:  doc.Size(),
		Doc:   doc,
	}
}

// Child derives the descriptor of the i'th child in document order.
func (d *Descriptor) Child(i int) *Descriptor {
	v := d.Value
	var k kpath.Key
	if v.Type == ir.ObjectType {
		k = kpath.Field(v.Fields[i])
	} else {
		k = kpath.Index(i)
	}
	c := v.Values[i]
	return &Descriptor{
		Key:    k,
		Path:   d.Path.Append(k),
		Level:  d.Level + 1,
		Value:  c,
		Parent: v,
		Size:   c.Size(),
		Doc:    d.Doc,
	}
}

// Children derives the descriptors of all children in document order.
func (d *Descriptor) Children() []*Descriptor {
	n := d.Value.Len()
	res := make([]*Descriptor, n)
	for i := range n {
		res[i] = d.Child(i)
	}
	return res
}

// IsArrayElement reports whether the node's parent is an array.
func (d *Descriptor) IsArrayElement() bool {
	return d.Parent != nil && d.Parent.Type == ir.ArrayType
}

// IsRoot reports whether d is the document root.
func (d *Descriptor) IsRoot() bool {
	return len(d.Path) == 0
}

// At derives the descriptor at p, walking from the root so every
// attribute reflects doc.
func At(doc *ir.Node, p kpath.Path, rootName string) (*Descriptor, error) {
	d := Root(doc, rootName)
	for depth, k := range p {
		i := ChildIndex(d.Value, k)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q at %q", ErrNotFound, k.String(), p[:depth].String())
		}
		d = d.Child(i)
	}
	return d, nil
}

// ChildIndex locates k among the children of v: by field name in an
// object (an index key names its decimal field) and by position in an
// array (a numeric field key is accepted). It returns -1 when there is no
// such child.
func ChildIndex(v *ir.Node, k kpath.Key) int {
	switch v.Type {
	case ir.ObjectType:
		return v.FieldIndex(k.String())
	case ir.ArrayType:
		i, ok := k.AsIndex()
		if !ok || i >= len(v.Values) {
			return -1
		}
		return i
	}
	return -1
}
