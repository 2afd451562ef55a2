package mutate

import (
	"fmt"

	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
)

// RenameKey changes the key of the object member at p to key, keeping
// its position among its siblings. Renaming to the current key is a
// no-op returning doc unchanged.
func RenameKey(doc *ir.Node, p kpath.Path, key string) (*Result, error) {
	last, ok := p.Last()
	if !ok {
		return nil, fmt.Errorf("%w: the root has no key", ErrInvalidPath)
	}
	parent, err := Get(doc, p.Parent())
	if err != nil {
		return nil, err
	}
	if parent.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: %s is a %s, not an object", ErrInvalidPath, p.Parent().String(), parent.Type)
	}
	i := parent.FieldIndex(last.String())
	if i < 0 {
		return nil, fmt.Errorf("%w: no %q in %s", ErrInvalidPath, last.String(), p.Parent().String())
	}
	if key == last.String() {
		return &Result{Doc: doc, Previous: parent, Value: parent}, nil
	}
	if parent.FieldIndex(key) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrKeyExists, key)
	}
	res := &Result{Previous: parent}
	doc, err = modify(doc, p.Parent(), 0, func(coll *ir.Node) (*ir.Node, error) {
		c := coll.ShallowCopy()
		c.Fields[i] = key
		res.Value = c
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	res.Doc = doc
	return res, nil
}
