// Package patch converts editor changes to RFC 6902 JSON Patch documents
// and applies JSON Patch and JSON Merge Patch documents to a node tree.
package patch

import (
	"encoding/json"
	"fmt"
	"slices"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/jsontree/go-jsontree/encode"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/parse"
)

// Op is one JSON Patch operation.
type Op struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

func Add(p kpath.Path, v *ir.Node) (Op, error) {
	return valueOp("add", p, v)
}

func Replace(p kpath.Path, v *ir.Node) (Op, error) {
	return valueOp("replace", p, v)
}

func Remove(p kpath.Path) Op {
	return Op{Op: "remove", Path: p.Pointer()}
}

func Move(from, to kpath.Path) Op {
	return Op{Op: "move", From: from.Pointer(), Path: to.Pointer()}
}

func valueOp(name string, p kpath.Path, v *ir.Node) (Op, error) {
	d, err := encode.MarshalJSON(v)
	if err != nil {
		return Op{}, err
	}
	return Op{Op: name, Path: p.Pointer(), Value: d}, nil
}

// Encode returns the JSON Patch document made of ops.
func Encode(ops ...Op) ([]byte, error) {
	if ops == nil {
		ops = []Op{}
	}
	return json.Marshal(ops)
}

// Apply applies the JSON Patch document p to doc. Members of objects that
// exist in doc keep their order; members the patch adds come after them.
func Apply(doc *ir.Node, p []byte) (*ir.Node, error) {
	ops, err := jsonpatch.DecodePatch(p)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding json patch: %w", parse.ErrParse, err)
	}
	d, err := encode.MarshalJSON(doc)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(d)
	if err != nil {
		return nil, fmt.Errorf("applying json patch: %w", err)
	}
	return reparse(out, doc)
}

// Merge applies the JSON Merge Patch document p to doc.
func Merge(doc *ir.Node, p []byte) (*ir.Node, error) {
	d, err := encode.MarshalJSON(doc)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, p)
	if err != nil {
		return nil, fmt.Errorf("applying merge patch: %w", err)
	}
	return reparse(out, doc)
}

// MergeDiff returns the JSON Merge Patch document turning from into to.
func MergeDiff(from, to *ir.Node) ([]byte, error) {
	a, err := encode.MarshalJSON(from)
	if err != nil {
		return nil, err
	}
	b, err := encode.MarshalJSON(to)
	if err != nil {
		return nil, err
	}
	return jsonpatch.CreateMergePatch(a, b)
}

// Equal reports whether a and b are the same JSON document, ignoring
// object member order.
func Equal(a, b *ir.Node) bool {
	da, err := encode.MarshalJSON(a)
	if err != nil {
		return false
	}
	db, err := encode.MarshalJSON(b)
	if err != nil {
		return false
	}
	return jsonpatch.Equal(da, db)
}

func reparse(d []byte, like *ir.Node) (*ir.Node, error) {
	n, err := parse.Parse(d, parse.ParseJSON())
	if err != nil {
		return nil, err
	}
	return Reorder(n, like), nil
}

// Reorder returns n with the members of each object ordered as in the
// corresponding object of like, following array elements by index.
func Reorder(n, like *ir.Node) *ir.Node {
	if n == nil || like == nil || n.Type != like.Type {
		return n
	}
	switch n.Type {
	case ir.ArrayType:
		res := n.ShallowCopy()
		for i := range res.Values {
			if i < len(like.Values) {
				res.Values[i] = Reorder(res.Values[i], like.Values[i])
			}
		}
		return res
	case ir.ObjectType:
		idx := make([]int, len(n.Fields))
		for i, f := range n.Fields {
			idx[i] = like.FieldIndex(f)
			if idx[i] < 0 {
				idx[i] = len(like.Fields) + i
			}
		}
		order := make([]int, len(n.Fields))
		for i := range order {
			order[i] = i
		}
		slices.SortStableFunc(order, func(a, b int) int { return idx[a] - idx[b] })
		kvs := make([]ir.KeyVal, len(order))
		for i, j := range order {
			v := n.Values[j]
			if k := like.FieldIndex(n.Fields[j]); k >= 0 {
				v = Reorder(v, like.Values[k])
			}
			kvs[i] = ir.KeyVal{Key: n.Fields[j], Val: v}
		}
		return ir.FromKeyVals(kvs)
	}
	return n
}

// Decode parses a JSON Patch document into its operations.
func Decode(p []byte) ([]Op, error) {
	var ops []Op
	if err := json.Unmarshal(p, &ops); err != nil {
		return nil, fmt.Errorf("%w: decoding json patch: %w", parse.ErrParse, err)
	}
	return ops, nil
}
