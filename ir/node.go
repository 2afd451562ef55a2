package ir

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Node is one value of a document. Nodes are treated as immutable once
// they are part of a document: mutation produces new nodes along the
// changed path and shares everything else, so a node carries no parent
// back-reference.
type Node struct {
	Type Type

	// Fields[i] is the key of Values[i] for ObjectType.
	Fields []string
	Values []*Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64

	Custom any
}

func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Type = y.Type
	dst.Fields = slices.Clone(y.Fields)
	dst.Values = make([]*Node, len(y.Values))
	for i, yv := range y.Values {
		dst.Values[i] = yv.Clone()
	}
	dst.String = y.String
	dst.Number = y.Number
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	dst.Bool = y.Bool
	dst.Custom = y.Custom
	return dst
}

// ShallowCopy copies y and its child slices but not the children
// themselves.
func (y *Node) ShallowCopy() *Node {
	res := *y
	res.Fields = slices.Clone(y.Fields)
	res.Values = slices.Clone(y.Values)
	return &res
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

// FromNumber parses s as an integer, then as a float, and keeps the
// literal text as a fallback.
func FromNumber(s string) *Node {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FromInt(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FromFloat(f)
	}
	return &Node{Type: NumberType, Number: s}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func FromCustom(v any) *Node {
	return &Node{Type: CustomType, Custom: v}
}

func Null() *Node {
	return &Node{Type: NullType}
}

type KeyVal struct {
	Key string
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]string, len(kvs)),
		Values: make([]*Node, len(kvs)),
	}
	for i := range kvs {
		res.Fields[i] = kvs[i].Key
		res.Values[i] = kvs[i].Val
	}
	return res
}

// FromMap builds an object with keys in sorted order.
func FromMap(yMap map[string]*Node) *Node {
	keys := slices.Sorted(maps.Keys(yMap))
	kvs := make([]KeyVal, len(keys))
	for i, k := range keys {
		kvs[i] = KeyVal{Key: k, Val: yMap[k]}
	}
	return FromKeyVals(kvs)
}

func FromSlice(ySlice []*Node) *Node {
	if ySlice == nil {
		ySlice = []*Node{}
	}
	return &Node{
		Type:   ArrayType,
		Values: ySlice,
	}
}

func ToMap(node *Node) map[string]*Node {
	if node.Type != ObjectType {
		return nil
	}
	res := make(map[string]*Node, len(node.Fields))
	for i, f := range node.Fields {
		res[f] = node.Values[i]
	}
	return res
}

func Get(y *Node, field string) *Node {
	i := y.FieldIndex(field)
	if i < 0 {
		return nil
	}
	return y.Values[i]
}

// FieldIndex returns the position of field in an object, or -1.
func (y *Node) FieldIndex(field string) int {
	if y == nil || y.Type != ObjectType {
		return -1
	}
	return slices.Index(y.Fields, field)
}

// IsCollection reports whether y is an object or an array.
func (y *Node) IsCollection() bool {
	return y != nil && (y.Type == ObjectType || y.Type == ArrayType)
}

// Len is the number of children of a collection and 0 otherwise.
func (y *Node) Len() int {
	if !y.IsCollection() {
		return 0
	}
	return len(y.Values)
}

// Size is the descriptor size: the child count of a collection, 1 for a
// leaf.
func (y *Node) Size() int {
	if y.IsCollection() {
		return len(y.Values)
	}
	return 1
}

// ChildKey returns the key text of child i as it is displayed: the field
// name of an object, the decimal index of an array.
func (y *Node) ChildKey(i int) string {
	if y.Type == ObjectType {
		return y.Fields[i]
	}
	return strconv.Itoa(i)
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

// Check validates the structural constraints of the tree rooted at y.
func (y *Node) Check() error {
	return y.Visit(func(n *Node, isPost bool) (bool, error) {
		if isPost {
			return false, nil
		}
		if n == nil {
			return false, fmt.Errorf("%w: nil node", ErrBadShape)
		}
		switch n.Type {
		case ObjectType:
			if len(n.Fields) != len(n.Values) {
				return false, fmt.Errorf("%w: %d fields for %d values", ErrBadShape, len(n.Fields), len(n.Values))
			}
			seen := make(map[string]bool, len(n.Fields))
			for _, f := range n.Fields {
				if seen[f] {
					return false, fmt.Errorf("%w: duplicate field %q", ErrBadShape, f)
				}
				seen[f] = true
			}
		case ArrayType:
			if len(n.Fields) != 0 {
				return false, fmt.Errorf("%w: array with fields", ErrBadShape)
			}
		}
		return true, nil
	})
}

// NumberText is the decimal text form of a number node.
func (y *Node) NumberText() string {
	switch {
	case y.Int64 != nil:
		return strconv.FormatInt(*y.Int64, 10)
	case y.Float64 != nil:
		return strconv.FormatFloat(*y.Float64, 'f', -1, 64)
	default:
		return y.Number
	}
}

// Float returns the numeric value of a number node.
func (y *Node) Float() (float64, bool) {
	switch {
	case y.Int64 != nil:
		return float64(*y.Int64), true
	case y.Float64 != nil:
		return *y.Float64, true
	}
	f, err := strconv.ParseFloat(y.Number, 64)
	return f, err == nil
}
