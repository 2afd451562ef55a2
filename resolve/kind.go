package resolve

import "github.com/jsontree/go-jsontree/ir"

// Kind is the primitive classification of a value.
type Kind int

const (
	Invalid Kind = iota
	Object
	Array
	String
	Number
	Boolean
	Null
)

func (k Kind) String() string {
	switch k {
	case Object:
		return "object"
	case Array:
		return "array"
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Null:
		return "null"
	}
	return "invalid"
}

func (k Kind) IsCollection() bool {
	return k == Object || k == Array
}

// Classify inspects the primitive type of v. Anything that is not JSON
// shaped is Invalid.
func Classify(v *ir.Node) Kind {
	if v == nil {
		return Invalid
	}
	switch v.Type {
	case ir.ObjectType:
		return Object
	case ir.ArrayType:
		return Array
	case ir.StringType:
		return String
	case ir.NumberType:
		return Number
	case ir.BoolType:
		return Boolean
	case ir.NullType:
		return Null
	}
	return Invalid
}

// ValueKinds are the kinds offered when changing a value's type.
func ValueKinds() []Kind {
	return []Kind{String, Number, Boolean, Null, Object, Array}
}
