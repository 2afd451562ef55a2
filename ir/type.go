package ir

import "fmt"

type Type int

const (
	NullType Type = iota
	NumberType
	StringType
	BoolType
	ObjectType
	ArrayType
	// CustomType holds an opaque host value (a date, a big integer, ...)
	// that has no JSON representation of its own.
	CustomType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		ObjectType: "object",
		ArrayType:  "array",
		StringType: "string",
		NumberType: "number",
		BoolType:   "boolean",
		NullType:   "null",
		CustomType: "custom",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, err := ParseType(string(d))
	if err != nil {
		return err
	}
	*t = tt
	return nil
}

// ParseType maps a type name as produced by Type.String back to a Type.
func ParseType(s string) (Type, error) {
	tt, ok := map[string]Type{
		"null":    NullType,
		"boolean": BoolType,
		"number":  NumberType,
		"string":  StringType,
		"array":   ArrayType,
		"object":  ObjectType,
		"custom":  CustomType,
	}[s]
	if !ok {
		return NullType, fmt.Errorf("unrecognized type %q", s)
	}
	return tt, nil
}

func Types() []Type {
	return []Type{
		NullType,
		NumberType,
		StringType,
		BoolType,
		ObjectType,
		ArrayType,
		CustomType,
	}
}

func (t Type) IsLeaf() bool {
	switch t {
	case ObjectType, ArrayType:
		return false
	default:
		return true
	}
}
