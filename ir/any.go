package ir

import (
	"encoding/json"
	"fmt"
	"math"
)

// FromAny converts a decoded Go value (as produced by encoding/json or a
// YAML decoder) into a node tree. Maps are converted with sorted keys.
// Values with no JSON shape become CustomType nodes.
func FromAny(v any) *Node {
	switch x := v.(type) {
	case nil:
		return Null()
	case *Node:
		return x
	case bool:
		return FromBool(x)
	case string:
		return FromString(x)
	case json.Number:
		return FromNumber(x.String())
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return FromInt(int64(x))
	case int8:
		return FromInt(int64(x))
	case int16:
		return FromInt(int64(x))
	case int32:
		return FromInt(int64(x))
	case int64:
		return FromInt(x)
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return FromInt(int64(x))
	case uint16:
		return FromInt(int64(x))
	case uint32:
		return FromInt(int64(x))
	case uint64:
		return fromUint(x)
	case map[string]any:
		m := make(map[string]*Node, len(x))
		for k, vv := range x {
			m[k] = FromAny(vv)
		}
		return FromMap(m)
	case []any:
		vals := make([]*Node, len(x))
		for i := range x {
			vals[i] = FromAny(x[i])
		}
		return FromSlice(vals)
	default:
		return FromCustom(v)
	}
}

func fromFloat(f float64) *Node {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return FromInt(int64(f))
	}
	return FromFloat(f)
}

func fromUint(u uint64) *Node {
	if u <= math.MaxInt64 {
		return FromInt(int64(u))
	}
	return &Node{Type: NumberType, Number: fmt.Sprint(u)}
}

// ToAny converts a node tree into plain Go values: map[string]any,
// []any, string, bool, nil, int64, float64 or json.Number. Custom values
// are returned as is.
func ToAny(y *Node) any {
	if y == nil {
		return nil
	}
	switch y.Type {
	case NullType:
		return nil
	case BoolType:
		return y.Bool
	case StringType:
		return y.String
	case NumberType:
		switch {
		case y.Int64 != nil:
			return *y.Int64
		case y.Float64 != nil:
			return *y.Float64
		default:
			return json.Number(y.Number)
		}
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = ToAny(v)
		}
		return res
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i, f := range y.Fields {
			res[f] = ToAny(y.Values[i])
		}
		return res
	case CustomType:
		return y.Custom
	}
	return nil
}
