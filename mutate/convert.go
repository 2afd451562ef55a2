package mutate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jsontree/go-jsontree/encode"
	"github.com/jsontree/go-jsontree/ir"
)

// WrapKey is the key a scalar is stored under when it is converted to an
// object.
const WrapKey = "value"

// Convert produces the value v takes when its type is changed to t. When
// dflt is non-nil and of type t it is used instead of converting.
//
//	string   the text form of v
//	number   the numeric reading of v, 0 when it has none
//	boolean  the truth of v
//	null     null
//	object   v itself if an object, array elements keyed by index, a
//	         scalar wrapped under WrapKey, null becomes {}
//	array    v itself if an array, object values in order, a scalar
//	         wrapped in a one element array, null becomes []
func Convert(v *ir.Node, t ir.Type, dflt *ir.Node) (*ir.Node, error) {
	if dflt != nil && dflt.Type == t {
		return dflt.Clone(), nil
	}
	if v == nil {
		v = ir.Null()
	}
	switch t {
	case ir.StringType:
		return ir.FromString(Text(v)), nil
	case ir.NumberType:
		return toNumber(v), nil
	case ir.BoolType:
		return ir.FromBool(ir.Truth(v)), nil
	case ir.NullType:
		return ir.Null(), nil
	case ir.ObjectType:
		switch v.Type {
		case ir.ObjectType:
			return v, nil
		case ir.ArrayType:
			kvs := make([]ir.KeyVal, len(v.Values))
			for i, c := range v.Values {
				kvs[i] = ir.KeyVal{Key: strconv.Itoa(i), Val: c}
			}
			return ir.FromKeyVals(kvs), nil
		case ir.NullType:
			return ir.FromKeyVals(nil), nil
		}
		return ir.FromKeyVals([]ir.KeyVal{{Key: WrapKey, Val: v}}), nil
	case ir.ArrayType:
		switch v.Type {
		case ir.ArrayType:
			return v, nil
		case ir.ObjectType:
			return ir.FromSlice(append([]*ir.Node(nil), v.Values...)), nil
		case ir.NullType:
			return ir.FromSlice(nil), nil
		}
		return ir.FromSlice([]*ir.Node{v}), nil
	}
	return nil, fmt.Errorf("%w: cannot convert to %s", ir.ErrUnsupported, t)
}

// Text is the plain text form of v: strings unquoted, other scalars as
// written in JSON, collections as compact JSON.
func Text(v *ir.Node) string {
	switch v.Type {
	case ir.StringType:
		return v.String
	case ir.ObjectType, ir.ArrayType:
		d, err := encode.MarshalJSON(v)
		if err != nil {
			return ""
		}
		return string(d)
	case ir.CustomType:
		return fmt.Sprint(v.Custom)
	}
	return encode.Scalar(v)
}

func toNumber(v *ir.Node) *ir.Node {
	switch v.Type {
	case ir.NumberType:
		return v
	case ir.BoolType:
		if v.Bool {
			return ir.FromInt(1)
		}
		return ir.FromInt(0)
	case ir.StringType:
		s := strings.TrimSpace(v.String)
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return ir.FromNumber(s)
		}
	}
	return ir.FromInt(0)
}
