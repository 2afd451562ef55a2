package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jsontree/go-jsontree/format"
	"github.com/jsontree/go-jsontree/ir"

	"github.com/goccy/go-yaml"
)

// Parse decodes a single document. JSON is the default format. Object
// key order is preserved in both formats. All failures wrap ErrParse.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	o := &parseOpts{}
	for _, f := range opts {
		f(o)
	}
	switch o.format {
	case format.YAMLFormat:
		return parseYAML(d)
	default:
		return parseJSON(d)
	}
}

func parseJSON(d []byte) (*ir.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	res, err := decodeJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data at offset %d", ErrParse, dec.InputOffset())
	}
	return res, nil
}

func decodeJSON(dec *json.Decoder) (*ir.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch x := tok.(type) {
	case json.Delim:
		switch x {
		case '{':
			res := &ir.Node{Type: ir.ObjectType, Fields: []string{}, Values: []*ir.Node{}}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key %v is not a string", kt)
				}
				if res.FieldIndex(key) >= 0 {
					return nil, fmt.Errorf("duplicate key %q at offset %d", key, dec.InputOffset())
				}
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				res.Fields = append(res.Fields, key)
				res.Values = append(res.Values, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return res, nil
		case '[':
			res := ir.FromSlice(nil)
			for dec.More() {
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				res.Values = append(res.Values, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return res, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q at offset %d", x, dec.InputOffset())
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(x), nil
	case string:
		return ir.FromString(x), nil
	case json.Number:
		return ir.FromNumber(x.String()), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func parseYAML(d []byte) (*ir.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return FromYAMLValue(v), nil
}

// FromYAMLValue converts a value decoded by go-yaml with ordered maps into
// a node tree.
func FromYAMLValue(v any) *ir.Node {
	switch x := v.(type) {
	case yaml.MapSlice:
		kvs := make([]ir.KeyVal, 0, len(x))
		for _, item := range x {
			kvs = append(kvs, ir.KeyVal{Key: fmt.Sprint(item.Key), Val: FromYAMLValue(item.Value)})
		}
		return ir.FromKeyVals(kvs)
	case []any:
		vals := make([]*ir.Node, len(x))
		for i := range x {
			vals[i] = FromYAMLValue(x[i])
		}
		return ir.FromSlice(vals)
	default:
		return ir.FromAny(v)
	}
}
