package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jsontree/go-jsontree/ir"
)

// Encode writes node as JSON. Object keys are written in document order.
// Custom values are written as their JSON encoding when they have one and
// as a quoted string otherwise.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	o := &encodeOpts{}
	for _, f := range opts {
		f(o)
	}
	es := &encState{opts: o, buf: &bytes.Buffer{}}
	if err := es.encode(node, 0); err != nil {
		return err
	}
	if o.indent != "" {
		es.buf.WriteByte('\n')
	}
	_, err := w.Write(es.buf.Bytes())
	return err
}

// MarshalJSON returns the compact JSON encoding of node.
func MarshalJSON(node *ir.Node) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := Encode(node, buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustString returns the indented JSON text of node, panicking on error.
func MustString(node *ir.Node) string {
	buf := &bytes.Buffer{}
	if err := Encode(node, buf, EncodeIndent("  ")); err != nil {
		panic(err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

type encState struct {
	opts *encodeOpts
	buf  *bytes.Buffer
}

func (es *encState) newline(depth int) {
	if es.opts.indent == "" {
		return
	}
	es.buf.WriteByte('\n')
	for range depth {
		es.buf.WriteString(es.opts.indent)
	}
}

func (es *encState) sep(t ir.Type, s string) {
	es.buf.WriteString(es.opts.colors.Color(t, SepColor)(s))
}

func (es *encState) encode(node *ir.Node, depth int) error {
	if node == nil {
		return fmt.Errorf("cannot encode nil node")
	}
	switch node.Type {
	case ir.ObjectType:
		if len(node.Fields) != len(node.Values) {
			return fmt.Errorf("%w: %d fields for %d values", ir.ErrBadShape, len(node.Fields), len(node.Values))
		}
		es.sep(node.Type, "{")
		for i, f := range node.Fields {
			if i > 0 {
				es.sep(node.Type, ",")
			}
			es.newline(depth + 1)
			es.buf.WriteString(es.opts.colors.Color(node.Type, FieldColor)(quoteString(f)))
			es.sep(node.Type, ":")
			if es.opts.indent != "" {
				es.buf.WriteByte(' ')
			}
			if err := es.encode(node.Values[i], depth+1); err != nil {
				return err
			}
		}
		if len(node.Fields) > 0 {
			es.newline(depth)
		}
		es.sep(node.Type, "}")
		return nil
	case ir.ArrayType:
		es.sep(node.Type, "[")
		for i, v := range node.Values {
			if i > 0 {
				es.sep(node.Type, ",")
			}
			es.newline(depth + 1)
			if err := es.encode(v, depth+1); err != nil {
				return err
			}
		}
		if len(node.Values) > 0 {
			es.newline(depth)
		}
		es.sep(node.Type, "]")
		return nil
	}
	es.buf.WriteString(es.opts.colors.Color(node.Type, ValueColor)(Scalar(node)))
	return nil
}

// Scalar returns the JSON text of a leaf node.
func Scalar(node *ir.Node) string {
	switch node.Type {
	case ir.NullType:
		return "null"
	case ir.BoolType:
		if node.Bool {
			return "true"
		}
		return "false"
	case ir.NumberType:
		if node.Float64 != nil && (math.IsNaN(*node.Float64) || math.IsInf(*node.Float64, 0)) {
			return "null"
		}
		return node.NumberText()
	case ir.StringType:
		return quoteString(node.String)
	case ir.CustomType:
		d, err := json.Marshal(node.Custom)
		if err != nil {
			return quoteString(fmt.Sprint(node.Custom))
		}
		return string(d)
	}
	return "null"
}

func quoteString(s string) string {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
