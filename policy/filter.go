package policy

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/jsontree/go-jsontree/resolve"
)

// Filter is a predicate over a node.
type Filter func(d *resolve.Descriptor) bool

// Const returns a filter that always answers v.
func Const(v bool) Filter {
	return func(*resolve.Descriptor) bool { return v }
}

// MinDepth matches nodes at level n or deeper. MinDepth(0) matches every
// node.
func MinDepth(n int) Filter {
	return func(d *resolve.Descriptor) bool { return d.Level >= n }
}

func Not(f Filter) Filter {
	if f == nil {
		return Const(true)
	}
	return func(d *resolve.Descriptor) bool { return !f(d) }
}

// Any matches when at least one non-nil filter matches.
func Any(fs ...Filter) Filter {
	return func(d *resolve.Descriptor) bool {
		for _, f := range fs {
			if f != nil && f(d) {
				return true
			}
		}
		return false
	}
}

// Eval evaluates f, treating a nil filter as dflt.
func (f Filter) Eval(d *resolve.Descriptor, dflt bool) bool {
	if f == nil {
		return dflt
	}
	return f(d)
}

// Expr compiles a boolean expression into a filter. Evaluation errors
// count as no match.
func Expr(src string) (Filter, error) {
	prg, err := compile(src)
	if err != nil {
		return nil, err
	}
	return func(d *resolve.Descriptor) bool {
		return run(prg, src, NewEnv(d, ""))
	}, nil
}

// MustExpr is like Expr but panics on error.
func MustExpr(src string) Filter {
	f, err := Expr(src)
	if err != nil {
		panic(err)
	}
	return f
}

// FromValue builds a filter from a configuration value: a bool, an int
// depth, an expression string or a Filter.
func FromValue(v any) (Filter, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return Const(x), nil
	case int:
		return MinDepth(x), nil
	case int64:
		return MinDepth(int(x)), nil
	case uint64:
		return MinDepth(int(x)), nil
	case float64:
		return MinDepth(int(x)), nil
	case string:
		return Expr(x)
	case Filter:
		return x, nil
	case func(*resolve.Descriptor) bool:
		return Filter(x), nil
	}
	return nil, fmt.Errorf("cannot use %T as a node filter", v)
}

func compile(src string) (*vm.Program, error) {
	prg, err := expr.Compile(src, expr.Env(&Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", src, err)
	}
	return prg, nil
}

func run(prg *vm.Program, src string, env *Env) bool {
	res, err := expr.Run(prg, env)
	if err != nil {
		slog.Debug("filter expression failed", "expr", src, "error", err)
		return false
	}
	b, _ := res.(bool)
	return b
}

// Text compiles an expression whose result, formatted as text, is the
// display form of a node.
func Text(src string) (func(d *resolve.Descriptor) string, error) {
	prg, err := expr.Compile(src, expr.Env(&Env{}))
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", src, err)
	}
	return func(d *resolve.Descriptor) string {
		res, err := expr.Run(prg, NewEnv(d, ""))
		if err != nil {
			slog.Debug("text expression failed", "expr", src, "error", err)
			return ""
		}
		return fmt.Sprint(res)
	}, nil
}
