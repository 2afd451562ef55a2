package debug

import (
	"fmt"
	"os"

	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
)

func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case *ir.Node:
			if x == nil {
				args[i] = "<nil>"
				continue
			}
			args[i] = fmt.Sprintf("%s(%v)", x.Type, summary(x))
		case kpath.Path:
			args[i] = "$" + x.String()
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}

func summary(x *ir.Node) any {
	switch x.Type {
	case ir.StringType:
		return x.String
	case ir.NumberType:
		return x.NumberText()
	case ir.BoolType:
		return x.Bool
	case ir.ObjectType, ir.ArrayType:
		return len(x.Values)
	case ir.CustomType:
		return x.Custom
	}
	return nil
}
