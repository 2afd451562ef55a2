package policy

import (
	"github.com/jsontree/go-jsontree/filter"
	"github.com/jsontree/go-jsontree/resolve"
)

// SearchExpr compiles a search expression. The expression sees the
// search text as searchText.
func SearchExpr(src string) (filter.Func, error) {
	prg, err := compile(src)
	if err != nil {
		return nil, err
	}
	return func(d *resolve.Descriptor, text string) bool {
		return run(prg, src, NewEnv(d, text))
	}, nil
}
