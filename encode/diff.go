package encode

import (
	"github.com/jsontree/go-jsontree/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line oriented diff of the indented JSON text of from and
// to. With colors, insertions and deletions are highlighted; without, they
// are prefixed with "+" and "-".
func Diff(from, to *ir.Node, colors bool) string {
	a, b := MustString(from), MustString(to)
	dmp := diffpatch.New()
	ra, rb, lines := dmp.DiffLinesToRunes(a, b)
	diffs := dmp.DiffMainRunes(ra, rb, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)
	if colors {
		return dmp.DiffPrettyText(diffs)
	}
	var out []byte
	for _, d := range diffs {
		prefix := byte(' ')
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = '+'
		case diffpatch.DiffDelete:
			prefix = '-'
		}
		for _, ln := range splitLines(d.Text) {
			out = append(out, prefix, ' ')
			out = append(out, ln...)
			out = append(out, '\n')
		}
	}
	return string(out)
}

func splitLines(s string) []string {
	var res []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			res = append(res, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		res = append(res, s[start:])
	}
	return res
}
