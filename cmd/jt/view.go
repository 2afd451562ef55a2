package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsontree/go-jsontree/editor"
	"github.com/jsontree/go-jsontree/encode"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/policy"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		cfg.View.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	in, err := cfg.readInput(cc, args)
	if err != nil {
		return err
	}
	ecfg, err := cfg.editorConfig()
	if err != nil {
		return err
	}
	if cfg.Depth >= 0 {
		ecfg.Collapse = policy.MinDepth(cfg.Depth)
	}
	ed := editor.New(in.doc, ecfg)
	ed.SetSearch(cfg.Search)
	var colors *encode.Colors
	if cfg.colors(cc.Out) {
		colors = encode.NewColors()
	}
	return writeRows(cc.Out, ed.Rows(), colors, !cfg.Plain)
}

func writeRows(w io.Writer, rows []editor.Row, colors *encode.Colors, guides bool) error {
	for i := range rows {
		if _, err := io.WriteString(w, rowLine(&rows[i], colors, guides)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func rowLine(r *editor.Row, colors *encode.Colors, guides bool) string {
	t := r.Value.Type
	b := &strings.Builder{}
	b.WriteString(strings.Repeat("  ", r.Level))
	if guides {
		switch {
		case !r.Collection:
			b.WriteString("  ")
		case r.Collapsed:
			b.WriteString(colors.Color(t, encode.SepColor)("▸ "))
		default:
			b.WriteString(colors.Color(t, encode.SepColor)("▾ "))
		}
	}
	if !r.HideKey {
		b.WriteString(colors.Color(t, encode.FieldColor)(r.Key))
		b.WriteString(colors.Color(t, encode.SepColor)(": "))
	}
	if r.Collection {
		lb, rb := "{", "}"
		if t == ir.ArrayType {
			lb, rb = "[", "]"
		}
		fmt.Fprintf(b, "%s%s%s", lb, r.Count, rb)
	} else {
		b.WriteString(colors.Color(t, encode.ValueColor)(r.Text))
	}
	if r.Type != r.Kind.String() {
		b.WriteString(colors.Color(t, encode.MarkColor)(" (" + r.Type + ")"))
	}
	if r.Error != nil {
		b.WriteString(colors.Color(t, encode.ErrorColor)(" ! " + r.Error.Message))
	}
	return b.String()
}
