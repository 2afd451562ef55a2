package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jsontree/go-jsontree/editor"

	"github.com/scott-cotton/cli"
)

func next(cfg *NextConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Next.Parse(cc, args)
	if err != nil {
		cfg.Next.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: next requires a path", cli.ErrUsage)
	}
	p, err := pathArg(args[0])
	if err != nil {
		return err
	}
	in, err := cfg.readInput(cc, args[1:])
	if err != nil {
		return err
	}
	ed, err := cfg.newEditor(in)
	if err != nil {
		return err
	}
	ed.SetSearch(cfg.Search)
	mode := editor.EditingValue
	if cfg.Key {
		mode = editor.EditingKey
	}
	n := ed.Node(p)
	if err := n.StartEdit(mode, nil); err != nil {
		return nodeErr(n, err)
	}
	to, err := ed.Tab(context.Background(), cfg.Reverse)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cc.Out, "$"+prefixDot(to.String())+"\n")
	return err
}

func prefixDot(s string) string {
	if s == "" || s[0] == '[' {
		return s
	}
	return "." + s
}
