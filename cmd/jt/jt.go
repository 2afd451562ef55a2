package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jsontree/go-jsontree/config"
	"github.com/jsontree/go-jsontree/editor"
	"github.com/jsontree/go-jsontree/encode"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/parse"

	"github.com/scott-cotton/cli"
)

func jtMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.J && cfg.Y {
		return fmt.Errorf("%w: must specify at most one of -j[son] -y[aml]", cli.ErrUsage)
	}
	if cfg.Write && cfg.Out != "" {
		return fmt.Errorf("%w: -w and -o are exclusive", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// input is a document read from a file or stdin.
type input struct {
	name string
	doc  *ir.Node
}

// readInput reads the optional trailing file argument, or stdin.
func (cfg *MainConfig) readInput(cc *cli.Context, args []string) (*input, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%w: at most one input file", cli.ErrUsage)
	}
	name := "-"
	if len(args) == 1 {
		name = args[0]
	}
	var (
		d   []byte
		err error
	)
	if name == "-" {
		if cfg.Write {
			return nil, fmt.Errorf("%w: -w requires an input file", cli.ErrUsage)
		}
		d, err = io.ReadAll(cc.In)
	} else {
		d, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}
	doc, err := parse.Parse(d, cfg.parseOpts(filepath.Ext(name))...)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", name, err)
	}
	return &input{name: name, doc: doc}, nil
}

// editorConfig loads -config, or returns the defaults.
func (cfg *MainConfig) editorConfig() (*editor.Config, error) {
	if cfg.Config == "" {
		return &editor.Config{Log: theLog}, nil
	}
	c, err := config.Load(cfg.Config)
	if err != nil {
		return nil, err
	}
	res, err := c.Editor()
	if err != nil {
		return nil, fmt.Errorf("error in %s: %w", cfg.Config, err)
	}
	res.Log = theLog
	return res, nil
}

func (cfg *MainConfig) newEditor(in *input) (*editor.Editor, error) {
	ecfg, err := cfg.editorConfig()
	if err != nil {
		return nil, err
	}
	return editor.New(in.doc, ecfg), nil
}

func pathArg(s string) (kpath.Path, error) {
	p, err := kpath.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return p, nil
}

// edit runs f against an editor over the input and writes the outcome:
// the new document, a diff, or the input file rewritten in place.
func (cfg *MainConfig) edit(cc *cli.Context, in *input, f func(ctx context.Context, ed *editor.Editor) error) error {
	ed, err := cfg.newEditor(in)
	if err != nil {
		return err
	}
	if err := f(context.Background(), ed); err != nil {
		return err
	}
	return cfg.output(cc, in, ed.Document())
}

func (cfg *MainConfig) output(cc *cli.Context, in *input, doc *ir.Node) error {
	if cfg.Diff {
		_, err := io.WriteString(cc.Out, encode.Diff(in.doc, doc, cfg.colors(cc.Out)))
		return err
	}
	if cfg.Write {
		if err := writeFile(in.name, doc); err != nil {
			return fmt.Errorf("error writing %s: %w", in.name, err)
		}
		return nil
	}
	return cfg.encode(cc.Out, doc)
}

func (cfg *MainConfig) encode(w io.Writer, doc *ir.Node) error {
	if err := encode.Encode(doc, w, cfg.encOpts(w)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

// nodeErr prefers the node's error, which carries the user facing
// message, over the bare sentinel.
func nodeErr(n *editor.Node, err error) error {
	if err == nil {
		return nil
	}
	if ne := n.Error(); ne != nil {
		return fmt.Errorf("%s: %w", n.Path(), ne)
	}
	return fmt.Errorf("%s: %w", n.Path(), err)
}
