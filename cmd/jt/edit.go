package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jsontree/go-jsontree/editor"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/mutate"
	"github.com/jsontree/go-jsontree/parse"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires a path", cli.ErrUsage)
	}
	p, err := pathArg(args[0])
	if err != nil {
		return err
	}
	in, err := cfg.readInput(cc, args[1:])
	if err != nil {
		return err
	}
	v, err := mutate.Get(in.doc, p)
	if err != nil {
		return err
	}
	return cfg.encode(cc.Out, v)
}

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		cfg.Set.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: set requires a path and a value", cli.ErrUsage)
	}
	p, err := pathArg(args[0])
	if err != nil {
		return err
	}
	var v *ir.Node
	if cfg.Text {
		v = ir.FromString(args[1])
	} else {
		v, err = parse.Parse([]byte(args[1]), parse.ParseJSON())
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	in, err := cfg.readInput(cc, args[2:])
	if err != nil {
		return err
	}
	return cfg.edit(cc, in, func(ctx context.Context, ed *editor.Editor) error {
		n := ed.Node(p)
		if err := n.StartEdit(editor.EditingValue, nil); err != nil {
			return nodeErr(n, err)
		}
		if err := n.SetDraft(v); err != nil {
			return nodeErr(n, err)
		}
		return nodeErr(n, n.Confirm(ctx))
	})
}

func add(cfg *AddConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Add.Parse(cc, args)
	if err != nil {
		cfg.Add.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: add requires a collection path", cli.ErrUsage)
	}
	p, err := pathArg(args[0])
	if err != nil {
		return err
	}
	var v *ir.Node
	if cfg.Value != "" {
		v, err = parse.Parse([]byte(cfg.Value), parse.ParseJSON())
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	in, err := cfg.readInput(cc, args[1:])
	if err != nil {
		return err
	}
	return cfg.edit(cc, in, func(ctx context.Context, ed *editor.Editor) error {
		n := ed.Node(p)
		parent, err := n.Value()
		if err != nil {
			return nodeErr(n, err)
		}
		var child kpath.Path
		switch parent.Type {
		case ir.ArrayType:
			child = p.Append(kpath.Index(parent.Len()))
		case ir.ObjectType:
			if cfg.Key == "" {
				return fmt.Errorf("%w: adding to an object requires -key", cli.ErrUsage)
			}
			child = p.Append(kpath.Field(cfg.Key))
		default:
			return fmt.Errorf("%s is a %s, not a collection", p, parent.Type)
		}
		if err := n.Add(ctx, cfg.Key); err != nil {
			return nodeErr(n, err)
		}
		if v == nil {
			return nil
		}
		c := ed.Node(child)
		return nodeErr(c, c.Update(ctx, v))
	})
}

func del(cfg *DeleteConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Delete.Parse(cc, args)
	if err != nil {
		cfg.Delete.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: delete requires a path", cli.ErrUsage)
	}
	p, err := pathArg(args[0])
	if err != nil {
		return err
	}
	in, err := cfg.readInput(cc, args[1:])
	if err != nil {
		return err
	}
	return cfg.edit(cc, in, func(ctx context.Context, ed *editor.Editor) error {
		n := ed.Node(p)
		return nodeErr(n, n.Delete(ctx))
	})
}

func move(cfg *MoveConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Move.Parse(cc, args)
	if err != nil {
		cfg.Move.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: move requires a source and a target path", cli.ErrUsage)
	}
	src, err := pathArg(args[0])
	if err != nil {
		return err
	}
	dst, err := pathArg(args[1])
	if err != nil {
		return err
	}
	pos := mutate.Above
	if cfg.Below {
		pos = mutate.Below
	}
	in, err := cfg.readInput(cc, args[2:])
	if err != nil {
		return err
	}
	return cfg.edit(cc, in, func(ctx context.Context, ed *editor.Editor) error {
		n := ed.Node(src)
		if err := n.StartDrag(); err != nil {
			return nodeErr(n, err)
		}
		t := ed.Node(dst)
		return nodeErr(t, t.Drop(ctx, pos))
	})
}

func rename(cfg *RenameConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Rename.Parse(cc, args)
	if err != nil {
		cfg.Rename.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: rename requires a path and a key", cli.ErrUsage)
	}
	p, err := pathArg(args[0])
	if err != nil {
		return err
	}
	key := args[1]
	in, err := cfg.readInput(cc, args[2:])
	if err != nil {
		return err
	}
	return cfg.edit(cc, in, func(ctx context.Context, ed *editor.Editor) error {
		n := ed.Node(p)
		if err := n.StartEdit(editor.EditingKey, nil); err != nil {
			return nodeErr(n, err)
		}
		return nodeErr(n, n.ConfirmKey(ctx, key))
	})
}

func changeType(cfg *TypeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Type.Parse(cc, args)
	if err != nil {
		cfg.Type.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: type requires a path", cli.ErrUsage)
	}
	p, err := pathArg(args[0])
	if err != nil {
		return err
	}
	if cfg.List {
		in, err := cfg.readInput(cc, args[1:])
		if err != nil {
			return err
		}
		ed, err := cfg.newEditor(in)
		if err != nil {
			return err
		}
		opts, err := ed.Node(p).TypeOptions()
		if err != nil {
			return err
		}
		_, err = io.WriteString(cc.Out, strings.Join(opts, "\n")+"\n")
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: type requires a path and a type", cli.ErrUsage)
	}
	name := args[1]
	in, err := cfg.readInput(cc, args[2:])
	if err != nil {
		return err
	}
	return cfg.edit(cc, in, func(ctx context.Context, ed *editor.Editor) error {
		n := ed.Node(p)
		if err := n.StartEdit(editor.EditingValue, nil); err != nil {
			return nodeErr(n, err)
		}
		if err := n.ChangeType(name); err != nil {
			return nodeErr(n, err)
		}
		return nodeErr(n, n.Confirm(ctx))
	})
}
