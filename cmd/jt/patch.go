package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jsontree/go-jsontree/editor"

	"github.com/scott-cotton/cli"
)

func patchDoc(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch file", cli.ErrUsage)
	}
	p, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading patch %s: %w", args[0], err)
	}
	in, err := cfg.readInput(cc, args[1:])
	if err != nil {
		return err
	}
	return cfg.edit(cc, in, func(ctx context.Context, ed *editor.Editor) error {
		apply := ed.ApplyPatch
		if cfg.Merge {
			apply = ed.ApplyMergePatch
		}
		if err := apply(ctx, p); err != nil {
			return nodeErr(ed.Root(), err)
		}
		return nil
	})
}
