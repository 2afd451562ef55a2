package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/jsontree/go-jsontree/editor"
	"github.com/jsontree/go-jsontree/encode"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/parse"
	"github.com/jsontree/go-jsontree/server"

	"github.com/fsnotify/fsnotify"
	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
)

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		cfg.Serve.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 && (cfg.Watch || cfg.Write) {
		return fmt.Errorf("%w: -watch and -w require a file", cli.ErrUsage)
	}
	in, err := cfg.readInput(cc, args)
	if err != nil {
		return err
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			theLog.Warn("gops agent failed", "error", err)
		}
		defer agent.Close()
	}
	ecfg, err := cfg.editorConfig()
	if err != nil {
		return err
	}
	if cfg.Write {
		ecfg.OnChange = func(ch *editor.Change) {
			if err := writeFile(in.name, ch.Doc); err != nil {
				theLog.Error("write back failed", "file", in.name, "error", err)
			}
		}
	}
	srv := server.New(in.doc, &server.Spec{
		Editor:        ecfg,
		Log:           theLog,
		ClientConfirm: cfg.Confirm,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if cfg.Watch {
		w, err := watch(ctx, in.name, cfg.parseOpts(filepath.Ext(in.name)), srv.Editor())
		if err != nil {
			return err
		}
		defer w.Close()
	}
	err = srv.Serve(ctx, server.StdIO())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watch reloads the document into ed whenever its file is written.
// Changes written back by the editor itself reload an equal document,
// which is skipped.
func watch(ctx context.Context, name string, opts []parse.ParseOption, ed *editor.Editor) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// editors and writeFile replace the file, so watch its directory.
	if err := w.Add(filepath.Dir(name)); err != nil {
		w.Close()
		return nil, err
	}
	abs, _ := filepath.Abs(name)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if p, _ := filepath.Abs(ev.Name); p != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				d, err := os.ReadFile(name)
				if err != nil {
					theLog.Warn("reload failed", "file", name, "error", err)
					continue
				}
				doc, err := parse.Parse(d, opts...)
				if err != nil {
					theLog.Warn("reload failed", "file", name, "error", err)
					continue
				}
				if ir.Equal(doc, ed.Document()) {
					continue
				}
				theLog.Info("reloaded", "file", name)
				ed.SetDocument(doc)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				theLog.Warn("watch error", "error", err)
			}
		}
	}()
	return w, nil
}

func writeFile(name string, doc *ir.Node) error {
	f, err := os.CreateTemp(filepath.Dir(name), ".jt-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if err := encode.Encode(doc, f, encode.EncodeIndent("  ")); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), name)
}
