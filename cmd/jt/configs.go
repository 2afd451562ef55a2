package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jsontree/go-jsontree/encode"
	"github.com/jsontree/go-jsontree/format"
	"github.com/jsontree/go-jsontree/parse"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color  bool   `cli:"name=color desc='output with color'"`
	J      bool   `cli:"name=j aliases=json desc='read input as json'"`
	Y      bool   `cli:"name=y aliases=yaml desc='read input as yaml'"`
	Config string `cli:"name=config desc='editor configuration file (yaml)'"`
	Diff   bool   `cli:"name=diff desc='print a diff instead of the result'"`
	Write  bool   `cli:"name=w desc='write the result back to the input file'"`

	InFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// parseOpts picks the input format: an explicit flag wins, then the
// file extension.
func (cfg *MainConfig) parseOpts(ext string) []parse.ParseOption {
	fmat := format.FromExt(ext)
	switch {
	case cfg.Y:
		fmat = format.YAMLFormat
	case cfg.J:
		fmat = format.JSONFormat
	}
	if cfg.InFormat != nil {
		fmat = *cfg.InFormat
	}
	return []parse.ParseOption{parse.ParseFormat(fmat)}
}

func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{encode.EncodeIndent("  ")}
	if cfg.colors(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type ViewConfig struct {
	*MainConfig

	Search string `cli:"name=search desc='only show nodes matching text'"`
	Depth  int    `cli:"name=depth desc='collapse collections at this depth (-1 uses the configuration)'"`
	Plain  bool   `cli:"name=plain desc='do not draw tree guides'"`

	View *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type SetConfig struct {
	*MainConfig

	Text bool `cli:"name=text desc='treat the value as text, not json'"`

	Set *cli.Command
}

type AddConfig struct {
	*MainConfig

	Key   string `cli:"name=key desc='key of the new member (objects only)'"`
	Value string `cli:"name=value desc='json value of the new child'"`

	Add *cli.Command
}

type DeleteConfig struct {
	*MainConfig

	Delete *cli.Command
}

type MoveConfig struct {
	*MainConfig

	Below bool `cli:"name=below desc='drop below the target rather than above'"`

	Move *cli.Command
}

type RenameConfig struct {
	*MainConfig

	Rename *cli.Command
}

type TypeConfig struct {
	*MainConfig

	List bool `cli:"name=list desc='list the types the value may take'"`

	Type *cli.Command
}

type NextConfig struct {
	*MainConfig

	Reverse bool   `cli:"name=r desc='move backwards'"`
	Search  string `cli:"name=search desc='only consider nodes matching text'"`
	Key     bool   `cli:"name=key desc='start from editing the key'"`

	Next *cli.Command
}

type PatchConfig struct {
	*MainConfig

	Merge bool `cli:"name=merge desc='treat the patch as a json merge patch'"`

	Patch *cli.Command
}

type ServeConfig struct {
	*MainConfig

	Gops    bool `cli:"name=gops desc='start a gops agent'"`
	Watch   bool `cli:"name=watch desc='reload the document when its file changes'"`
	Confirm bool `cli:"name=confirm desc='ask the client to confirm every change'"`

	Serve *cli.Command
}
