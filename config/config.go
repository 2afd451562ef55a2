// Package config reads editor configuration from YAML.
//
//	rootName: data
//	collapse: 2                 # bool, depth or expression
//	restrict:
//	  edit: false
//	  delete: 'level == 1'
//	  add: 'type == "array"'
//	keySort: asc                # true, asc, desc
//	defaultValue: ""
//	searchMode: all             # value, key, all
//	overrideTTL: 2s
//	errorTTL: 2500ms
//	translations:
//	  KEY_NEW: New key
//	definitions:
//	- builtin: Color
//	- name: Secret
//	  condition: 'key == "password"'
//	  render: '"********"'
//	  showEditTools: false
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/jsontree/go-jsontree/editor"
	"github.com/jsontree/go-jsontree/filter"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/parse"
	"github.com/jsontree/go-jsontree/policy"
	"github.com/jsontree/go-jsontree/resolve"
	"github.com/jsontree/go-jsontree/resolve/builtin"
	"github.com/jsontree/go-jsontree/walk"
)

type Config struct {
	RootName     string            `yaml:"rootName"`
	Collapse     any               `yaml:"collapse"`
	Restrict     Restrict          `yaml:"restrict"`
	KeySort      any               `yaml:"keySort"`
	DefaultValue any               `yaml:"defaultValue"`
	SearchFilter string            `yaml:"searchFilter"`
	SearchMode   string            `yaml:"searchMode"`
	OverrideTTL  string            `yaml:"overrideTTL"`
	ErrorTTL     string            `yaml:"errorTTL"`
	Translations map[string]string `yaml:"translations"`
	Definitions  []Definition      `yaml:"definitions"`
}

// Restrict holds one restriction per action: a bool, a minimum depth or
// an expression. Matching nodes may not have the action applied.
type Restrict struct {
	Edit       any `yaml:"edit"`
	Delete     any `yaml:"delete"`
	Add        any `yaml:"add"`
	Drag       any `yaml:"drag"`
	KeyEdit    any `yaml:"keyEdit"`
	TypeSelect any `yaml:"typeSelect"`
}

// Definition is a custom node definition: either a reference to a
// built-in one or a condition expression with display options.
type Definition struct {
	Name           string         `yaml:"name"`
	Builtin        string         `yaml:"builtin"`
	Condition      string         `yaml:"condition"`
	Render         string         `yaml:"render"`
	ShowInSelector *bool          `yaml:"showInSelector"`
	ShowOnEdit     *bool          `yaml:"showOnEdit"`
	ShowOnView     *bool          `yaml:"showOnView"`
	ShowEditTools  *bool          `yaml:"showEditTools"`
	HideKey        bool           `yaml:"hideKey"`
	RenderAsValue  bool           `yaml:"renderAsValue"`
	DefaultValue   any            `yaml:"defaultValue"`
	Props          map[string]any `yaml:"props"`
}

// Parse decodes YAML configuration.
func Parse(d []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.UnmarshalWithOptions(d, c, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

func Load(path string) (*Config, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Editor compiles the configuration into an editor configuration. Hooks
// and logging are left for the caller to set.
func (c *Config) Editor() (*editor.Config, error) {
	res := &editor.Config{
		RootName:     c.RootName,
		Translations: c.Translations,
	}
	var err error
	if res.Collapse, err = policy.FromValue(c.Collapse); err != nil {
		return nil, fmt.Errorf("collapse: %w", err)
	}
	if err := c.Restrict.compile(&res.Restrict); err != nil {
		return nil, err
	}
	if res.KeySort, err = keySort(c.KeySort); err != nil {
		return nil, err
	}
	if c.DefaultValue != nil {
		res.DefaultValue = value(c.DefaultValue)
	}
	switch {
	case c.SearchFilter != "":
		if res.SearchFilter, err = policy.SearchExpr(c.SearchFilter); err != nil {
			return nil, fmt.Errorf("searchFilter: %w", err)
		}
	case c.SearchMode != "":
		switch m := filter.Mode(c.SearchMode); m {
		case filter.ModeValue, filter.ModeKey, filter.ModeAll:
			res.SearchFilter = filter.ForMode(m)
		default:
			return nil, fmt.Errorf("searchMode: unknown mode %q", c.SearchMode)
		}
	}
	if res.OverrideTTL, err = duration(c.OverrideTTL); err != nil {
		return nil, fmt.Errorf("overrideTTL: %w", err)
	}
	if res.ErrorTTL, err = duration(c.ErrorTTL); err != nil {
		return nil, fmt.Errorf("errorTTL: %w", err)
	}
	for i := range c.Definitions {
		def, err := c.Definitions[i].compile()
		if err != nil {
			return nil, fmt.Errorf("definitions[%d]: %w", i, err)
		}
		res.Definitions = append(res.Definitions, def)
	}
	return res, nil
}

func (r *Restrict) compile(dst *policy.Restrictions) error {
	for _, x := range []struct {
		name string
		v    any
		f    *policy.Filter
	}{
		{"edit", r.Edit, &dst.Edit},
		{"delete", r.Delete, &dst.Delete},
		{"add", r.Add, &dst.Add},
		{"drag", r.Drag, &dst.Drag},
		{"keyEdit", r.KeyEdit, &dst.KeyEdit},
		{"typeSelect", r.TypeSelect, &dst.TypeSelect},
	} {
		f, err := policy.FromValue(x.v)
		if err != nil {
			return fmt.Errorf("restrict.%s: %w", x.name, err)
		}
		*x.f = f
	}
	return nil
}

func (d *Definition) compile() (*resolve.Definition, error) {
	if d.Builtin != "" {
		def, ok := builtin.ByName(d.Builtin)
		if !ok {
			return nil, fmt.Errorf("unknown builtin definition %q", d.Builtin)
		}
		return d.overlay(def)
	}
	if d.Condition == "" {
		return nil, fmt.Errorf("definition %q has no condition", d.Name)
	}
	cond, err := policy.Expr(d.Condition)
	if err != nil {
		return nil, err
	}
	return d.overlay(&resolve.Definition{Name: d.Name, Condition: resolve.Condition(cond)})
}

// overlay applies the options set in d over def.
func (d *Definition) overlay(def *resolve.Definition) (*resolve.Definition, error) {
	if d.Name != "" {
		def.Name = d.Name
	}
	if d.Render != "" {
		text, err := policy.Text(d.Render)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		def.Renderer = resolve.RenderFunc(func(n *resolve.Descriptor, _ *resolve.Resolved, _ resolve.Control) string {
			return text(n)
		})
	}
	for _, x := range []struct {
		src *bool
		dst **bool
	}{
		{d.ShowInSelector, &def.ShowInSelector},
		{d.ShowOnEdit, &def.ShowOnEdit},
		{d.ShowOnView, &def.ShowOnView},
		{d.ShowEditTools, &def.ShowEditTools},
	} {
		if x.src != nil {
			*x.dst = resolve.Bool(*x.src)
		}
	}
	def.HideKey = def.HideKey || d.HideKey
	def.RenderAsValue = def.RenderAsValue || d.RenderAsValue
	if d.DefaultValue != nil {
		def.DefaultValue = value(d.DefaultValue)
	}
	if d.Props != nil {
		def.Props = d.Props
	}
	return def, nil
}

func keySort(v any) (walk.Order, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if x {
			return walk.Ascending, nil
		}
		return nil, nil
	case string:
		switch x {
		case "asc", "ascending":
			return walk.Ascending, nil
		case "desc", "descending":
			return walk.Descending, nil
		case "", "none":
			return nil, nil
		}
	}
	return nil, fmt.Errorf("keySort: cannot use %v", v)
}

func duration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// value converts a decoded YAML value, keeping mapping order.
func value(v any) *ir.Node {
	return parse.FromYAMLValue(v)
}
