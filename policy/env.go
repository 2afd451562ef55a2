package policy

import (
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/resolve"
)

// Env is the environment expressions are evaluated in.
type Env struct {
	Key        any                `expr:"key"`
	Path       []any              `expr:"path"`
	Level      int                `expr:"level"`
	Value      any                `expr:"value"`
	Size       int                `expr:"size"`
	Type       string             `expr:"type"`
	ParentType string             `expr:"parentType"`
	Collapsed  bool               `expr:"collapsed"`
	SearchText string             `expr:"searchText"`
	GetPath    func(p string) any `expr:"getpath"`
}

// NewEnv builds the evaluation environment of d.
func NewEnv(d *resolve.Descriptor, searchText string) *Env {
	env := &Env{
		Key:        keyAny(d.Key),
		Path:       make([]any, len(d.Path)),
		Level:      d.Level,
		Value:      ir.ToAny(d.Value),
		Size:       d.Size,
		Type:       resolve.Classify(d.Value).String(),
		Collapsed:  d.Collapsed,
		SearchText: searchText,
	}
	for i, k := range d.Path {
		env.Path[i] = keyAny(k)
	}
	if d.Parent != nil {
		env.ParentType = resolve.Classify(d.Parent).String()
	}
	doc := d.Doc
	env.GetPath = func(p string) any {
		kp, err := kpath.Parse(p)
		if err != nil {
			return nil
		}
		at, err := resolve.At(doc, kp, "")
		if err != nil {
			return nil
		}
		return ir.ToAny(at.Value)
	}
	return env
}

func keyAny(k kpath.Key) any {
	if k.IsIndex {
		return k.Index
	}
	return k.Field
}
