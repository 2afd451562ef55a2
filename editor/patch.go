package editor

import (
	"context"

	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/mutate"
	"github.com/jsontree/go-jsontree/patch"
)

// ApplyPatch applies an RFC 6902 JSON Patch to the document. It is
// confirmed as an update of the root.
func (e *Editor) ApplyPatch(ctx context.Context, p []byte) error {
	return e.commitRoot(ctx, func(base *ir.Node) (*ir.Node, func(*Change) ([]patch.Op, error), error) {
		ops, err := patch.Decode(p)
		if err != nil {
			return nil, nil, err
		}
		doc, err := patch.Apply(base, p)
		if err != nil {
			return nil, nil, err
		}
		return doc, func(*Change) ([]patch.Op, error) { return ops, nil }, nil
	})
}

// ApplyMergePatch applies an RFC 7386 JSON Merge Patch to the document.
// It is confirmed as an update of the root.
func (e *Editor) ApplyMergePatch(ctx context.Context, p []byte) error {
	return e.commitRoot(ctx, func(base *ir.Node) (*ir.Node, func(*Change) ([]patch.Op, error), error) {
		doc, err := patch.Merge(base, p)
		return doc, patchReplaceRoot, err
	})
}

func (e *Editor) commitRoot(ctx context.Context, apply func(base *ir.Node) (*ir.Node, func(*Change) ([]patch.Op, error), error)) error {
	root := kpath.Path{}
	return e.commit(ctx, root, func(base *ir.Node) (*proposal, error) {
		doc, ops, err := apply(base)
		if err != nil {
			return nil, err
		}
		return &proposal{
			change: Change{
				Op:       mutate.Update,
				Path:     root,
				Previous: base,
				Value:    doc,
				Doc:      doc,
			},
			wholeDoc: true,
			patch:    ops,
		}, nil
	})
}
