package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.lsp.dev/jsonrpc2"

	"github.com/jsontree/go-jsontree/editor"
	"github.com/jsontree/go-jsontree/encode"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/mutate"
	"github.com/jsontree/go-jsontree/parse"
	"github.com/jsontree/go-jsontree/policy"
)

const (
	MethodChanged = "document/changed"
	MethodConfirm = "editor/confirm"
)

// CodeNodeError is the JSON-RPC error code of editor node errors. The
// error data carries the node error code and path.
const CodeNodeError jsonrpc2.Code = -32001

type DocumentResult struct {
	Document json.RawMessage `json:"document"`
	Version  uint64          `json:"version"`
}

type PathParams struct {
	Path kpath.Path `json:"path"`
}

type EditParams struct {
	Path kpath.Path `json:"path"`
	Mode string     `json:"mode,omitempty"`
}

type DraftParams struct {
	Path  kpath.Path      `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
	Key   *string         `json:"key,omitempty"`
}

type ConfirmParams struct {
	Path kpath.Path `json:"path"`
	Text *string    `json:"text,omitempty"`
}

type ValueParams struct {
	Path  kpath.Path      `json:"path"`
	Value json.RawMessage `json:"value"`
}

type AddParams struct {
	Path kpath.Path `json:"path"`
	Key  string     `json:"key,omitempty"`
}

type TypeParams struct {
	Path kpath.Path `json:"path"`
	Type string     `json:"type"`
}

type CollapseParams struct {
	Path      kpath.Path `json:"path"`
	Collapsed bool       `json:"collapsed"`
	// All broadcasts the state to the whole subtree.
	All bool `json:"all,omitempty"`
}

type SearchParams struct {
	Text string `json:"text"`
}

type TabParams struct {
	Reverse bool `json:"reverse,omitempty"`
}

type DropParams struct {
	Path     kpath.Path `json:"path"`
	Position string     `json:"position"`
}

type PatchParams struct {
	Patch json.RawMessage `json:"patch"`
	Merge bool            `json:"merge,omitempty"`
}

type Row struct {
	Path        kpath.Path         `json:"path"`
	Key         string             `json:"key"`
	IsIndex     bool               `json:"isIndex,omitempty"`
	HideKey     bool               `json:"hideKey,omitempty"`
	Level       int                `json:"level"`
	Type        string             `json:"type"`
	Text        string             `json:"text,omitempty"`
	Collection  bool               `json:"collection,omitempty"`
	Count       string             `json:"count,omitempty"`
	Collapsed   bool               `json:"collapsed,omitempty"`
	Editing     string             `json:"editing,omitempty"`
	Pending     bool               `json:"pending,omitempty"`
	Error       *ErrorData         `json:"error,omitempty"`
	Permissions policy.Permissions `json:"permissions"`
	Dragged     bool               `json:"dragged,omitempty"`
}

type ErrorData struct {
	Code    editor.Code `json:"code"`
	Message string      `json:"message"`
	Path    kpath.Path  `json:"path"`
}

// Changed is the params of a "document/changed" notification.
type Changed struct {
	Version uint64          `json:"version"`
	Op      string          `json:"op"`
	Path    kpath.Path      `json:"path"`
	From    kpath.Path      `json:"from,omitempty"`
	Patch   json.RawMessage `json:"patch,omitempty"`
}

// ConfirmRequest is the params of an "editor/confirm" call to the
// client.
type ConfirmRequest struct {
	Op       string          `json:"op"`
	Path     kpath.Path      `json:"path"`
	From     kpath.Path      `json:"from,omitempty"`
	Name     string          `json:"name"`
	Previous json.RawMessage `json:"previous,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// ConfirmResponse is the client's verdict: "accept", "substitute" with a
// value, or "reject" with an optional message.
type ConfirmResponse struct {
	Outcome string          `json:"outcome"`
	Value   json.RawMessage `json:"value,omitempty"`
	Message string          `json:"message,omitempty"`
}

func (s *Server) routes() map[string]handlerFunc {
	ed := s.ed
	ok := func(err error) (any, error) {
		if err != nil {
			return nil, err
		}
		return struct{}{}, nil
	}
	return map[string]handlerFunc{
		"document/get": method(func(_ context.Context, _ *struct{}) (any, error) {
			return s.document()
		}),
		"document/set": method(func(_ context.Context, p *struct {
			Document json.RawMessage `json:"document"`
		}) (any, error) {
			doc, err := parse.Parse(p.Document, parse.ParseJSON())
			if err != nil {
				return nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
			}
			ed.SetDocument(doc)
			return s.document()
		}),
		"rows": method(func(_ context.Context, _ *struct{}) (any, error) {
			return rows(ed.Rows()), nil
		}),
		"edit/start": method(func(_ context.Context, p *EditParams) (any, error) {
			mode := editor.EditingValue
			if p.Mode == "key" {
				mode = editor.EditingKey
			}
			return ok(ed.Node(p.Path).StartEdit(mode, nil))
		}),
		"edit/draft": method(func(_ context.Context, p *DraftParams) (any, error) {
			n := ed.Node(p.Path)
			if p.Key != nil {
				return ok(n.SetKeyDraft(*p.Key))
			}
			v, err := parse.Parse(p.Value, parse.ParseJSON())
			if err != nil {
				return nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
			}
			return ok(n.SetDraft(v))
		}),
		"edit/confirm": method(func(ctx context.Context, p *ConfirmParams) (any, error) {
			n := ed.Node(p.Path)
			if p.Text != nil {
				return ok(n.ConfirmText(ctx, *p.Text))
			}
			return ok(n.Confirm(ctx))
		}),
		"edit/cancel": method(func(_ context.Context, _ *struct{}) (any, error) {
			ed.Cancel()
			return struct{}{}, nil
		}),
		"edit/tab": method(func(ctx context.Context, p *TabParams) (any, error) {
			to, err := ed.Tab(ctx, p.Reverse)
			if err != nil {
				return nil, err
			}
			return PathParams{Path: to}, nil
		}),
		"node/update": method(func(ctx context.Context, p *ValueParams) (any, error) {
			v, err := parse.Parse(p.Value, parse.ParseJSON())
			if err != nil {
				return nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
			}
			return ok(ed.Node(p.Path).Update(ctx, v))
		}),
		"node/add": method(func(ctx context.Context, p *AddParams) (any, error) {
			return ok(ed.Node(p.Path).Add(ctx, p.Key))
		}),
		"node/delete": method(func(ctx context.Context, p *PathParams) (any, error) {
			return ok(ed.Node(p.Path).Delete(ctx))
		}),
		"node/types": method(func(_ context.Context, p *PathParams) (any, error) {
			return ed.Node(p.Path).TypeOptions()
		}),
		"node/type": method(func(_ context.Context, p *TypeParams) (any, error) {
			return ok(ed.Node(p.Path).ChangeType(p.Type))
		}),
		"collapse/set": method(func(_ context.Context, p *CollapseParams) (any, error) {
			if p.All {
				ed.BroadcastCollapse(p.Path, p.Collapsed)
				return struct{}{}, nil
			}
			return ok(ed.Node(p.Path).SetCollapsed(p.Collapsed))
		}),
		"collapse/toggle": method(func(_ context.Context, p *PathParams) (any, error) {
			c, err := ed.Node(p.Path).ToggleCollapse()
			if err != nil {
				return nil, err
			}
			return struct {
				Collapsed bool `json:"collapsed"`
			}{c}, nil
		}),
		"search": method(func(_ context.Context, p *SearchParams) (any, error) {
			ed.SetSearch(p.Text)
			return rows(ed.Rows()), nil
		}),
		"drag/start": method(func(_ context.Context, p *PathParams) (any, error) {
			return ok(ed.Node(p.Path).StartDrag())
		}),
		"drag/drop": method(func(ctx context.Context, p *DropParams) (any, error) {
			pos, err := mutate.ParsePosition(p.Position)
			if err != nil {
				ed.EndDrag()
				return nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
			}
			return ok(ed.Node(p.Path).Drop(ctx, pos))
		}),
		"drag/end": method(func(_ context.Context, _ *struct{}) (any, error) {
			ed.EndDrag()
			return struct{}{}, nil
		}),
		"patch/apply": method(func(ctx context.Context, p *PatchParams) (any, error) {
			if p.Merge {
				return ok(ed.ApplyMergePatch(ctx, p.Patch))
			}
			return ok(ed.ApplyPatch(ctx, p.Patch))
		}),
	}
}

func (s *Server) document() (*DocumentResult, error) {
	d, err := encode.MarshalJSON(s.ed.Document())
	if err != nil {
		return nil, err
	}
	return &DocumentResult{Document: d, Version: s.ed.Version()}, nil
}

func rows(rs []editor.Row) []Row {
	res := make([]Row, len(rs))
	for i := range rs {
		r := &rs[i]
		res[i] = Row{
			Path:        r.Path,
			Key:         r.Key,
			IsIndex:     r.IsIndex,
			HideKey:     r.HideKey,
			Level:       r.Level,
			Type:        r.Type,
			Text:        r.Text,
			Collection:  r.Collection,
			Count:       r.Count,
			Collapsed:   r.Collapsed,
			Pending:     r.Pending,
			Permissions: r.Permissions,
			Dragged:     r.Dragged,
		}
		if r.Editing != editor.Idle {
			res[i].Editing = r.Editing.String()
		}
		if r.Error != nil {
			res[i].Error = &ErrorData{Code: r.Error.Code, Message: r.Error.Message, Path: r.Error.Path}
		}
	}
	return res
}

func replyError(err error) error {
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	var nerr *editor.Error
	if errors.As(err, &nerr) {
		return jsonrpc2.NewError(CodeNodeError, fmt.Sprintf("%s: %s", nerr.Code, nerr.Message))
	}
	return jsonrpc2.NewError(jsonrpc2.InternalError, err.Error())
}

func (s *Server) notifyChange(ch *editor.Change) {
	conn := s.getConn()
	if conn == nil {
		return
	}
	msg := &Changed{
		Version: s.ed.Version(),
		Op:      ch.Op.String(),
		Path:    ch.Path,
		From:    ch.From,
		Patch:   ch.Patch,
	}
	if err := conn.Notify(context.Background(), MethodChanged, msg); err != nil {
		s.Spec.Log.Warn("notify failed", "method", MethodChanged, "error", err)
	}
}

// clientConfirm asks the client to decide a change.
func (s *Server) clientConfirm(ctx context.Context, ch *editor.Change) (editor.Verdict, error) {
	conn := s.getConn()
	if conn == nil {
		return editor.Verdict{}, nil
	}
	req := &ConfirmRequest{
		Op:   ch.Op.String(),
		Path: ch.Path,
		From: ch.From,
		Name: ch.Name,
	}
	var err error
	if req.Previous, err = marshalOpt(ch.Previous); err != nil {
		return editor.Verdict{}, err
	}
	if req.Value, err = marshalOpt(ch.Value); err != nil {
		return editor.Verdict{}, err
	}
	var resp ConfirmResponse
	if _, err := conn.Call(ctx, MethodConfirm, req, &resp); err != nil {
		return editor.Verdict{}, fmt.Errorf("client confirmation: %w", err)
	}
	switch resp.Outcome {
	case "", "accept":
		return editor.Verdict{Outcome: editor.Accept}, nil
	case "reject":
		return editor.Verdict{Outcome: editor.Reject, Message: resp.Message}, nil
	case "substitute":
		v, err := parse.Parse(resp.Value, parse.ParseJSON())
		if err != nil {
			return editor.Verdict{}, fmt.Errorf("client substitution: %w", err)
		}
		return editor.Verdict{Outcome: editor.Substitute, Value: v}, nil
	}
	return editor.Verdict{}, fmt.Errorf("client confirmation: unknown outcome %q", resp.Outcome)
}

func marshalOpt(v *ir.Node) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return encode.MarshalJSON(v)
}
