// Package server exposes an editor over JSON-RPC 2.0 so that a user
// interface in another process can drive it. Document changes are pushed
// to the client as "document/changed" notifications, and the client can
// be made the confirmation hook through "editor/confirm" calls.
package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"

	"go.lsp.dev/jsonrpc2"

	"github.com/jsontree/go-jsontree/editor"
	"github.com/jsontree/go-jsontree/ir"
)

// Spec configures a Server.
type Spec struct {
	Editor *editor.Config
	Log    *slog.Logger
	// ClientConfirm makes the client decide every change.
	ClientConfirm bool
}

type Server struct {
	Spec Spec

	ed      *editor.Editor
	methods map[string]handlerFunc

	mu   sync.Mutex
	conn jsonrpc2.Conn
}

// New creates a server editing doc.
func New(doc *ir.Node, spec *Spec) *Server {
	if spec.Log == nil {
		spec.Log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slogLevel(),
		}))
	}
	cfg := editor.Config{}
	if spec.Editor != nil {
		cfg = *spec.Editor
	}
	if cfg.Log == nil {
		cfg.Log = spec.Log
	}
	s := &Server{Spec: *spec}
	onChange := cfg.OnChange
	cfg.OnChange = func(ch *editor.Change) {
		if onChange != nil {
			onChange(ch)
		}
		s.notifyChange(ch)
	}
	if spec.ClientConfirm {
		cfg.Confirm = s.clientConfirm
	}
	s.ed = editor.New(doc, &cfg)
	s.methods = s.routes()
	return s
}

func slogLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func (s *Server) Editor() *editor.Editor {
	return s.ed
}

// Serve runs the protocol on rwc until the peer disconnects or ctx is
// done.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	// Requests run off the read loop so that replies to our own calls
	// can be read while a request waits on them.
	conn.Go(ctx, jsonrpc2.AsyncHandler(s.handle))
	s.Spec.Log.Info("session started")
	select {
	case <-ctx.Done():
		conn.Close()
		<-conn.Done()
		return ctx.Err()
	case <-conn.Done():
		s.Spec.Log.Info("session ended")
		return conn.Err()
	}
}

func (s *Server) getConn() jsonrpc2.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

type handlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	h, ok := s.methods[req.Method()]
	if !ok {
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
	s.Spec.Log.Debug("request", "method", req.Method())
	res, err := h(ctx, req.Params())
	if err != nil {
		s.Spec.Log.Debug("request failed", "method", req.Method(), "error", err)
		return reply(ctx, nil, replyError(err))
	}
	return reply(ctx, res, nil)
}

// method adapts a handler taking decoded params.
func method[P any](f func(ctx context.Context, p *P) (any, error)) handlerFunc {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		p := new(P)
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, p); err != nil {
				return nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
			}
		}
		return f(ctx, p)
	}
}

// StdIO joins standard input and output into one connection.
func StdIO() io.ReadWriteCloser {
	return &stdioReadWriteCloser{read: os.Stdin, write: os.Stdout}
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}
