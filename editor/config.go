package editor

import (
	"context"
	"log/slog"
	"time"

	"github.com/jsontree/go-jsontree/filter"
	"github.com/jsontree/go-jsontree/ir"
	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/mutate"
	"github.com/jsontree/go-jsontree/policy"
	"github.com/jsontree/go-jsontree/resolve"
	"github.com/jsontree/go-jsontree/walk"
)

const (
	DefaultRootName    = "root"
	DefaultOverrideTTL = 2 * time.Second
	DefaultErrorTTL    = 2500 * time.Millisecond
)

type Outcome int

const (
	Accept Outcome = iota
	Substitute
	Reject
)

func (o Outcome) String() string {
	switch o {
	case Substitute:
		return "substitute"
	case Reject:
		return "reject"
	}
	return "accept"
}

// Verdict is a confirmation hook's answer.
type Verdict struct {
	Outcome Outcome
	// Value replaces the proposed value on Substitute. For update and add
	// it is the new value at the change's path; for delete, move and key
	// renames it is the whole new document.
	Value *ir.Node
	// Message is shown on the node on Reject. Empty selects the
	// operation's default message.
	Message string
}

// ConfirmFunc decides the fate of a tentative change. It may block; it is
// called without any editor lock held. An error counts as a rejection
// with the error text as message.
type ConfirmFunc func(ctx context.Context, ch *Change) (Verdict, error)

// Change is one proposed or applied mutation.
type Change struct {
	Op mutate.Op
	// Path is the changed node. A key rename reports an update of the
	// parent collection.
	Path kpath.Path
	// From is the source of a move.
	From kpath.Path
	// Name is the key of the changed node.
	Name string

	Previous *ir.Node
	Value    *ir.Node

	// Base is the document the change was computed against and Doc the
	// resulting document.
	Base *ir.Node
	Doc  *ir.Node

	// Patch is the RFC 6902 form of an applied change.
	Patch []byte
}

type Config struct {
	RootName    string
	Definitions []*resolve.Definition
	Restrict    policy.Restrictions
	// Collapse seeds the collapse flag of each node when it is first
	// seen. Nil leaves everything expanded.
	Collapse policy.Filter
	KeySort  walk.Order
	// DefaultValue is the value of newly added nodes, null when nil.
	DefaultValue *ir.Node
	// SearchFilter replaces the default value matcher.
	SearchFilter filter.Func

	Confirm  ConfirmFunc
	OnChange func(*Change)

	OverrideTTL  time.Duration
	ErrorTTL     time.Duration
	Translations map[string]string

	Log *slog.Logger
}

func (c *Config) withDefaults() Config {
	res := *c
	if res.RootName == "" {
		res.RootName = DefaultRootName
	}
	if res.OverrideTTL <= 0 {
		res.OverrideTTL = DefaultOverrideTTL
	}
	if res.ErrorTTL <= 0 {
		res.ErrorTTL = DefaultErrorTTL
	}
	if res.Log == nil {
		res.Log = slog.New(slog.DiscardHandler)
	}
	return res
}
