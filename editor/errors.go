package editor

import (
	"errors"
	"fmt"

	"github.com/jsontree/go-jsontree/ir/kpath"
	"github.com/jsontree/go-jsontree/mutate"
	"github.com/jsontree/go-jsontree/parse"
)

var (
	ErrBusy       = errors.New("a change is awaiting confirmation")
	ErrStale      = errors.New("document changed while the change awaited confirmation")
	ErrNotEditing = errors.New("node is not being edited")
	ErrRestricted = errors.New("action not permitted on node")
	ErrNoDrag     = errors.New("no drag in progress")
)

// Code classifies node errors.
type Code string

const (
	CodeInvalidPath    Code = "INVALID_PATH"
	CodeKeyExists      Code = "KEY_EXISTS"
	CodeInvalidJSON    Code = "INVALID_JSON"
	CodeUpdateRejected Code = "UPDATE_REJECTED"
	CodeDeleteRejected Code = "DELETE_REJECTED"
	CodeAddRejected    Code = "ADD_REJECTED"
	CodeMoveRejected   Code = "MOVE_REJECTED"
	CodeInvalidDrop    Code = "INVALID_DROP"
	CodeRestricted     Code = "RESTRICTED"
)

// Error is a recoverable failure of one operation on one node. The
// document is unchanged when an Error is returned.
type Error struct {
	Code    Code
	Message string
	Path    kpath.Path
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at $%s: %s: %v", e.Code, e.Path.String(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s at $%s: %s", e.Code, e.Path.String(), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// codeOf classifies an error from the engine, falling back to the
// rejection code of the operation.
func codeOf(err error, fallback Code) (Code, string) {
	switch {
	case errors.Is(err, mutate.ErrKeyExists):
		return CodeKeyExists, "ERROR_KEY_EXISTS"
	case errors.Is(err, mutate.ErrMoveIntoSelf):
		return CodeInvalidDrop, "ERROR_INVALID_DROP"
	case errors.Is(err, mutate.ErrInvalidPath):
		return CodeInvalidPath, "ERROR_INVALID_PATH"
	case errors.Is(err, parse.ErrParse):
		return CodeInvalidJSON, "ERROR_INVALID_JSON"
	case errors.Is(err, ErrRestricted):
		return CodeRestricted, "ERROR_RESTRICTED"
	}
	return fallback, rejectKey(fallback)
}

func rejectCode(op mutate.Op) Code {
	switch op {
	case mutate.Add:
		return CodeAddRejected
	case mutate.Delete:
		return CodeDeleteRejected
	case mutate.Move:
		return CodeMoveRejected
	}
	return CodeUpdateRejected
}

func rejectKey(c Code) string {
	switch c {
	case CodeAddRejected:
		return "ERROR_ADD"
	case CodeDeleteRejected:
		return "ERROR_DELETE"
	case CodeMoveRejected:
		return "ERROR_MOVE"
	case CodeInvalidDrop:
		return "ERROR_INVALID_DROP"
	}
	return "ERROR_UPDATE"
}
