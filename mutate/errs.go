package mutate

import "errors"

var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrKeyExists    = errors.New("key already exists")
	ErrMoveIntoSelf = errors.New("cannot move a node into itself")
)
