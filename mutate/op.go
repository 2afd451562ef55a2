package mutate

import "fmt"

type Op int

const (
	Update Op = iota
	Add
	Delete
	Move
)

func (o Op) String() string {
	switch o {
	case Update:
		return "update"
	case Add:
		return "add"
	case Delete:
		return "delete"
	case Move:
		return "move"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Position places a moved node relative to its drop target.
type Position int

const (
	Above Position = iota
	Below
)

func (p Position) String() string {
	if p == Below {
		return "below"
	}
	return "above"
}

func ParsePosition(s string) (Position, error) {
	switch s {
	case "above":
		return Above, nil
	case "below":
		return Below, nil
	}
	return Above, fmt.Errorf("unknown position %q", s)
}
