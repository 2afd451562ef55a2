package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Mutate   bool
	Edit     bool
	Drag     bool
	Collapse bool
	Filter   bool
	Strict   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Mutate = boolEnv("JT_DEBUG_MUTATE")
	d.Edit = boolEnv("JT_DEBUG_EDIT")
	d.Drag = boolEnv("JT_DEBUG_DRAG")
	d.Collapse = boolEnv("JT_DEBUG_COLLAPSE")
	d.Filter = boolEnv("JT_DEBUG_FILTER")
	d.Strict = boolEnv("JT_DEBUG_STRICT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Mutate() bool {
	return d.Mutate
}
func Edit() bool {
	return d.Edit
}
func Drag() bool {
	return d.Drag
}
func Collapse() bool {
	return d.Collapse
}
func Filter() bool {
	return d.Filter
}

// Strict turns internal invariant violations into panics.
func Strict() bool {
	return d.Strict
}

// SetStrict overrides JT_DEBUG_STRICT, for tests.
func SetStrict(v bool) {
	d.Strict = v
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
