package kpath

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("kpath syntax error")

// Path locates a node from the document root. The nil or empty Path is
// the root.
type Path []Key

// Of builds a path from field names (string) and indices (int).
// It panics on any other element type.
func Of(keys ...any) Path {
	res := make(Path, len(keys))
	for i, k := range keys {
		switch x := k.(type) {
		case string:
			res[i] = Field(x)
		case int:
			res[i] = Index(x)
		case Key:
			res[i] = x
		default:
			panic(fmt.Sprintf("kpath: cannot use %T as a key", k))
		}
	}
	return res
}

// String returns the kinded path syntax: "a.b[0]"; the root is "".
func (p Path) String() string {
	var b strings.Builder
	for i, k := range p {
		if !k.IsIndex && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(k.Segment())
	}
	return b.String()
}

func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Parent returns the path of the containing collection. The parent of the
// root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the final key.
func (p Path) Last() (Key, bool) {
	if len(p) == 0 {
		return Key{}, false
	}
	return p[len(p)-1], true
}

// Append returns a new path extending p; p is never aliased.
func (p Path) Append(keys ...Key) Path {
	res := make(Path, 0, len(p)+len(keys))
	res = append(res, p...)
	return append(res, keys...)
}

func (p Path) Clone() Path {
	return slices.Clone(p)
}

func (p Path) Equal(o Path) bool {
	return slices.Equal(p, o)
}

// HasPrefix reports whether prefix addresses p itself or one of its
// ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && slices.Equal(p[:len(prefix)], prefix)
}

// IsWithin reports whether p lies in the subtree rooted at root, root
// included.
func (p Path) IsWithin(root Path) bool {
	return p.HasPrefix(root)
}

func (p Path) Compare(o Path) int {
	return slices.CompareFunc(p, o, Key.Compare)
}

// Parse parses the kinded path syntax produced by String. A leading "$"
// is accepted and ignored.
func Parse(s string) (Path, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, ".")
	res := Path{}
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return nil, fmt.Errorf("%w: unterminated index at %d in %q", ErrSyntax, i, s)
			}
			n, err := strconv.Atoi(s[i+1 : i+j])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrSyntax, s[i+1:i+j], s)
			}
			res = append(res, Index(n))
			i += j + 1
		case c == '.':
			if i == len(s)-1 {
				return nil, fmt.Errorf("%w: trailing '.' in %q", ErrSyntax, s)
			}
			i++
			if s[i] == '.' || s[i] == '[' {
				return nil, fmt.Errorf("%w: empty field at %d in %q", ErrSyntax, i, s)
			}
			continue
		case c == '\'' || c == '"':
			f, n, err := unquote(s[i:])
			if err != nil {
				return nil, fmt.Errorf("%w: %w in %q", ErrSyntax, err, s)
			}
			res = append(res, Field(f))
			i += n
		default:
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				if s[j] == ']' || s[j] == '\'' || s[j] == '"' {
					return nil, fmt.Errorf("%w: unexpected %q at %d in %q", ErrSyntax, s[j], j, s)
				}
				j++
			}
			res = append(res, Field(s[i:j]))
			i = j
		}
		if i < len(s) && s[i] != '.' && s[i] != '[' {
			return nil, fmt.Errorf("%w: unexpected %q at %d in %q", ErrSyntax, s[i], i, s)
		}
	}
	return res, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func unquote(s string) (string, int, error) {
	q := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			if i+1 == len(s) {
				return "", 0, errors.New("dangling escape")
			}
			i++
			b.WriteByte(s[i])
		case q:
			return b.String(), i + 1, nil
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errors.New("unterminated quote")
}

// MarshalJSON encodes p as an array of strings and integers.
func (p Path) MarshalJSON() ([]byte, error) {
	keys := make([]any, len(p))
	for i, k := range p {
		if k.IsIndex {
			keys[i] = k.Index
		} else {
			keys[i] = k.Field
		}
	}
	return json.Marshal(keys)
}

// UnmarshalJSON accepts either the array form or a path string.
func (p *Path) UnmarshalJSON(d []byte) error {
	var s string
	if err := json.Unmarshal(d, &s); err == nil {
		pp, err := Parse(s)
		if err != nil {
			return err
		}
		*p = pp
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(d, &raw); err != nil {
		return fmt.Errorf("%w: path must be a string or an array: %w", ErrSyntax, err)
	}
	res := make(Path, len(raw))
	for i, r := range raw {
		var n int
		if err := json.Unmarshal(r, &n); err == nil {
			res[i] = Index(n)
			continue
		}
		var f string
		if err := json.Unmarshal(r, &f); err != nil {
			return fmt.Errorf("%w: key %d is neither string nor integer", ErrSyntax, i)
		}
		res[i] = Field(f)
	}
	*p = res
	return nil
}

// Pointer returns the RFC 6901 JSON Pointer for p.
func (p Path) Pointer() string {
	var b strings.Builder
	for _, k := range p {
		b.WriteByte('/')
		s := k.String()
		s = strings.ReplaceAll(s, "~", "~0")
		s = strings.ReplaceAll(s, "/", "~1")
		b.WriteString(s)
	}
	return b.String()
}

// ParsePointer parses an RFC 6901 JSON Pointer. Every token becomes a
// field key; numeric tokens address array elements through Key.AsIndex.
func ParsePointer(ptr string) (Path, error) {
	if ptr == "" {
		return Path{}, nil
	}
	if ptr[0] != '/' {
		return nil, fmt.Errorf("%w: pointer %q must start with '/'", ErrSyntax, ptr)
	}
	toks := strings.Split(ptr[1:], "/")
	res := make(Path, len(toks))
	for i, t := range toks {
		t = strings.ReplaceAll(t, "~1", "/")
		t = strings.ReplaceAll(t, "~0", "~")
		res[i] = Field(t)
	}
	return res, nil
}
