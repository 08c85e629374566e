// Package typeref turns textual type references into checkable descriptors.
//
// Resolution is a two-stage pipeline: Parse produces a Reference, and a
// Resolver turns the Reference into a Descriptor. Resolvers are injectable:
// the Registry is a static namespace of Go types, ProtoResolver covers
// protobuf messages, and Chain combines them.
package typeref

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrMalformed      = errors.New("malformed type reference")
	ErrModuleNotFound = errors.New("module not found")
	ErrNameNotFound   = errors.New("name not found")
	ErrNotAType       = errors.New("not a type")
)

var (
	identRe = regexp.MustCompile(`^[\pL_][\pL\pN_]*$`)
	pathRe  = regexp.MustCompile(`^[\w./~-]+$`)
)

// Reference is a parsed textual type reference: either a bare name or a
// dotted path <module>.<name>.
type Reference struct {
	// Module is the module (import path or protobuf package). Empty for bare names.
	Module string
	// Name is the type name within Module, or the bare name.
	Name string
	// Pointer is set for references written with a leading '*'.
	Pointer bool
}

// Parse parses a reference. Dotted references split on the last '.', so Go
// import paths containing dots are kept whole.
func Parse(text string) (Reference, error) {
	s := strings.TrimSpace(text)
	var ref Reference
	if strings.HasPrefix(s, "*") {
		ref.Pointer = true
		s = s[1:]
	}
	if s == "" {
		return Reference{}, fmt.Errorf("%w: empty reference", ErrMalformed)
	}
	if !pathRe.MatchString(s) {
		return Reference{}, fmt.Errorf("%w: %q", ErrMalformed, text)
	}

	if idx := strings.LastIndex(s, "."); idx >= 0 {
		ref.Module, ref.Name = s[:idx], s[idx+1:]
		if ref.Module == "" {
			return Reference{}, fmt.Errorf("%w: %q has an empty module", ErrMalformed, text)
		}
	} else {
		ref.Name = s
	}
	if !identRe.MatchString(ref.Name) {
		return Reference{}, fmt.Errorf("%w: %q is not an identifier", ErrMalformed, ref.Name)
	}
	return ref, nil
}

// ParseValue parses a reference given as an arbitrary value; only strings are
// textual references.
func ParseValue(v any) (Reference, error) {
	s, ok := v.(string)
	if !ok {
		return Reference{}, fmt.Errorf("%w: non-textual reference %v (%T)", ErrMalformed, v, v)
	}
	return Parse(s)
}

// IsDotted reports whether the reference names a module.
func (r Reference) IsDotted() bool { return r.Module != "" }

func (r Reference) String() string {
	var sb strings.Builder
	if r.Pointer {
		sb.WriteByte('*')
	}
	if r.Module != "" {
		sb.WriteString(r.Module)
		sb.WriteByte('.')
	}
	sb.WriteString(r.Name)
	return sb.String()
}
