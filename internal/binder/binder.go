// Package binder aligns call-time arguments with formal parameter names.
package binder

import (
	"sort"

	"github.com/funvibe/typesafe/internal/errs"
)

// Arguments maps formal names to supplied values for a single call.
type Arguments struct {
	values map[string]any
	// order is the order in which names were first bound.
	order []string
}

// Bind zips positional against formals and merges named on top; the last
// write for a name wins. When isMethod is set the first formal names the
// receiver, which is never bound here.
func Bind(formals []string, isMethod bool, positional []any, named map[string]any) (Arguments, error) {
	if isMethod && len(formals) > 0 {
		formals = formals[1:]
	}
	if len(positional) > len(formals) {
		return Arguments{}, &errs.SpecMismatchError{Reason: "too many positional arguments"}
	}

	a := Arguments{values: make(map[string]any, len(positional)+len(named))}
	for i, v := range positional {
		a.set(formals[i], v)
	}

	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a.set(name, named[name])
	}
	return a, nil
}

func (a *Arguments) set(name string, v any) {
	if _, ok := a.values[name]; !ok {
		a.order = append(a.order, name)
	}
	a.values[name] = v
}

// Names returns the bound names in binding order.
func (a Arguments) Names() []string {
	return append([]string(nil), a.order...)
}

// Get returns the value bound to name.
func (a Arguments) Get(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Diff compares the bound names with keys: unexpected names were bound but
// are not keys, missing keys were never bound.
func (a Arguments) Diff(keys []string) (unexpected, missing []string) {
	declared := make(map[string]bool, len(keys))
	for _, k := range keys {
		declared[k] = true
		if _, ok := a.values[k]; !ok {
			missing = append(missing, k)
		}
	}
	for _, name := range a.order {
		if !declared[name] {
			unexpected = append(unexpected, name)
		}
	}
	return unexpected, missing
}

// Values orders the bound values by formals for the underlying call.
// Every formal must be bound and nothing else may be.
func (a Arguments) Values(formals []string) ([]any, error) {
	unexpected, missing := a.Diff(formals)
	if len(unexpected) > 0 || len(missing) > 0 {
		return nil, &errs.SpecMismatchError{Unexpected: unexpected, Missing: missing}
	}
	out := make([]any, len(formals))
	for i, f := range formals {
		out[i] = a.values[f]
	}
	return out, nil
}
