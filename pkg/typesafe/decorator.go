// Package typesafe enforces declared argument and return types on Go
// functions at every call.
//
// A specification maps parameter names, plus the reserved key "return", to
// type references such as "int", "geometry.Point" or "*geometry.Point". It
// comes either from an explicit mapping or from the function's doc comment:
//
//	// Add returns a + b.
//	//
//	// :type a: int
//	// :type b: int
//	// :rtype: int
//	func Add(a, b any) any { ... }
//
//	add, err := typesafe.Wrap(Add)
//	sum, err := add.Call(2, 3)
//
// A documented function without :rtype must return no value. Arguments are
// validated before the function runs, so a rejected call has no side
// effects; the result is validated after it ran.
package typesafe

import (
	"reflect"

	"github.com/funvibe/typesafe/internal/config"
	"github.com/funvibe/typesafe/internal/errs"
	"github.com/funvibe/typesafe/internal/spec"
)

// Decorator is a configured decoration waiting for the function it applies
// to. The specification is resolved when it is applied.
type Decorator struct {
	explicit spec.Raw
}

// Decorate configures a decoration. With no argument (or a nil one) the
// specification comes from documentation; with a single mapping it is that
// mapping. Any other argument shape is a ConfigError, including a function:
// wrap functions directly with Wrap.
func Decorate(args ...any) (*Decorator, error) {
	switch len(args) {
	case 0:
		return &Decorator{}, nil
	case 1:
	default:
		return nil, errs.NewConfigError("expected at most one mapping, got %d arguments", len(args))
	}

	arg := args[0]
	if arg == nil {
		return &Decorator{}, nil
	}
	if reflect.TypeOf(arg).Kind() == reflect.Func {
		return nil, errs.NewConfigError("Decorate takes a specification, not a function; use Wrap")
	}
	raw, err := spec.FromMapping(arg)
	if err != nil {
		return nil, err
	}
	return &Decorator{explicit: raw}, nil
}

// Types is shorthand for an ordered explicit specification:
// Types("a", "int", "b", "int", "return", "int").
func Types(kv ...string) config.Mapping {
	return config.Pairs(kv...)
}

// Apply wraps a plain function. Extraction or resolution failures are
// returned immediately.
func (d *Decorator) Apply(fn any, opts ...Option) (*Func, error) {
	c, err := newCallable(fn, false, d.explicit, newOptions(opts))
	if err != nil {
		return nil, err
	}
	return &Func{c: c}, nil
}

// ApplyMethod wraps a method expression such as (*T).M or T.M.
func (d *Decorator) ApplyMethod(fn any, opts ...Option) (*Method, error) {
	c, err := newCallable(fn, true, d.explicit, newOptions(opts))
	if err != nil {
		return nil, err
	}
	return &Method{c: c}, nil
}

// Wrap decorates fn from its documentation.
func Wrap(fn any, opts ...Option) (*Func, error) {
	return (&Decorator{}).Apply(fn, opts...)
}

// WrapMethod decorates a method expression from its documentation. The
// owning type is the expression's first parameter.
func WrapMethod(fn any, opts ...Option) (*Method, error) {
	return (&Decorator{}).ApplyMethod(fn, opts...)
}

// Must panics if err is not nil. It is meant for package-level wrappers.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
