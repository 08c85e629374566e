// Package validator decides whether a value satisfies a type descriptor.
package validator

import (
	"reflect"

	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/protobuf/proto"

	"github.com/funvibe/typesafe/internal/config"
	"github.com/funvibe/typesafe/internal/errs"
	"github.com/funvibe/typesafe/internal/typeref"
)

// Verifier decides whether a type structurally satisfies a contract type
// when it is not a nominal subtype of it.
type Verifier interface {
	Satisfies(candidate, contract reflect.Type) bool
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(candidate, contract reflect.Type) bool

func (f VerifierFunc) Satisfies(candidate, contract reflect.Type) bool { return f(candidate, contract) }

// Validator checks values against descriptors. It is stateless apart from
// its verifier and safe for concurrent use.
type Validator struct {
	verifier Verifier
}

// New creates a Validator falling back to v for type-like values.
// A nil v means Structural.
func New(v Verifier) *Validator {
	if v == nil {
		v = Structural{}
	}
	return &Validator{verifier: v}
}

// Check returns a *errs.TypeError when value does not satisfy d.
// Only an untyped nil counts as "no value".
func (v *Validator) Check(name string, value any, d typeref.Descriptor) error {
	if value == nil {
		if d.Kind == typeref.KindNone || isEmptyInterface(d) {
			return nil
		}
		return mismatch(name, d, value)
	}

	ok := false
	switch d.Kind {
	case typeref.KindInstance:
		// Class objects are values only of the empty interface.
		if _, isType := value.(reflect.Type); isType && !isEmptyInterface(d) {
			break
		}
		ok = typeref.IsSubtype(reflect.TypeOf(value), d.Type)
	case typeref.KindClass:
		if t, isType := value.(reflect.Type); isType {
			ok = v.typeLike(t, d.Type)
		}
	case typeref.KindCallable:
		if rv := reflect.ValueOf(value); rv.Kind() == reflect.Func && !rv.IsNil() {
			ok = d.Type == nil || v.typeLike(rv.Type(), d.Type)
		}
	case typeref.KindMessage:
		ok = messageName(value) == d.Message
	}
	if !ok {
		return mismatch(name, d, value)
	}
	return nil
}

// typeLike applies the subtype rule, then the verifier.
func (v *Validator) typeLike(t, target reflect.Type) bool {
	return typeref.IsSubtype(t, target) || v.verifier.Satisfies(t, target)
}

func isEmptyInterface(d typeref.Descriptor) bool {
	return d.Kind == typeref.KindInstance && d.Type != nil &&
		d.Type.Kind() == reflect.Interface && d.Type.NumMethod() == 0
}

func messageName(value any) string {
	switch m := value.(type) {
	case *dynamic.Message:
		return m.GetMessageDescriptor().GetFullyQualifiedName()
	case proto.Message:
		return string(m.ProtoReflect().Descriptor().FullName())
	}
	return ""
}

func mismatch(name string, d typeref.Descriptor, value any) error {
	return errs.NewTypeError(name, d.String(), Describe(value))
}

// Describe names the runtime type of value as it appears in errors.
func Describe(value any) string {
	switch x := value.(type) {
	case nil:
		return config.NoneTypeName
	case reflect.Type:
		return "type[" + x.String() + "]"
	case *dynamic.Message:
		return x.GetMessageDescriptor().GetFullyQualifiedName()
	}
	return reflect.TypeOf(value).String()
}
