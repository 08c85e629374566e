package typeref

import (
	"fmt"
	"reflect"
)

// Kind selects the validation rule a Descriptor asks for.
type Kind int

const (
	KindInstance Kind = iota // value must be an instance of Type
	KindClass                // value must itself be a type that is a subtype of Type
	KindCallable             // value must be a func fitting Type (nil Type: any func)
	KindMessage              // value must be a protobuf message named Message
	KindNone                 // no value
)

func (k Kind) String() string {
	switch k {
	case KindInstance:
		return "instance"
	case KindClass:
		return "class"
	case KindCallable:
		return "callable"
	case KindMessage:
		return "message"
	case KindNone:
		return "none"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Descriptor is the resolved, checkable form of a Reference.
// Descriptors are comparable; resolving a reference twice yields equal values.
type Descriptor struct {
	Kind    Kind
	Ref     string
	Type    reflect.Type
	Message string
}

// None is the "absence of value" descriptor.
var None = Descriptor{Kind: KindNone, Ref: "None"}

// Instance returns a nominal descriptor for t.
func Instance(t reflect.Type) Descriptor {
	return Descriptor{Kind: KindInstance, Ref: t.String(), Type: t}
}

// String renders the descriptor the way it appears in error messages.
func (d Descriptor) String() string {
	switch d.Kind {
	case KindNone:
		return "None"
	case KindMessage:
		return d.Message
	case KindClass:
		if d.Type == nil {
			return "type"
		}
		return "type[" + d.Type.String() + "]"
	case KindCallable:
		if d.Type == nil {
			return "func"
		}
		return d.Type.String()
	}
	if d.Type == nil {
		return d.Ref
	}
	return d.Type.String()
}

// Class marks a registry member as a type-like requirement: values checked
// against it must be types, not instances.
type Class struct {
	Type reflect.Type
}

// ClassOf returns the Class of T.
func ClassOf[T any]() Class {
	return Class{Type: reflect.TypeFor[T]()}
}

// AsClass returns the Class of t.
func AsClass(t reflect.Type) Class {
	return Class{Type: t}
}

// classify turns a registry member into a Descriptor.
func classify(ref Reference, member any) (Descriptor, error) {
	var d Descriptor
	switch m := member.(type) {
	case nil:
		return Descriptor{}, fmt.Errorf("%w: %s is nil", ErrNotAType, ref)
	case Descriptor:
		d = m
	case reflect.Type:
		d = Descriptor{Kind: KindInstance, Type: m}
	case Class:
		d = Descriptor{Kind: KindClass, Type: m.Type}
	default:
		v := reflect.ValueOf(member)
		if v.Kind() != reflect.Func {
			return Descriptor{}, fmt.Errorf("%w: %s is a %T value", ErrNotAType, ref, member)
		}
		d = Descriptor{Kind: KindCallable, Type: v.Type()}
	}

	if ref.Pointer {
		switch d.Kind {
		case KindInstance, KindClass:
			if d.Type == nil {
				return Descriptor{}, fmt.Errorf("%w: cannot take a pointer to %s", ErrMalformed, ref.Name)
			}
			d.Type = reflect.PointerTo(d.Type)
		default:
			return Descriptor{}, fmt.Errorf("%w: cannot take a pointer to %s %s", ErrMalformed, d.Kind, ref.Name)
		}
	}
	d.Ref = ref.String()
	return d, nil
}
