package typesafe

import (
	"reflect"
	"sync"
)

// Method is a checked method that has not been bound to a receiver.
type Method struct {
	c *callable

	// bound caches BoundMethods by pointer receiver. Cached receivers stay
	// reachable for the lifetime of the Method.
	bound sync.Map
}

// Owner returns the receiver type the method belongs to.
func (m *Method) Owner() reflect.Type {
	return m.c.fn.Type().In(0)
}

// Bind checks recv against the owning type and returns the method bound to it.
func (m *Method) Bind(recv any) (*BoundMethod, error) {
	cacheable := recv != nil && reflect.TypeOf(recv).Kind() == reflect.Pointer
	if cacheable {
		if b, ok := m.bound.Load(recv); ok {
			return b.(*BoundMethod), nil
		}
	}
	if err := m.c.checkReceiver(recv); err != nil {
		return nil, err
	}
	b := &BoundMethod{c: m.c, recv: recv}
	if cacheable {
		actual, _ := m.bound.LoadOrStore(recv, b)
		b = actual.(*BoundMethod)
	}
	return b, nil
}

// Call binds recv and invokes the method with positional arguments.
func (m *Method) Call(recv any, args ...any) (any, error) {
	b, err := m.Bind(recv)
	if err != nil {
		return nil, err
	}
	return b.Call(args...)
}

// Name returns the display name.
func (m *Method) Name() string { return m.c.name }

// Params returns the formal parameter names, receiver first.
func (m *Method) Params() []string {
	return append([]string(nil), m.c.formals...)
}

func (m *Method) String() string { return m.c.String() }

// BoundMethod is a Method bound to a receiver that passed the owner check.
type BoundMethod struct {
	c    *callable
	recv any
}

// Receiver returns the bound receiver.
func (b *BoundMethod) Receiver() any { return b.recv }

// Call invokes the method with positional arguments.
func (b *BoundMethod) Call(args ...any) (any, error) {
	return b.c.invoke(b.recv, args, nil)
}

// CallNamed invokes the method with positional and named arguments.
func (b *BoundMethod) CallNamed(positional []any, named map[string]any) (any, error) {
	return b.c.invoke(b.recv, positional, named)
}

func (b *BoundMethod) String() string { return b.c.String() }
