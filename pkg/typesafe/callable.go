package typesafe

import (
	"errors"
	"reflect"
	"runtime"

	"github.com/funvibe/typesafe/internal/binder"
	"github.com/funvibe/typesafe/internal/config"
	"github.com/funvibe/typesafe/internal/errs"
	"github.com/funvibe/typesafe/internal/introspect"
	"github.com/funvibe/typesafe/internal/spec"
	"github.com/funvibe/typesafe/internal/typeref"
	"github.com/funvibe/typesafe/internal/validator"
)

var errorType = reflect.TypeFor[error]()

// callable is the state shared by every wrapper kind: the underlying func,
// its formal names and the resolved specification. Immutable once built.
type callable struct {
	name    string
	fn      reflect.Value
	formals []string
	// isMethod marks formals[0] as the receiver.
	isMethod bool

	spec      *spec.Spec
	validator *validator.Validator

	// returnsValue and returnsError describe the result shape.
	returnsValue bool
	returnsError bool
}

// newCallable checks the shape of fn, finds its formal names and builds its
// specification, from explicit when not nil, else from documentation.
func newCallable(fn any, isMethod bool, explicit spec.Raw, o *options) (*callable, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, errs.NewConfigError("%T is not a function", fn)
	}
	t := v.Type()
	if isMethod && t.NumIn() == 0 {
		return nil, errs.NewConfigError("method %s has no receiver parameter", t)
	}

	c := &callable{
		fn:        v,
		isMethod:  isMethod,
		validator: validator.New(o.verifier),
	}
	if err := c.resultShape(t); err != nil {
		return nil, err
	}

	rtName, nameErr := introspect.FuncName(fn)
	c.name = displayName(o, v, rtName, nameErr)
	if nameErr == nil && isMethod && rtName.MethodValue {
		return nil, errs.NewConfigError("%s is a method value; wrap the method expression instead", c.name)
	}

	var info introspect.FuncInfo
	infoErr := nameErr
	if nameErr == nil && (o.names == nil || (explicit == nil && !o.hasDoc)) {
		info, infoErr = o.inspector.Inspect(fn)
	}

	formals, err := c.formalNames(t, o, info, infoErr)
	if err != nil {
		return nil, err
	}
	c.formals = formals

	raw := explicit
	if raw == nil {
		doc := o.doc
		if !o.hasDoc {
			doc = info.Doc
		}
		if raw, err = spec.FromDoc(c.name, doc); err != nil {
			return nil, err
		}
	}
	if c.spec, err = spec.Build(raw, o.resolver); err != nil {
		return nil, err
	}

	o.logf("%s: resolved %s", c.name, c.spec.Format(c.name))
	return c, nil
}

func displayName(o *options, v reflect.Value, n introspect.Name, err error) string {
	switch {
	case o.name != "":
		return o.name
	case err == nil && n.IsMethod():
		return n.Recv + "." + n.Name
	case err == nil:
		return n.Name
	}
	if rf := runtime.FuncForPC(v.Pointer()); rf != nil {
		return rf.Name()
	}
	return v.Type().String()
}

// resultShape accepts (), (T), (error) and (T, error).
func (c *callable) resultShape(t reflect.Type) error {
	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) == errorType {
			c.returnsError = true
		} else {
			c.returnsValue = true
		}
	case 2:
		if t.Out(1) != errorType {
			return errs.NewConfigError("second result of %s must be error", t)
		}
		c.returnsValue, c.returnsError = true, true
	default:
		return errs.NewConfigError("%s returns %d results; at most a value and an error are supported", t, t.NumOut())
	}
	return nil
}

// formalNames returns the declared parameter names, receiver first for
// methods. Explicit names win over source introspection.
func (c *callable) formalNames(t reflect.Type, o *options, info introspect.FuncInfo, infoErr error) ([]string, error) {
	n := t.NumIn()
	if o.names != nil {
		names := o.names
		if c.isMethod && len(names) == n-1 {
			names = append([]string{"recv"}, names...)
		}
		if len(names) != n {
			return nil, errs.NewConfigError("%s takes %d parameters but %d names were given", c.name, n, len(o.names))
		}
		return names, nil
	}
	if n == 0 {
		return nil, nil
	}
	if infoErr != nil {
		if errors.Is(infoErr, introspect.ErrNotIntrospectable) {
			return nil, errs.NewConfigError("formal names of %s are unknown: %v; supply them with WithNames", c.name, infoErr)
		}
		return nil, errs.NewConfigError("reading the source of %s: %v", c.name, infoErr)
	}
	if len(info.Params) != n {
		return nil, errs.NewConfigError("%s declares %d parameters in source but takes %d", c.name, len(info.Params), n)
	}
	return info.Params, nil
}

// params returns the formal names supplied through the argument path.
func (c *callable) params() []string {
	if c.isMethod {
		return c.formals[1:]
	}
	return c.formals
}

// checkReceiver validates recv against the method's owning type.
func (c *callable) checkReceiver(recv any) error {
	return c.validator.Check(c.formals[0], recv, typeref.Instance(c.fn.Type().In(0)))
}

// invoke runs one checked call: bind, compare with the specification, validate each
// entry, call, validate the result. recv is only used for methods.
func (c *callable) invoke(recv any, positional []any, named map[string]any) (any, error) {
	args, err := binder.Bind(c.formals, c.isMethod, positional, named)
	if err != nil {
		var sm *errs.SpecMismatchError
		if errors.As(err, &sm) {
			sm.Func = c.name
		}
		return nil, err
	}

	if unexpected, missing := args.Diff(c.spec.Names()); len(unexpected) > 0 || len(missing) > 0 {
		return nil, &errs.SpecMismatchError{Func: c.name, Unexpected: unexpected, Missing: missing}
	}
	for _, e := range c.spec.Params() {
		v, _ := args.Get(e.Name)
		if err := c.validator.Check(e.Name, v, e.Descriptor); err != nil {
			return nil, err
		}
	}

	values, err := args.Values(c.params())
	if err != nil {
		var sm *errs.SpecMismatchError
		if errors.As(err, &sm) {
			sm.Func = c.name
		}
		return nil, err
	}
	in, err := c.convertArgs(recv, values)
	if err != nil {
		return nil, err
	}

	var out []reflect.Value
	if c.fn.Type().IsVariadic() {
		out = c.fn.CallSlice(in)
	} else {
		out = c.fn.Call(in)
	}

	result, err := c.results(out)
	if err != nil {
		return nil, err
	}
	if ret, ok := c.spec.Return(); ok {
		if err := c.validator.Check(config.ReturnKey, result, ret.Descriptor); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// convertArgs turns validated values into call arguments, receiver first
// for methods.
func (c *callable) convertArgs(recv any, values []any) ([]reflect.Value, error) {
	t := c.fn.Type()
	in := make([]reflect.Value, 0, t.NumIn())
	names := c.formals
	if c.isMethod {
		rv, err := toValue(names[0], recv, t.In(0))
		if err != nil {
			return nil, err
		}
		in = append(in, rv)
		names = names[1:]
	}
	for i, v := range values {
		rv, err := toValue(names[i], v, t.In(len(in)))
		if err != nil {
			return nil, err
		}
		in = append(in, rv)
	}
	return in, nil
}

// toValue converts v to a value of the Go parameter type target. Values
// accepted by the specification may still not fit the Go signature.
func toValue(name string, v any, target reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch target.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(target), nil
		}
		return reflect.Value{}, errs.NewTypeError(name, target.String(), config.NoneTypeName)
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(target) {
		return reflect.Value{}, errs.NewTypeError(name, target.String(), rv.Type().String())
	}
	return rv, nil
}

// results unpacks the call results. A non-nil trailing error is returned
// unchanged.
func (c *callable) results(out []reflect.Value) (any, error) {
	if c.returnsError {
		if errV := out[len(out)-1]; !errV.IsNil() {
			return nil, errV.Interface().(error)
		}
	}
	if !c.returnsValue {
		return nil, nil
	}
	return out[0].Interface(), nil
}

func (c *callable) String() string {
	return c.spec.Format(c.name)
}
