package typesafe

// Func is a checked plain function.
type Func struct {
	c *callable
}

// Call invokes the function with positional arguments.
func (f *Func) Call(args ...any) (any, error) {
	return f.c.invoke(nil, args, nil)
}

// CallNamed invokes the function with positional and named arguments.
func (f *Func) CallNamed(positional []any, named map[string]any) (any, error) {
	return f.c.invoke(nil, positional, named)
}

// Name returns the display name.
func (f *Func) Name() string { return f.c.name }

// Params returns the formal parameter names.
func (f *Func) Params() []string {
	return append([]string(nil), f.c.formals...)
}

// String renders the specification, e.g. "Add(a int, b int) int".
func (f *Func) String() string { return f.c.String() }
