package typesafe

import (
	"fmt"

	"github.com/funvibe/typesafe/internal/config"
	"github.com/funvibe/typesafe/internal/introspect"
	"github.com/funvibe/typesafe/internal/typeref"
)

// Environment bundles the collaborators wrappers share: a type registry, a
// protobuf resolver, a source inspector and, optionally, a typesafe.yaml
// configuration with named specifications.
type Environment struct {
	Registry  *typeref.Registry
	Protos    *typeref.ProtoResolver
	Inspector *introspect.Inspector

	cfg  *config.Config
	opts []Option
}

// NewEnvironment creates an environment with an empty registry and no
// configuration. opts apply to every wrapper it creates.
func NewEnvironment(opts ...Option) *Environment {
	return &Environment{
		Registry:  typeref.NewRegistry(),
		Protos:    typeref.NewProtoResolver(),
		Inspector: introspect.NewInspector(""),
		opts:      opts,
	}
}

// LoadEnvironment creates an environment configured from the typesafe.yaml
// at path.
func LoadEnvironment(path string, opts ...Option) (*Environment, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	env := NewEnvironment(opts...)
	if err := env.Configure(cfg); err != nil {
		return nil, err
	}
	return env, nil
}

// FindEnvironment looks for typesafe.yaml from dir upwards and loads it.
// Without a configuration file it returns an unconfigured environment.
func FindEnvironment(dir string, opts ...Option) (*Environment, error) {
	path, err := config.FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return NewEnvironment(opts...), nil
	}
	return LoadEnvironment(path, opts...)
}

// Configure applies aliases and proto sources from cfg and keeps its named
// specifications for Wrap.
func (e *Environment) Configure(cfg *config.Config) error {
	for short, target := range cfg.Aliases {
		e.Registry.Alias(short, target)
	}
	if cfg.Protos != nil {
		e.Protos = typeref.NewProtoResolver(cfg.Protos.ImportPaths...)
		if err := e.Protos.LoadFiles(cfg.Protos.Files...); err != nil {
			return fmt.Errorf("%s: %w", cfg.Dir, err)
		}
	}
	e.cfg = cfg
	return nil
}

// Resolver resolves against the registry, then protobuf messages.
func (e *Environment) Resolver() typeref.Resolver {
	return typeref.Chain(e.Registry, e.Protos)
}

func (e *Environment) options(opts []Option) []Option {
	all := []Option{WithResolver(e.Resolver()), WithInspector(e.Inspector)}
	all = append(all, e.opts...)
	return append(all, opts...)
}

// decorator picks the named specification for fn from the configuration,
// falling back to documentation.
func (e *Environment) decorator(fn any, opts []Option) (*Decorator, error) {
	if e.cfg == nil || len(e.cfg.Specs) == 0 {
		return Decorate()
	}
	o := newOptions(opts)
	name := o.name
	if name == "" {
		n, err := introspect.FuncName(fn)
		if err != nil {
			return Decorate()
		}
		name = n.Name
		if n.IsMethod() {
			name = n.Recv + "." + n.Name
		}
	}
	if sc, ok := e.cfg.Lookup(name); ok {
		o.logf("%s: using configured specification", name)
		return Decorate(sc.Types)
	}
	return Decorate()
}

// Wrap decorates fn with its configured specification, or from its
// documentation when the configuration has none.
func (e *Environment) Wrap(fn any, opts ...Option) (*Func, error) {
	all := e.options(opts)
	d, err := e.decorator(fn, all)
	if err != nil {
		return nil, err
	}
	return d.Apply(fn, all...)
}

// WrapMethod is Wrap for method expressions. Configured specifications are
// looked up as "Recv.Method".
func (e *Environment) WrapMethod(fn any, opts ...Option) (*Method, error) {
	all := e.options(opts)
	d, err := e.decorator(fn, all)
	if err != nil {
		return nil, err
	}
	return d.ApplyMethod(fn, all...)
}

// Decorate applies an explicit specification with the environment's
// collaborators.
func (e *Environment) Decorate(fn any, types any, opts ...Option) (*Func, error) {
	d, err := Decorate(types)
	if err != nil {
		return nil, err
	}
	return d.Apply(fn, e.options(opts)...)
}
