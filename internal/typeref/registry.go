package typeref

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/funvibe/typesafe/internal/config"
)

// Resolver turns a Reference into a Descriptor.
type Resolver interface {
	Resolve(ref Reference) (Descriptor, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ref Reference) (Descriptor, error)

func (f ResolverFunc) Resolve(ref Reference) (Descriptor, error) { return f(ref) }

// Package is a registered module: an import path and its members.
// Members of a lazily registered package are loaded once, on first lookup.
type Package struct {
	Path string

	once    sync.Once
	load    func() map[string]any
	members map[string]any
}

func (p *Package) lookup(name string) (any, bool) {
	p.once.Do(func() {
		if p.load != nil {
			p.members = p.load()
		}
		if p.members == nil {
			p.members = make(map[string]any)
		}
	})
	m, ok := p.members[name]
	return m, ok
}

// Registry is a static namespace of Go types addressable by reference.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]any
	packages map[string]*Package
	aliases  map[string]string
}

// NewRegistry creates a registry holding only the builtin namespace.
func NewRegistry() *Registry {
	return &Registry{
		builtins: builtinNamespace(),
		packages: make(map[string]*Package),
		aliases:  make(map[string]string),
	}
}

func builtinNamespace() map[string]any {
	return map[string]any{
		"bool":       reflect.TypeFor[bool](),
		"string":     reflect.TypeFor[string](),
		"int":        reflect.TypeFor[int](),
		"int8":       reflect.TypeFor[int8](),
		"int16":      reflect.TypeFor[int16](),
		"int32":      reflect.TypeFor[int32](),
		"int64":      reflect.TypeFor[int64](),
		"uint":       reflect.TypeFor[uint](),
		"uint8":      reflect.TypeFor[uint8](),
		"uint16":     reflect.TypeFor[uint16](),
		"uint32":     reflect.TypeFor[uint32](),
		"uint64":     reflect.TypeFor[uint64](),
		"uintptr":    reflect.TypeFor[uintptr](),
		"float32":    reflect.TypeFor[float32](),
		"float64":    reflect.TypeFor[float64](),
		"complex64":  reflect.TypeFor[complex64](),
		"complex128": reflect.TypeFor[complex128](),
		"byte":       reflect.TypeFor[byte](),
		"rune":       reflect.TypeFor[rune](),
		"error":      reflect.TypeFor[error](),
		"any":        reflect.TypeFor[any](),

		config.NoneTypeName: None,
		config.NilTypeName:  None,
		config.TypeTypeName: ClassOf[any](),
		config.FuncTypeName: Descriptor{Kind: KindCallable},
	}
}

// Register adds members to the package at pkgPath, creating it if needed.
// Packages are replaced copy-on-write so concurrent lookups never observe a
// partially updated member set. A pending loader of pkgPath runs first,
// outside the registry lock, so it may itself use the registry.
func (r *Registry) Register(pkgPath string, members map[string]any) {
	for {
		r.mu.RLock()
		old := r.packages[pkgPath]
		r.mu.RUnlock()
		if old != nil {
			old.lookup("")
		}

		r.mu.Lock()
		if r.packages[pkgPath] != old {
			// Replaced while loading; merge into the newer registration.
			r.mu.Unlock()
			continue
		}
		merged := make(map[string]any, len(members))
		if old != nil {
			for name, m := range old.members {
				merged[name] = m
			}
		}
		for name, m := range members {
			merged[name] = m
		}
		p := &Package{Path: pkgPath, members: merged}
		p.once.Do(func() {})
		r.packages[pkgPath] = p
		r.mu.Unlock()
		return
	}
}

// RegisterLoader registers a package whose members are produced by load on
// first lookup. The loader runs at most once. It replaces any previous
// registration of pkgPath.
func (r *Registry) RegisterLoader(pkgPath string, load func() map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[pkgPath] = &Package{Path: pkgPath, load: load}
}

// RegisterType registers T under its own package path and name.
func RegisterType[T any](r *Registry) {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		panic(fmt.Sprintf("typeref.RegisterType: %s is not a named package-level type", t))
	}
	r.Register(t.PkgPath(), map[string]any{t.Name(): t})
}

// Alias makes short usable as the module of dotted references to pkgPath.
func (r *Registry) Alias(short, pkgPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[short] = pkgPath
}

// Resolve implements Resolver.
func (r *Registry) Resolve(ref Reference) (Descriptor, error) {
	if !ref.IsDotted() {
		r.mu.RLock()
		member, ok := r.builtins[ref.Name]
		r.mu.RUnlock()
		if !ok {
			return Descriptor{}, fmt.Errorf("%w: %q is not a builtin type", ErrNameNotFound, ref.Name)
		}
		return classify(ref, member)
	}

	pkg, err := r.findPackage(ref.Module)
	if err != nil {
		return Descriptor{}, err
	}
	member, ok := pkg.lookup(ref.Name)
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s has no member %q", ErrNameNotFound, pkg.Path, ref.Name)
	}
	return classify(ref, member)
}

// findPackage looks a module up by import path, then alias, then by a unique
// last path element.
func (r *Registry) findPackage(module string) (*Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.packages[module]; ok {
		return p, nil
	}
	if target, ok := r.aliases[module]; ok {
		if p, ok := r.packages[target]; ok {
			return p, nil
		}
		return nil, fmt.Errorf("%w: alias %s points to unregistered %s", ErrModuleNotFound, module, target)
	}

	var matches []*Package
	for p, pkg := range r.packages {
		if path.Base(p) == module {
			matches = append(matches, pkg)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, module)
	case 1:
		return matches[0], nil
	}
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = m.Path
	}
	sort.Strings(paths)
	return nil, fmt.Errorf("%w: %s is ambiguous (%s)", ErrModuleNotFound, module, strings.Join(paths, ", "))
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Chain tries each resolver in order, moving to the next one only when the
// module is unknown to the current one.
func Chain(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(ref Reference) (Descriptor, error) {
		var firstErr error
		for _, res := range resolvers {
			d, err := res.Resolve(ref)
			if err == nil {
				return d, nil
			}
			if !isModuleNotFound(err) {
				return Descriptor{}, err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("%w: %s", ErrModuleNotFound, ref.Module)
		}
		return Descriptor{}, firstErr
	})
}

func isModuleNotFound(err error) bool {
	return errors.Is(err, ErrModuleNotFound)
}
