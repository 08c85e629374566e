package typesafe

import (
	"fmt"
	"io"
	"os"

	"github.com/funvibe/typesafe/internal/config"
	"github.com/funvibe/typesafe/internal/introspect"
	"github.com/funvibe/typesafe/internal/typeref"
	"github.com/funvibe/typesafe/internal/validator"
)

// Option configures a wrapper.
type Option func(*options)

type options struct {
	// resolver turns references into descriptors. Defaults to the
	// process-wide registry.
	resolver typeref.Resolver

	// verifier is the structural fallback for type-like values.
	verifier validator.Verifier

	// inspector reads formal names and doc comments from source.
	inspector *introspect.Inspector

	// names, when set, replaces source introspection of formal names.
	names []string

	// doc, when set, replaces the doc comment read from source.
	doc    string
	hasDoc bool

	// name is the display name used in errors and String.
	name string

	// verbose enables resolution logging to logOut.
	verbose bool
	logOut  io.Writer
}

func newOptions(opts []Option) *options {
	o := &options{logOut: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}
	if o.resolver == nil {
		o.resolver = typeref.Default()
	}
	if o.inspector == nil {
		o.inspector = introspect.Default()
	}
	return o
}

// WithResolver sets the resolver for type references.
func WithResolver(r typeref.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithRegistry resolves type references against reg.
func WithRegistry(reg *typeref.Registry) Option {
	return func(o *options) { o.resolver = reg }
}

// WithVerifier sets the structural verifier consulted when a type-like value
// is not a nominal subtype of the declared type.
func WithVerifier(v validator.Verifier) Option {
	return func(o *options) { o.verifier = v }
}

// WithNames supplies the formal parameter names in declaration order.
// Required for closures, which cannot be introspected.
func WithNames(names ...string) Option {
	return func(o *options) { o.names = names }
}

// WithDoc supplies the documentation to extract the specification from.
func WithDoc(doc string) Option {
	return func(o *options) { o.doc, o.hasDoc = doc, true }
}

// WithName sets the name shown in errors and String.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithInspector sets the source inspector.
func WithInspector(ins *introspect.Inspector) Option {
	return func(o *options) { o.inspector = ins }
}

// WithVerbose enables logging of specification resolution.
func WithVerbose(v bool) Option {
	return func(o *options) { o.verbose = v }
}

// WithLogOutput redirects verbose logging, stderr by default.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOut = w }
}

func (o *options) logf(format string, args ...any) {
	if !o.verbose {
		return
	}
	fmt.Fprintf(o.logOut, config.LogPrefix+" "+format+"\n", args...)
}
