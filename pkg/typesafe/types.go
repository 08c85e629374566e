package typesafe

import (
	"reflect"

	"github.com/funvibe/typesafe/internal/config"
	"github.com/funvibe/typesafe/internal/introspect"
	"github.com/funvibe/typesafe/internal/typeref"
	"github.com/funvibe/typesafe/internal/validator"
)

// Resolution types
type Registry = typeref.Registry
type Resolver = typeref.Resolver
type ResolverFunc = typeref.ResolverFunc
type Reference = typeref.Reference
type Descriptor = typeref.Descriptor
type Class = typeref.Class
type ProtoResolver = typeref.ProtoResolver

// Validation and introspection types
type Verifier = validator.Verifier
type VerifierFunc = validator.VerifierFunc
type Structural = validator.Structural
type Inspector = introspect.Inspector

// Configuration types
type Mapping = config.Mapping
type Config = config.Config

// NewRegistry creates a registry holding only the builtin types.
func NewRegistry() *Registry { return typeref.NewRegistry() }

// DefaultRegistry returns the registry wrappers use unless told otherwise.
func DefaultRegistry() *Registry { return typeref.Default() }

// NewProtoResolver creates a protobuf message resolver.
func NewProtoResolver(importPaths ...string) *ProtoResolver {
	return typeref.NewProtoResolver(importPaths...)
}

// NewInspector creates a source inspector loading packages relative to dir.
func NewInspector(dir string) *Inspector { return introspect.NewInspector(dir) }

// Chain combines resolvers; see typeref.Chain.
func Chain(resolvers ...Resolver) Resolver { return typeref.Chain(resolvers...) }

// ClassOf marks T as a type-like requirement: values must be types
// (reflect.Type) that are subtypes of T.
func ClassOf[T any]() Class { return typeref.ClassOf[T]() }

// AsClass is ClassOf for a reflect.Type.
func AsClass(t reflect.Type) Class { return typeref.AsClass(t) }

// RegisterType registers T in r under its package path and name.
func RegisterType[T any](r *Registry) { typeref.RegisterType[T](r) }

// LoadConfig reads a typesafe.yaml file.
func LoadConfig(path string) (*Config, error) { return config.LoadConfig(path) }
