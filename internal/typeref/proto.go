package typeref

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// ProtoResolver resolves dotted references naming protobuf messages:
// the module is the protobuf package and the name is the message.
// Messages come from .proto sources loaded at runtime and from the messages
// compiled into the binary.
type ProtoResolver struct {
	mu          sync.RWMutex
	files       map[string]*desc.FileDescriptor
	importPaths []string

	types    *protoregistry.Types
	compiled *protoregistry.Files
}

// NewProtoResolver creates a resolver searching importPaths for .proto files.
func NewProtoResolver(importPaths ...string) *ProtoResolver {
	return &ProtoResolver{
		files:       make(map[string]*desc.FileDescriptor),
		importPaths: importPaths,
		types:       protoregistry.GlobalTypes,
		compiled:    protoregistry.GlobalFiles,
	}
}

// LoadFiles parses .proto files found under the import paths.
// Loading a file twice replaces the earlier descriptor.
func (p *ProtoResolver) LoadFiles(names ...string) error {
	parser := protoparse.Parser{ImportPaths: p.importPaths}
	fds, err := parser.ParseFiles(names...)
	if err != nil {
		return fmt.Errorf("parsing proto files: %w", err)
	}
	p.add(fds)
	return nil
}

// LoadSources parses in-memory .proto sources keyed by file name.
func (p *ProtoResolver) LoadSources(sources map[string]string) error {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	parser := protoparse.Parser{Accessor: protoparse.FileContentsFromMap(sources)}
	fds, err := parser.ParseFiles(names...)
	if err != nil {
		return fmt.Errorf("parsing proto sources: %w", err)
	}
	p.add(fds)
	return nil
}

func (p *ProtoResolver) add(fds []*desc.FileDescriptor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, fd := range fds {
		p.files[fd.GetName()] = fd
	}
}

// Resolve implements Resolver.
func (p *ProtoResolver) Resolve(ref Reference) (Descriptor, error) {
	if !ref.IsDotted() {
		return Descriptor{}, fmt.Errorf("%w: %s is not a protobuf name", ErrModuleNotFound, ref)
	}
	if ref.Pointer {
		return Descriptor{}, fmt.Errorf("%w: protobuf message %s cannot be a pointer reference", ErrMalformed, ref)
	}
	full := ref.Module + "." + ref.Name

	knownPkg := false
	p.mu.RLock()
	for _, fd := range p.files {
		if md := fd.FindMessage(full); md != nil {
			p.mu.RUnlock()
			return Descriptor{Kind: KindMessage, Ref: ref.String(), Message: md.GetFullyQualifiedName()}, nil
		}
		if fd.GetPackage() == ref.Module {
			knownPkg = true
		}
	}
	p.mu.RUnlock()

	if mt, err := p.types.FindMessageByName(protoreflect.FullName(full)); err == nil {
		return Descriptor{
			Kind:    KindMessage,
			Ref:     ref.String(),
			Type:    reflect.TypeOf(mt.Zero().Interface()),
			Message: full,
		}, nil
	}

	if !knownPkg {
		p.compiled.RangeFilesByPackage(protoreflect.FullName(ref.Module), func(protoreflect.FileDescriptor) bool {
			knownPkg = true
			return false
		})
	}
	if !knownPkg {
		return Descriptor{}, fmt.Errorf("%w: protobuf package %s", ErrModuleNotFound, ref.Module)
	}
	return Descriptor{}, fmt.Errorf("%w: protobuf package %s has no message %s", ErrNameNotFound, ref.Module, ref.Name)
}
