// Package grpcguard enforces typesafe specifications on gRPC unary handlers.
//
// Specifications are keyed by full method name ("/pkg.Service/Method") and
// declare the request type under "request" and, optionally, the response
// type under "return":
//
//	guard, err := grpcguard.UnaryServerInterceptor(map[string]any{
//		"/shop.v1.Shop/Order": map[string]string{
//			"request": "shop.v1.OrderRequest",
//			"return":  "shop.v1.Receipt",
//		},
//	})
//	srv := grpc.NewServer(grpc.UnaryInterceptor(guard))
package grpcguard

import (
	"context"
	"sort"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/funvibe/typesafe/internal/config"
	"github.com/funvibe/typesafe/internal/errs"
	"github.com/funvibe/typesafe/internal/spec"
	"github.com/funvibe/typesafe/internal/typeref"
	"github.com/funvibe/typesafe/internal/validator"
)

// Option configures the interceptor.
type Option func(*options)

type options struct {
	resolver typeref.Resolver
	verifier validator.Verifier
}

// WithResolver sets the resolver for type references. Defaults to the
// process-wide registry chained with the compiled protobuf messages.
func WithResolver(r typeref.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithVerifier sets the structural verifier.
func WithVerifier(v validator.Verifier) Option {
	return func(o *options) { o.verifier = v }
}

type methodSpec struct {
	request  typeref.Descriptor
	response *typeref.Descriptor
}

// UnaryServerInterceptor builds an interceptor checking requests and
// responses of the listed methods. Requests failing their check are
// rejected with InvalidArgument before the handler runs; responses failing
// theirs become Internal errors. Unlisted methods pass through.
func UnaryServerInterceptor(specs map[string]any, opts ...Option) (grpc.UnaryServerInterceptor, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.resolver == nil {
		o.resolver = typeref.Chain(typeref.Default(), typeref.NewProtoResolver())
	}
	v := validator.New(o.verifier)

	methods := make([]string, 0, len(specs))
	for m := range specs {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	guards := make(map[string]methodSpec, len(specs))
	for _, method := range methods {
		raw, err := spec.FromMapping(specs[method])
		if err != nil {
			return nil, err
		}
		s, err := spec.Build(raw, o.resolver)
		if err != nil {
			return nil, err
		}
		ms, err := toMethodSpec(method, s)
		if err != nil {
			return nil, err
		}
		guards[method] = ms
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ms, ok := guards[info.FullMethod]
		if !ok {
			return handler(ctx, req)
		}
		if err := v.Check(config.RequestKey, req, ms.request); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		resp, err := handler(ctx, req)
		if err != nil || ms.response == nil {
			return resp, err
		}
		if err := v.Check(config.ReturnKey, resp, *ms.response); err != nil {
			return nil, status.Errorf(codes.Internal, "%s: %v", info.FullMethod, err)
		}
		return resp, nil
	}, nil
}

func toMethodSpec(method string, s *spec.Spec) (methodSpec, error) {
	var ms methodSpec
	for _, name := range s.Names() {
		if name != config.RequestKey {
			return ms, errs.NewConfigError("%s: unsupported key %q; only %q and %q are allowed",
				method, name, config.RequestKey, config.ReturnKey)
		}
	}
	req, ok := s.Lookup(config.RequestKey)
	if !ok {
		return ms, errs.NewConfigError("%s: %q is required", method, config.RequestKey)
	}
	ms.request = req.Descriptor
	if ret, ok := s.Return(); ok {
		ms.response = &ret.Descriptor
	}
	return ms, nil
}
