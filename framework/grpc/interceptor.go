package devauthgrpc

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/storagegate/devauth/core"
)

// Logger matches devauth.Logger and *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Interceptor gates gRPC calls on the same engine the HTTP middleware uses.
type Interceptor struct {
	core             *core.Core
	requestExtractor RequestExtractor
	exclusionChecker func(fullMethod string) bool
	errorHandler     ErrorHandler
	logger           Logger
}

// New creates an Interceptor for engine.
func New(engine *core.Core, opts ...Option) (*Interceptor, error) {
	if engine == nil {
		return nil, errors.New("core cannot be nil")
	}
	i := &Interceptor{
		core:             engine,
		requestExtractor: MetadataRequestExtractor,
		errorHandler:     DefaultErrorHandler,
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return i, nil
}

// authenticate returns ctx carrying the admitted credential, or a status
// error.
func (i *Interceptor) authenticate(ctx context.Context, method string) (context.Context, error) {
	if i.exclusionChecker != nil && i.exclusionChecker(method) {
		if i.logger != nil {
			i.logger.Debug("method excluded from auth", "method", method)
		}
		return ctx, nil
	}

	req, err := i.requestExtractor(ctx, method)
	if err != nil {
		if i.logger != nil {
			i.logger.Error("failed to extract credentials from call", "method", method, "error", err)
		}
		return nil, i.errorHandler(fmt.Errorf("error extracting request: %w", err))
	}

	out := i.core.Authorize(ctx, req)
	if out.Decision != core.Proceed {
		if i.logger != nil {
			i.logger.Info("call denied", "method", method, "decision", out.Decision.String())
		}
		return nil, i.errorHandler(out.Err)
	}
	return core.SetCredential(ctx, out.Credential), nil
}

// ErrorHandler converts a denial to the status error returned to the client.
type ErrorHandler func(error) error

// DefaultErrorHandler maps bad requests to FailedPrecondition with the
// request error's reason, unauthorized calls to Unauthenticated and
// anything else to Internal.
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	var requestErr *core.RequestError
	switch {
	case errors.As(err, &requestErr):
		return status.Error(codes.FailedPrecondition, requestErr.Reason)
	case errors.Is(err, core.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "Unauthorized")
	default:
		return status.Error(codes.Internal, "Something went wrong while checking the auth token.")
	}
}

// UnaryServerInterceptor returns a unary interceptor.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		authCtx, err := i.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(authCtx, req)
	}
}

// StreamServerInterceptor returns a stream interceptor.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		authCtx, err := i.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: authCtx})
	}
}

// wrappedServerStream wraps a grpc.ServerStream to override the context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
