package devauthgrpc

import (
	"errors"
)

// Option configures an Interceptor.
type Option func(*Interceptor) error

// WithExcludedMethods lets the given full method names through without a
// token, e.g. health checks.
func WithExcludedMethods(methods ...string) Option {
	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		methodSet[m] = struct{}{}
	}
	return func(i *Interceptor) error {
		if len(methods) == 0 {
			return errors.New("excluded methods cannot be empty")
		}
		i.exclusionChecker = func(method string) bool {
			_, ok := methodSet[method]
			return ok
		}
		return nil
	}
}

// WithRequestExtractor overrides how path and token are read from a call.
func WithRequestExtractor(extractor RequestExtractor) Option {
	return func(i *Interceptor) error {
		if extractor == nil {
			return errors.New("request extractor cannot be nil")
		}
		i.requestExtractor = extractor
		return nil
	}
}

func WithLogger(logger Logger) Option {
	return func(i *Interceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.logger = logger
		return nil
	}
}

// WithErrorHandler sets how denials become status errors.
//
// Default: DefaultErrorHandler
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *Interceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}
