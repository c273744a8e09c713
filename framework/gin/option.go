package devauthgin

import (
	"github.com/gin-gonic/gin"

	"github.com/storagegate/devauth"
)

// Option defines a functional option for configuring the middleware
type Option func(*ginMiddlewareConfig)

// WithErrorHandler sets a custom error handler for the middleware
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(config *ginMiddlewareConfig) {
		if handler != nil {
			config.errorHandler = handler
		}
	}
}

// WithContextKey sets the gin context key the credential is stored under.
func WithContextKey(key string) Option {
	return func(config *ginMiddlewareConfig) {
		if key != "" {
			config.contextKey = key
		}
	}
}

// WithRequestExtractor overrides how path and token are read.
func WithRequestExtractor(extractor devauth.RequestExtractor) Option {
	return func(config *ginMiddlewareConfig) {
		config.requestExtractor = extractor
	}
}

// WithExclusionURLs lets the given paths through without a token.
func WithExclusionURLs(urls ...string) Option {
	return func(config *ginMiddlewareConfig) {
		config.exclusions = append(config.exclusions, urls...)
	}
}

func WithLogger(logger devauth.Logger) Option {
	return func(config *ginMiddlewareConfig) {
		config.logger = logger
	}
}
