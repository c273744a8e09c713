package devauthecho

import (
	"github.com/labstack/echo/v4"

	"github.com/storagegate/devauth"
)

// Option is a function that configures the middleware
type Option func(*echoMiddlewareConfig)

// WithErrorHandler sets a custom error handler. A returned error is passed
// on to echo's HTTPErrorHandler.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(config *echoMiddlewareConfig) {
		if handler != nil {
			config.errorHandler = handler
		}
	}
}

// WithContextKey sets a custom context key to store the credential
func WithContextKey(key string) Option {
	return func(config *echoMiddlewareConfig) {
		if key != "" {
			config.contextKey = key
		}
	}
}

// WithRequestExtractor sets a custom request extractor
func WithRequestExtractor(extractor devauth.RequestExtractor) Option {
	return func(config *echoMiddlewareConfig) {
		config.requestExtractor = extractor
	}
}

func WithExclusionURLs(urls ...string) Option {
	return func(config *echoMiddlewareConfig) {
		config.exclusions = append(config.exclusions, urls...)
	}
}

func WithLogger(logger devauth.Logger) Option {
	return func(config *echoMiddlewareConfig) {
		config.logger = logger
	}
}
