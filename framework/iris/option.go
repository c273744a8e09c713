package devauthiris

import (
	"github.com/kataras/iris/v12"

	"github.com/storagegate/devauth"
)

// Option is a function that configures the middleware
type Option func(*irisMiddlewareConfig)

// WithErrorHandler sets a custom error handler
func WithErrorHandler(handler func(iris.Context, error)) Option {
	return func(config *irisMiddlewareConfig) {
		if handler != nil {
			config.errorHandler = handler
		}
	}
}

func WithExclusionURLs(urls ...string) Option {
	return func(config *irisMiddlewareConfig) {
		config.exclusions = append(config.exclusions, urls...)
	}
}

func WithLogger(logger devauth.Logger) Option {
	return func(config *irisMiddlewareConfig) {
		config.logger = logger
	}
}
