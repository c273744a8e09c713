package devauthiris

import (
	"context"
	"errors"
	"net/http"

	"github.com/kataras/iris/v12"

	"github.com/storagegate/devauth"
	"github.com/storagegate/devauth/core"
)

// contextKey stores the Iris context in the request context.
type contextKey struct{}

// irisMiddlewareConfig holds configuration for the Iris adapter.
type irisMiddlewareConfig struct {
	errorHandler func(iris.Context, error)
	exclusions   []string
	logger       devauth.Logger
}

// New creates an Iris middleware around an existing engine.
//
// The credential is stored in the request context; use GetCredential in
// handlers.
func New(engine *core.Core, opts ...Option) (iris.Handler, error) {
	config := &irisMiddlewareConfig{
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(config)
	}

	middlewareOpts := []devauth.Option{
		devauth.WithCore(engine),
		devauth.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			c, ok := r.Context().Value(contextKey{}).(iris.Context)
			if !ok || c == nil {
				devauth.DefaultErrorHandler(w, r, err)
				return
			}
			config.errorHandler(c, err)
		}),
	}
	if len(config.exclusions) > 0 {
		middlewareOpts = append(middlewareOpts, devauth.WithExclusionURLs(config.exclusions...))
	}
	if config.logger != nil {
		middlewareOpts = append(middlewareOpts, devauth.WithLogger(config.logger))
	}

	middleware, err := devauth.New(middlewareOpts...)
	if err != nil {
		return nil, err
	}

	return func(c iris.Context) {
		req := c.Request().WithContext(context.WithValue(c.Request().Context(), contextKey{}, c))
		c.ResetRequest(req)

		proceeded := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			proceeded = true
			c.ResetRequest(r)
			c.Next()
		}

		middleware.CheckAuth(handler).ServeHTTP(c.ResponseWriter(), c.Request())

		if !proceeded {
			c.StopExecution()
		}
	}, nil
}

// GetCredential returns the credential the request was admitted with.
func GetCredential(c iris.Context) (core.Credential, error) {
	return core.GetCredential(c.Request().Context())
}

func defaultErrorHandler(c iris.Context, err error) {
	var requestErr *core.RequestError
	switch {
	case errors.As(err, &requestErr):
		c.StopWithText(iris.StatusPreconditionFailed, "%s", requestErr.Reason)
	case errors.Is(err, core.ErrUnauthorized):
		c.StopWithText(iris.StatusUnauthorized, "Unauthorized")
	default:
		c.StopWithText(iris.StatusInternalServerError, "Something went wrong while checking the auth token.")
	}
}
