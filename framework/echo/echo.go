package devauthecho

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storagegate/devauth"
	"github.com/storagegate/devauth/core"
)

var DefaultCredentialKey = "devauth.credential"

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	errorHandler     func(echo.Context, error) error
	contextKey       string
	requestExtractor devauth.RequestExtractor
	exclusions       []string
	logger           devauth.Logger
}

type echoContextKey struct{}

// New builds an Echo middleware around an existing engine.
func New(engine *core.Core, opts ...Option) (echo.MiddlewareFunc, error) {
	config := &echoMiddlewareConfig{
		errorHandler: defaultErrorHandler,
		contextKey:   DefaultCredentialKey,
	}
	for _, opt := range opts {
		opt(config)
	}

	middlewareOpts := []devauth.Option{
		devauth.WithCore(engine),
		devauth.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			c, ok := r.Context().Value(echoContextKey{}).(echo.Context)
			if !ok || c == nil {
				devauth.DefaultErrorHandler(w, r, err)
				return
			}
			c.Set(errorKey, config.errorHandler(c, err))
		}),
	}
	if config.requestExtractor != nil {
		middlewareOpts = append(middlewareOpts, devauth.WithRequestExtractor(config.requestExtractor))
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

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var nextErr error
			var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)
				if cred, err := devauth.GetCredential(r.Context()); err == nil {
					c.Set(config.contextKey, cred)
				}
				nextErr = next(c)
			}

			r := c.Request()
			r = r.WithContext(context.WithValue(r.Context(), echoContextKey{}, c))
			middleware.CheckAuth(handler).ServeHTTP(c.Response(), r)

			if err, ok := c.Get(errorKey).(error); ok && err != nil {
				return err
			}
			return nextErr
		}
	}, nil
}

const errorKey = "devauth.error"

func defaultErrorHandler(c echo.Context, err error) error {
	var requestErr *core.RequestError
	switch {
	case errors.As(err, &requestErr):
		return c.String(http.StatusPreconditionFailed, requestErr.Reason)
	case errors.Is(err, core.ErrUnauthorized):
		return c.String(http.StatusUnauthorized, "Unauthorized")
	default:
		return c.String(http.StatusInternalServerError, "Something went wrong while checking the auth token.")
	}
}

// GetCredential extracts the credential from the Echo context
func GetCredential(c echo.Context, contextKey string) (core.Credential, bool) {
	if contextKey == "" {
		contextKey = DefaultCredentialKey
	}
	cred, ok := c.Get(contextKey).(core.Credential)
	return cred, ok
}
