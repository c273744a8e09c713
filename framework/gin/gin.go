package devauthgin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storagegate/devauth"
	"github.com/storagegate/devauth/core"
)

const DefaultCredentialKey = "devauth.credential"

var (
	ErrMissingCredential = errors.New("no credential found in gin context")
	ErrInvalidCredential = errors.New("invalid credential type in gin context")
)

type ginMiddlewareConfig struct {
	errorHandler     func(*gin.Context, error)
	contextKey       string
	requestExtractor devauth.RequestExtractor
	exclusions       []string
	logger           devauth.Logger
}

// New creates a Gin middleware around an existing engine, so a gin router
// and a plain net/http gate can share one cache and authority client.
func New(engine *core.Core, opts ...Option) (gin.HandlerFunc, error) {
	config := &ginMiddlewareConfig{
		errorHandler: defaultErrorHandler,
		contextKey:   DefaultCredentialKey,
	}
	for _, opt := range opts {
		opt(config)
	}

	middlewareOpts := []devauth.Option{
		devauth.WithCore(engine),
		devauth.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			gc, ok := ginContextFrom(r.Context())
			if !ok {
				devauth.DefaultErrorHandler(w, r, err)
				return
			}
			config.errorHandler(gc, err)
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

	return func(c *gin.Context) {
		proceeded := false
		var next http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			proceeded = true
			c.Request = r
			if cred, err := devauth.GetCredential(r.Context()); err == nil {
				c.Set(config.contextKey, cred)
			}
			c.Next()
		}

		// The error handler finds c again through the request context.
		r := c.Request.WithContext(withGinContext(c))
		middleware.CheckAuth(next).ServeHTTP(c.Writer, r)

		if !proceeded {
			c.Abort()
		}
	}, nil
}

func defaultErrorHandler(c *gin.Context, err error) {
	var requestErr *core.RequestError
	switch {
	case errors.As(err, &requestErr):
		c.String(http.StatusPreconditionFailed, requestErr.Reason)
	case errors.Is(err, core.ErrUnauthorized):
		c.String(http.StatusUnauthorized, "Unauthorized")
	default:
		c.String(http.StatusInternalServerError, "Something went wrong while checking the auth token.")
	}
	c.Abort()
}

// GetCredential returns the credential stored by the middleware.
func GetCredential(c *gin.Context, contextKey string) (core.Credential, error) {
	if contextKey == "" {
		contextKey = DefaultCredentialKey
	}
	value, exists := c.Get(contextKey)
	if !exists {
		return core.Credential{}, ErrMissingCredential
	}
	cred, ok := value.(core.Credential)
	if !ok {
		return core.Credential{}, ErrInvalidCredential
	}
	return cred, nil
}
