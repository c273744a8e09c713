package devauth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/storagegate/devauth/cache"
	"github.com/storagegate/devauth/core"
)

// Middleware gates requests on a valid token.
type Middleware struct {
	core                *core.Core
	errorHandler        ErrorHandler
	requestExtractor    RequestExtractor
	validateOnOptions   bool
	exclusionURLHandler ExclusionURLHandler
	logger              Logger

	// Temporary fields used during construction
	checker  core.Checker
	store    cache.Store
	coreOpts []core.Option
}

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ExclusionURLHandler reports whether a request skips the gate entirely.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs a Middleware. WithChecker and WithStore are required,
// unless WithCore supplies a ready engine.
//
// Example:
//
//	gate, err := devauth.New(
//	    devauth.WithChecker(client),
//	    devauth.WithStore(store),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create middleware: %v", err)
//	}
func New(opts ...Option) (*Middleware, error) {
	m := &Middleware{
		validateOnOptions: true,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	m.applyDefaults()

	if m.core == nil {
		if err := m.createCore(); err != nil {
			return nil, fmt.Errorf("failed to create core: %w", err)
		}
	}

	return m, nil
}

func (m *Middleware) createCore() error {
	coreOpts := []core.Option{}
	if m.checker != nil {
		coreOpts = append(coreOpts, core.WithChecker(m.checker))
	}
	if m.store != nil {
		coreOpts = append(coreOpts, core.WithStore(m.store))
	}
	if m.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(m.logger))
	}
	coreOpts = append(coreOpts, m.coreOpts...)

	c, err := core.New(coreOpts...)
	if err != nil {
		return err
	}
	m.core = c
	return nil
}

func (m *Middleware) applyDefaults() {
	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.requestExtractor == nil {
		m.requestExtractor = DefaultRequestExtractor
	}
}

// Core returns the engine behind the middleware, for sharing with other
// transports.
func (m *Middleware) Core() *core.Core {
	return m.core
}

// GetCredential returns the credential an authorized request was admitted with.
func GetCredential(ctx context.Context) (core.Credential, error) {
	return core.GetCredential(ctx)
}

// CheckAuth wraps next with the token gate. next is only called when the
// request proceeds; every other outcome is answered by the ErrorHandler.
func (m *Middleware) CheckAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.exclusionURLHandler != nil && m.exclusionURLHandler(r) {
			if m.logger != nil {
				m.logger.Debug("skipping auth for excluded URL",
					"method", r.Method,
					"path", r.URL.Path)
			}
			next.ServeHTTP(w, r)
			return
		}

		if !m.validateOnOptions && r.Method == http.MethodOptions {
			if m.logger != nil {
				m.logger.Debug("skipping auth for OPTIONS request")
			}
			next.ServeHTTP(w, r)
			return
		}

		req, err := m.requestExtractor(r)
		if err != nil {
			if m.logger != nil {
				m.logger.Error("failed to extract credentials from request",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path)
			}
			m.errorHandler(w, r, fmt.Errorf("error extracting request: %w", err))
			return
		}

		out := m.core.Authorize(r.Context(), req)
		if out.Decision != core.Proceed {
			if m.logger != nil {
				m.logger.Info("request denied",
					"decision", out.Decision.String(),
					"method", r.Method,
					"path", r.URL.Path)
			}
			m.errorHandler(w, r, out.Err)
			return
		}

		r = r.Clone(core.SetCredential(r.Context(), out.Credential))
		next.ServeHTTP(w, r)
	})
}
