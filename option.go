package devauth

import (
	"errors"
	"net/http"
	"time"

	"github.com/storagegate/devauth/cache"
	"github.com/storagegate/devauth/core"
)

// Option configures the Middleware.
// Returns error for validation failures.
type Option func(*Middleware) error

// WithChecker sets the authority client (REQUIRED unless WithCore is used).
// *authority.Client satisfies core.Checker.
func WithChecker(checker core.Checker) Option {
	return func(m *Middleware) error {
		if checker == nil {
			return errors.New("checker cannot be nil")
		}
		m.checker = checker
		return nil
	}
}

// WithStore sets the cache that holds positive verdicts (REQUIRED unless
// WithCore is used).
func WithStore(store cache.Store) Option {
	return func(m *Middleware) error {
		if store == nil {
			return errors.New("store cannot be nil")
		}
		m.store = store
		return nil
	}
}

// WithCore uses an already built engine. Checker, store, metrics, tracer
// and clock options are then ignored.
func WithCore(c *core.Core) Option {
	return func(m *Middleware) error {
		if c == nil {
			return errors.New("core cannot be nil")
		}
		m.core = c
		return nil
	}
}

// WithMetrics records gate decisions, cache lookups and authority latency.
//
// Example:
//
//	gate, err := devauth.New(
//	    devauth.WithChecker(client),
//	    devauth.WithStore(store),
//	    devauth.WithMetrics(devauth.NewPrometheusMetrics(prometheus.DefaultRegisterer)),
//	)
func WithMetrics(metrics core.Metrics) Option {
	return func(m *Middleware) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		m.coreOpts = append(m.coreOpts, core.WithMetrics(metrics))
		return nil
	}
}

// WithTracer wraps authority checks in spans.
func WithTracer(tracer core.Tracer) Option {
	return func(m *Middleware) error {
		if tracer == nil {
			return errors.New("tracer cannot be nil")
		}
		m.coreOpts = append(m.coreOpts, core.WithTracer(tracer))
		return nil
	}
}

// WithClock overrides time.Now for cache freshness.
func WithClock(now func() time.Time) Option {
	return func(m *Middleware) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		m.coreOpts = append(m.coreOpts, core.WithClock(now))
		return nil
	}
}

// WithCacheKeyPrefix sets the namespace of cache keys.
//
// Default: "auth"
func WithCacheKeyPrefix(prefix string) Option {
	return func(m *Middleware) error {
		if prefix == "" {
			return errors.New("cache key prefix cannot be empty")
		}
		m.coreOpts = append(m.coreOpts, core.WithCacheKeyPrefix(prefix))
		return nil
	}
}

// WithErrorHandler sets the handler called when a request does not proceed.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Middleware) error {
		if h == nil {
			return errors.New("error handler cannot be nil")
		}
		m.errorHandler = h
		return nil
	}
}

// WithRequestExtractor sets the function that reads path and token from the request.
//
// Default: DefaultRequestExtractor
func WithRequestExtractor(e RequestExtractor) Option {
	return func(m *Middleware) error {
		if e == nil {
			return errors.New("request extractor cannot be nil")
		}
		m.requestExtractor = e
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests go through the gate.
//
// Default: true
func WithValidateOnOptions(value bool) Option {
	return func(m *Middleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// WithExclusionURLs lets requests for the given paths (or full URLs)
// through without a token, e.g. health checks.
func WithExclusionURLs(exclusions ...string) Option {
	return func(m *Middleware) error {
		if len(exclusions) == 0 {
			return errors.New("exclusion URLs cannot be empty")
		}
		m.exclusionURLHandler = func(r *http.Request) bool {
			requestFullURL := r.URL.String()
			requestPath := r.URL.Path

			for _, exclusion := range exclusions {
				if requestFullURL == exclusion || requestPath == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithLogger sets an optional logger for the middleware and its core.
// *slog.Logger satisfies Logger, as do the adapters in this package.
func WithLogger(logger Logger) Option {
	return func(m *Middleware) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		m.logger = logger
		return nil
	}
}
