package core

import (
	"errors"
	"time"

	"github.com/storagegate/devauth/cache"
)

// Option is a function that configures the Core.
type Option func(*Core) error

// New creates a Core. WithChecker and WithStore are required.
//
// Example:
//
//	client, _ := authority.New(authority.WithHost("10.0.0.5"))
//	store, _ := cache.NewMemoryStore(0)
//	gate, err := core.New(
//	    core.WithChecker(client),
//	    core.WithStore(store),
//	    core.WithLogger(slog.Default()),
//	)
func New(opts ...Option) (*Core, error) {
	c := &Core{
		metrics:   noopMetrics{},
		tracer:    noopTracer{},
		now:       time.Now,
		keyPrefix: DefaultCacheKeyPrefix,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Core) validate() error {
	if c.checker == nil {
		return errors.New("authority checker is required but not set (use WithChecker option)")
	}
	if c.store == nil {
		return errors.New("cache store is required but not set (use WithStore option)")
	}
	return nil
}

// WithChecker sets the authority client. Required.
func WithChecker(checker Checker) Option {
	return func(c *Core) error {
		if checker == nil {
			return errors.New("checker cannot be nil")
		}
		c.checker = checker
		return nil
	}
}

// WithStore sets the cache verdicts are kept in. Required.
func WithStore(store cache.Store) Option {
	return func(c *Core) error {
		if store == nil {
			return errors.New("store cannot be nil")
		}
		c.store = store
		return nil
	}
}

// WithLogger sets an optional logger. Tokens are never logged.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics sets where counters and latencies are recorded.
func WithMetrics(metrics Metrics) Option {
	return func(c *Core) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		c.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer used around authority checks.
func WithTracer(tracer Tracer) Option {
	return func(c *Core) error {
		if tracer == nil {
			return errors.New("tracer cannot be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithClock overrides time.Now for freshness checks and cache timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Core) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}

// WithCacheKeyPrefix sets the namespace of cache keys.
//
// Default: "auth"
func WithCacheKeyPrefix(prefix string) Option {
	return func(c *Core) error {
		if prefix == "" {
			return errors.New("cache key prefix cannot be empty")
		}
		c.keyPrefix = prefix
		return nil
	}
}
