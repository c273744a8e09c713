package devauth

import (
	"fmt"

	"github.com/storagegate/devauth/authority"
	"github.com/storagegate/devauth/cache"
	"github.com/storagegate/devauth/config"
)

// NewFromConfig builds a Middleware from a flat configuration mapping
// (ip, port, ssl, node_timeout, cache_prefix). The store is supplied by the
// caller since it is usually shared with other components. opts are applied
// after the configured ones.
//
// Example:
//
//	gate, err := devauth.NewFromConfig(
//	    config.Merge(globalConf, localConf),
//	    store,
//	    devauth.WithLogger(logger),
//	)
func NewFromConfig(conf map[string]string, store cache.Store, opts ...Option) (*Middleware, error) {
	cfg, err := config.FromMap(conf)
	if err != nil {
		return nil, err
	}
	return NewFromSettings(cfg, store, opts...)
}

// NewFromSettings is NewFromConfig for an already parsed configuration.
func NewFromSettings(cfg config.Config, store cache.Store, opts ...Option) (*Middleware, error) {
	client, err := authority.New(cfg.AuthorityOptions()...)
	if err != nil {
		return nil, fmt.Errorf("invalid authority settings: %w", err)
	}

	base := []Option{
		WithChecker(client),
		WithStore(store),
		WithCacheKeyPrefix(cfg.CachePrefix),
	}
	return New(append(base, opts...)...)
}
