package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/storagegate/devauth/cache"
	"github.com/storagegate/devauth/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore builds the verdict cache named by cfg. The closer releases
// backend connections.
func openStore(ctx context.Context, cfg config.Config) (cache.Store, io.Closer, error) {
	switch cfg.CacheBackend {
	case config.BackendRedis:
		store, err := cache.DialRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, store, nil
	case config.BackendMemory, "":
		store, err := cache.NewMemoryStore(cfg.CacheSize)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
