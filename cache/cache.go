package cache

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidEntry is returned by Set for entries that could never be fresh.
var ErrInvalidEntry = errors.New("cache entry ttl must be positive")

// Entry is a cached positive verdict.
type Entry struct {
	VerifiedAt time.Time     `json:"verified_at"`
	TTL        time.Duration `json:"ttl"`
}

// Fresh reports whether the entry may still be trusted at now. An entry is
// fresh while now - VerifiedAt <= TTL.
func (e Entry) Fresh(now time.Time) bool {
	return now.Sub(e.VerifiedAt) <= e.TTL
}

// ExpiresAt is the last instant at which the entry is fresh.
func (e Entry) ExpiresAt() time.Time {
	return e.VerifiedAt.Add(e.TTL)
}

// Store is a key/value store with per key expiry.
type Store interface {
	// Get returns the entry stored under key. A missing or backend-expired
	// key returns ok == false and a nil error.
	Get(ctx context.Context, key string) (entry Entry, ok bool, err error)

	// Set stores entry under key, overwriting any previous value. The
	// backend drops the key once expireAfter has elapsed.
	Set(ctx context.Context, key string, entry Entry, expireAfter time.Duration) error
}
