package core

import (
	"context"
	"time"
)

// SessionStore is a key-value store used to cache the signed-in user's non-secret profile.
// Get returns ErrCacheMiss when the key is unknown or expired.
type SessionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
	Close() error
}

var ErrCacheMiss = NewNotFoundError("cache miss")

func SessionKey(userID string) string {
	return "session:" + userID
}
