package service

import (
	"context"
	"time"
)

// Cache stores JSON-encoded read models. Implementations report a miss as
// (false, nil); callers treat every error as a miss.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	// Incr bumps a counter and returns its new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Counter returns the current value of a counter, zero when unset.
	Counter(ctx context.Context, key string) (int64, error)
}
