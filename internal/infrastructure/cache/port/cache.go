package port

import (
	"context"
	"time"
)

// Cache is the minimal key-value contract the application depends on. The
// push delivery worker keeps device-token sets here and the notification
// service invalidates them on device changes. Values are plain strings;
// serialization stays with the caller. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get fetches the value at key. A missing key yields ("", ErrMiss);
	// a non-nil error otherwise means a transport or server failure.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. A zero or negative TTL means no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes the keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Ping verifies connectivity with the backend.
	Ping(ctx context.Context) error

	Close() error
}

// ErrMiss distinguishes a cache miss from a transport error.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
