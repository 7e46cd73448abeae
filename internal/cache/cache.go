package cache

import (
	"context"
	"errors"
	"time"
)

// DetailTTL is how long a discovered product stays resolvable.
const DetailTTL = 900 * time.Second

var ErrStoreUnavailable = errors.New("resolver store unavailable")

// ResolverCache maps a product id to the site-relative path of its detail
// page. The first write for an id wins until the entry expires.
type ResolverCache interface {
	// Get returns the stored path. found is false when the id is unknown or
	// its entry has expired.
	Get(ctx context.Context, id string) (path string, found bool, err error)
	// SetIfAbsent stores path under id only when no live entry exists, and
	// reports whether it did.
	SetIfAbsent(ctx context.Context, id, path string, ttl time.Duration) (bool, error)
}
