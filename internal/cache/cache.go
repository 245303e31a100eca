// Package cache memoizes generated quizzes. Caches are constructed and
// injected explicitly; nothing here is package-level state.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a key/value store with per-entry time-to-live. Get never
// returns an expired entry.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, v V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Len(ctx context.Context) (int, error)
}

// Key joins parts into a canonical key: each part trimmed, lower-cased and
// with inner whitespace collapsed, joined with "|".
func Key(parts ...string) string {
	norm := make([]string, len(parts))
	for i, p := range parts {
		norm[i] = strings.Join(strings.Fields(strings.ToLower(p)), " ")
	}
	return strings.Join(norm, "|")
}
