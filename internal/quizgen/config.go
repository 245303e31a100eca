package quizgen

import "time"

// Config holds engine-wide settings. Zero values defer to the preset.
type Config struct {
	// MaxAttempts overrides every preset's attempt budget when > 0.
	MaxAttempts int

	// BaseDelay is the linear backoff unit: attempt n waits n*BaseDelay.
	BaseDelay time.Duration

	// AttemptTimeout bounds each model call. Zero means no per-call limit.
	AttemptTimeout time.Duration

	// CacheMaxEntries sizes the default in-memory cache.
	CacheMaxEntries int
}

// DefaultConfig returns sensible defaults for quiz generation.
func DefaultConfig() Config {
	return Config{
		BaseDelay:       time.Second,
		AttemptTimeout:  90 * time.Second,
		CacheMaxEntries: 100,
	}
}
