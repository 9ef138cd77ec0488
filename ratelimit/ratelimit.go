// Package ratelimit throttles outgoing calls per key with token buckets.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrLimitExceeded is returned by Do when the key has no tokens left.
var ErrLimitExceeded = errors.New("rate limit exceeded")

// Config controls how many calls a key may make per window.
type Config struct {
	Limit  int
	Window time.Duration
}

// DefaultConfig allows ten calls per minute.
func DefaultConfig() Config {
	return Config{Limit: 10, Window: time.Minute}
}

// Limiter hands out a token bucket per key. A bucket holds Limit tokens and
// refills one token every Window/Limit. Safe for concurrent use.
type Limiter struct {
	cfg Config
	now func() time.Time

	mu     sync.Mutex
	limits map[string]*rate.Limiter
}

// New creates a Limiter. Non-positive fields fall back to DefaultConfig.
func New(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	return &Limiter{
		cfg:    cfg,
		now:    time.Now,
		limits: make(map[string]*rate.Limiter),
	}
}

// Config returns the effective configuration.
func (l *Limiter) Config() Config {
	return l.cfg
}

func (l *Limiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limits[key]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Every(l.cfg.Window/time.Duration(l.cfg.Limit)), l.cfg.Limit)
	l.limits[key] = lim
	return lim
}

// Allow consumes a token for key and reports whether one was available.
func (l *Limiter) Allow(key string) bool {
	return l.limiter(key).AllowN(l.now(), 1)
}

// Wait blocks until key has a token or ctx is done.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.limiter(key).Wait(ctx)
}

// Do runs fn if key has a token, and returns ErrLimitExceeded otherwise
// without calling fn.
func (l *Limiter) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !l.Allow(key) {
		return ErrLimitExceeded
	}
	return fn(ctx)
}
