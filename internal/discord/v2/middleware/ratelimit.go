package middleware

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/core"
)

// RateLimitConfig configures rate limiting behavior
type RateLimitConfig struct {
	// MaxRequests is the maximum number of requests allowed per window
	MaxRequests int

	Window time.Duration

	// KeyFunc extracts the rate limit key from context
	KeyFunc func(*core.InteractionContext) string

	// Message shown when rate limited
	Message string

	// Store for tracking rate limits (if nil, uses in-memory)
	Store RateLimitStore
}

// RateLimitStore tracks rate limit data
type RateLimitStore interface {
	// Increment increments the counter for a key and returns the new count
	Increment(key string, window time.Duration) (int, error)
}

func userKey(ctx *core.InteractionContext) string {
	return ctx.UserID
}

// RateLimitMiddleware applies rate limiting
func RateLimitMiddleware(config *RateLimitConfig) core.Middleware {
	if config.KeyFunc == nil {
		config.KeyFunc = userKey
	}
	if config.Message == "" {
		config.Message = fmt.Sprintf("You're doing that too fast! Please wait %v before trying again.", config.Window)
	}
	if config.Store == nil {
		config.Store = NewMemoryRateLimitStore()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			key := config.KeyFunc(ctx)
			if key == "" {
				return next.Handle(ctx)
			}

			count, err := config.Store.Increment(key, config.Window)
			if err != nil {
				// Fail open
				log.Printf("[Discord] Rate limit store error for %s: %v", key, err)
				return next.Handle(ctx)
			}

			if count > config.MaxRequests {
				return nil, core.NewHandlerError(
					fmt.Errorf("rate limit exceeded for %s: %d requests in %v", key, count, config.Window),
					"⏱️ "+config.Message,
					core.ErrorCodeTooManyRequests,
				)
			}

			return next.Handle(ctx)
		})
	}
}

// UserRateLimitMiddleware applies per-user rate limiting
func UserRateLimitMiddleware(maxRequests int, window time.Duration) core.Middleware {
	return RateLimitMiddleware(&RateLimitConfig{
		MaxRequests: maxRequests,
		Window:      window,
		KeyFunc:     userKey,
	})
}

// MemoryRateLimitStore is an in-memory fixed window rate limit store
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time

	// expired buckets are swept at most once per sweepEvery
	sweepEvery time.Duration
	lastSweep  time.Time
}

type bucket struct {
	count   int
	resetAt time.Time
}

// NewMemoryRateLimitStore creates a new in-memory store
func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return NewMemoryRateLimitStoreWithClock(time.Now)
}

// NewMemoryRateLimitStoreWithClock creates a store reading time from now
func NewMemoryRateLimitStoreWithClock(now func() time.Time) *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		buckets:    make(map[string]*bucket),
		now:        now,
		sweepEvery: time.Minute,
		lastSweep:  now(),
	}
}

// Increment increments the counter for a key
func (s *MemoryRateLimitStore) Increment(key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	b, exists := s.buckets[key]
	if !exists || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(window)}
		s.buckets[key] = b
	}

	b.count++

	return b.count, nil
}

// Len returns the number of tracked keys
func (s *MemoryRateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.buckets)
}

// sweep drops expired buckets; callers hold mu
func (s *MemoryRateLimitStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.sweepEvery {
		return
	}
	s.lastSweep = now

	for key, b := range s.buckets {
		if !now.Before(b.resetAt) {
			delete(s.buckets, key)
		}
	}
}
