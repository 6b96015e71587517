// Package ratelimit throttles calls against the upstream inventory API.
// The Amadeus test tier enforces low per-second quotas, so each endpoint
// family gets its own token bucket.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// EndpointLimiter holds one limiter per endpoint family (auth, flights,
// hotel list, hotel offers).
type EndpointLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		BurstSize:         10,
	}
}

func NewEndpointLimiter(config Config) *EndpointLimiter {
	return &EndpointLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func NewEndpointLimiterWithDefaults() *EndpointLimiter {
	return NewEndpointLimiter(DefaultConfig())
}

// Get returns the limiter for an endpoint family, creating it on first use.
func (l *EndpointLimiter) Get(family string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[family]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[family]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize)
	l.limiters[family] = limiter
	return limiter
}

// SetLimit overrides the quota for a single endpoint family.
func (l *EndpointLimiter) SetLimit(family string, rps float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[family] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the endpoint family has budget or the context ends.
func (l *EndpointLimiter) Wait(ctx context.Context, family string) error {
	return l.Get(family).Wait(ctx)
}
