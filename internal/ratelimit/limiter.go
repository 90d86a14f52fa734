package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles outbound fare-provider calls so a burst of leg lookups
// (day pairs × combinations × two legs per pass) stays inside the provider's
// request quota.
type Limiter struct {
	limiter *rate.Limiter
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultConfig matches the Amadeus self-service test quota.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		BurstSize:         10,
	}
}

func New(config Config) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.BurstSize),
	}
}

func NewWithDefaults() *Limiter {
	return New(DefaultConfig())
}

// Wait blocks until a request slot is available or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
