package client

import (
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy yields the wait before retry attempt n (0-based).
type BackoffStrategy interface {
	Next(attempt int) time.Duration
}

// ExponentialBackoff waits Base*Factor^attempt, capped at Max, spread by
// ±Jitter.
type ExponentialBackoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
	Jitter float64 // 0.0 to 1.0
	Rand   *rand.Rand
}

// DefaultBackoff waits 100ms, 200ms, ... up to 2s with 20% jitter.
func DefaultBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		Base:   100 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2.0,
		Jitter: 0.2,
	}
}

// Next implements BackoffStrategy.
func (b *ExponentialBackoff) Next(attempt int) time.Duration {
	attempt = max(attempt, 0)
	delay := math.Min(float64(b.Base)*math.Pow(b.Factor, float64(attempt)), float64(b.Max))

	if b.Jitter > 0 {
		u := rand.Float64
		if b.Rand != nil {
			u = b.Rand.Float64
		}
		delay += delay * (u()*2 - 1) * b.Jitter
	}
	return time.Duration(math.Max(delay, 0))
}
