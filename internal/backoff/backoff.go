// Package backoff implements capped jitter backoff and a bounded retry loop.
package backoff

import (
	"context"
	rand "math/rand/v2"
	"time"
)

// Policy describes a bounded retry schedule.
type Policy struct {
	// Attempts is the total number of calls, including the first one. Values below 1 mean 1.
	Attempts int
	// Base is the first delay and the lower bound of every delay.
	Base time.Duration
	// Multiplier grows the upper bound of the next delay. Values below 1 mean no growth.
	Multiplier float64
	// Cap bounds every delay. Zero means no cap.
	Cap time.Duration
	// Seed makes the jitter deterministic when not zero.
	Seed int64
}

// Next computes the delay following prev using decorrelated jitter with a cap.
//
//	next = min(cap, base + rand[0, prev*mult - base))
//
// Behavior:
//   - prev <= 0 starts from base
//   - cap below base returns cap
func Next(prev, base time.Duration, mult float64, capDur time.Duration, rng *rand.Rand) time.Duration {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if mult < 1.0 {
		mult = 1.0
	}
	if capDur > 0 && capDur < base {
		return capDur
	}
	if prev <= 0 {
		return base
	}

	spread := time.Duration(float64(prev)*mult) - base
	if spread <= 0 {
		spread = base
	}
	var jitter int64
	if rng != nil {
		jitter = rng.Int64N(int64(spread))
	} else {
		jitter = rand.Int64N(int64(spread)) //nolint:gosec // non-crypto backoff jitter
	}
	next := base + time.Duration(jitter)
	if capDur > 0 && next > capDur {
		return capDur
	}

	return next
}

// NewRNG returns a deterministic generator for a non-zero seed and nil otherwise, in
// which case Next uses the package-level generator.
//
//nolint:gosec
func NewRNG(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	s1 := uint64(seed)
	s2 := s1 ^ 0x9e3779b97f4a7c15

	return rand.New(rand.NewPCG(s1, s2))
}

// Retry calls fn until it succeeds, the attempts are exhausted or ctx is done.
//
// onRetry, when not nil, is called before each wait with the failed attempt number
// (starting at 1), its error and the delay about to be slept.
//
// Returns:
//   - error: nil on success, otherwise the last error from fn or the context error
func Retry(ctx context.Context, p Policy, fn func(ctx context.Context) error, onRetry func(attempt int, err error, delay time.Duration)) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	rng := NewRNG(p.Seed)

	var (
		lastErr error
		delay   time.Duration
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		delay = Next(delay, p.Base, p.Multiplier, p.Cap, rng)
		if onRetry != nil {
			onRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}

	return lastErr
}
