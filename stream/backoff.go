package stream

import (
	"math/rand/v2"
	"time"
)

// Default reconnect policy values.
const (
	DefaultBase        = 1 * time.Second
	DefaultMax         = 60 * time.Second
	DefaultMaxAttempts = 10
)

// Policy decides whether and when a session reconnects after a failure.
// The zero value is not usable; use DefaultPolicy or fill all fields.
type Policy struct {
	// Base is the delay before the first reconnect attempt.
	Base time.Duration
	// Max caps the exponentially grown delay, before jitter.
	Max time.Duration
	// MaxAttempts is the number of consecutive failures tolerated before
	// giving up.
	MaxAttempts int
}

// DefaultPolicy returns the standard policy: 1s base, 60s cap, 10 attempts.
func DefaultPolicy() Policy {
	return Policy{Base: DefaultBase, Max: DefaultMax, MaxAttempts: DefaultMaxAttempts}
}

// Next reports whether reconnect attempt number attempt (1-based) should be
// made and, if so, how long to wait first. The delay doubles per attempt up
// to Max, then gains up to 10% additive jitter so simultaneous clients do
// not thunder back in together.
func (p Policy) Next(attempt int) (time.Duration, bool) {
	if attempt > p.MaxAttempts {
		return 0, false
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := p.Base
	for i := 1; i < attempt && delay < p.Max; i++ {
		delay *= 2
	}
	if delay > p.Max {
		delay = p.Max
	}

	if j := int64(delay / 10); j > 0 {
		delay += time.Duration(rand.Int64N(j + 1))
	}
	return delay, true
}
