// Package retry provides a small exponential-backoff retryer used by
// remote providers, where failures are call-scoped and transient.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy configures the backoff retryer.
type RetryPolicy struct {
	MaxRetries   int           // 0 disables retries
	InitialDelay time.Duration // delay before the first retry
	MaxDelay     time.Duration // cap on the backoff delay
	Multiplier   float64       // exponential growth factor
	Jitter       bool          // randomize delays to avoid thundering herds

	// ShouldRetry decides per error; nil retries every error.
	ShouldRetry func(err error) bool
}

// DefaultRetryPolicy suits short completion calls on a voice path: few
// attempts, short delays.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:   2,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// Retryer executes a function with retries according to its policy.
type Retryer interface {
	Do(ctx context.Context, fn func() error) error
}

type backoffRetryer struct {
	policy *RetryPolicy
	logger *zap.Logger
}

// NewBackoffRetryer creates an exponential-backoff retryer. A nil policy
// uses DefaultRetryPolicy; invalid fields are corrected to defaults.
func NewBackoffRetryer(policy *RetryPolicy, logger *zap.Logger) Retryer {
	if policy == nil {
		policy = DefaultRetryPolicy()
	}
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.InitialDelay <= 0 {
		policy.InitialDelay = 200 * time.Millisecond
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = 2 * time.Second
	}
	if policy.Multiplier < 1.0 {
		policy.Multiplier = 2.0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &backoffRetryer{policy: policy, logger: logger}
}

func (r *backoffRetryer) Do(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := r.delayFor(attempt)
			r.logger.Debug("retrying after backoff",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if r.policy.ShouldRetry != nil && !r.policy.ShouldRetry(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func (r *backoffRetryer) delayFor(attempt int) time.Duration {
	delay := float64(r.policy.InitialDelay) * math.Pow(r.policy.Multiplier, float64(attempt-1))
	if delay > float64(r.policy.MaxDelay) {
		delay = float64(r.policy.MaxDelay)
	}
	if r.policy.Jitter {
		// Full jitter: uniform in [delay/2, delay).
		delay = delay/2 + rand.Float64()*delay/2
	}
	return time.Duration(delay)
}
