// Package retryx runs an operation under a bounded, fixed-delay retry policy.
//
// Only errors the caller classifies as transient are retried. Anything else,
// including a cancelled context, is returned after the first attempt.
package retryx

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// DefaultAttempts is the number of retries after the first failed attempt.
const DefaultAttempts = 2

// DefaultDelay is the pause between attempts.
const DefaultDelay = 500 * time.Millisecond

// Policy bounds how often and how patiently an operation is retried.
type Policy struct {
	// Attempts is the number of retries after the initial attempt.
	Attempts uint64

	// Delay is the constant pause between attempts.
	Delay time.Duration

	// OnRetry, when set, observes every failed attempt that will be retried.
	OnRetry func(attempt int, err error)
}

// DefaultPolicy returns two retries with a 500ms pause.
func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, Delay: DefaultDelay}
}

// Do calls fn until it succeeds, fails with an error that transient rejects,
// or the policy is exhausted. The last error is returned unwrapped.
func Do(ctx context.Context, p Policy, transient func(error) bool, fn func(ctx context.Context) error) error {
	delay := p.Delay
	if delay <= 0 {
		// go-retry rejects non-positive constant backoffs
		delay = time.Nanosecond
	}
	backoff := retry.WithMaxRetries(p.Attempts, retry.NewConstant(delay))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if transient == nil || !transient(err) {
			return err
		}
		if p.OnRetry != nil && uint64(attempt) <= p.Attempts {
			p.OnRetry(attempt, err)
		}
		return retry.RetryableError(err)
	})
}
