// Package retry bounds calls to external stores with a per-call timeout and
// exponential backoff between attempts.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy configures attempts and timeouts. The zero value makes a single
// attempt with no per-call timeout.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	CallTimeout     time.Duration
}

// DefaultPolicy is used when no policy is configured.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
		CallTimeout:     5 * time.Second,
	}
}

// CallContext derives the context for a single store call.
func (p Policy) CallContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.CallTimeout)
}

// Do runs op until it succeeds, returns an error retryable rejects, or the
// attempts are exhausted. The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, retryable func(error) bool, op func(ctx context.Context) error) error {
	return p.DoNotify(ctx, retryable, op, nil)
}

// DoNotify is Do with a callback invoked before each wait.
func (p Policy) DoNotify(ctx context.Context, retryable func(error) bool, op func(ctx context.Context) error, notify func(err error, wait time.Duration)) error {
	operation := func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if retryable == nil || !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.RetryNotify(operation, p.backOff(ctx), notify)
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		exp.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		exp.MaxInterval = p.MaxInterval
	}
	if p.Multiplier > 0 {
		exp.Multiplier = p.Multiplier
	}
	exp.MaxElapsedTime = 0
	exp.Reset()

	retries := uint64(0)
	if p.MaxAttempts > 1 {
		retries = uint64(p.MaxAttempts - 1)
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, retries), ctx)
}
