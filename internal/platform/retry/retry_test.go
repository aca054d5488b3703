package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := fastPolicy(3).Do(context.Background(), func(err error) bool { return errors.Is(err, errTransient) },
		func(context.Context) error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDo_StopsAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := fastPolicy(2).Do(context.Background(), func(error) bool { return true },
		func(context.Context) error {
			calls++
			return errTransient
		})
	require.ErrorIs(t, err, errTransient)
	require.Equal(t, 2, calls)
}

func TestDo_PermanentErrorIsNotRetried(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	err := fastPolicy(5).Do(context.Background(), func(err error) bool { return errors.Is(err, errTransient) },
		func(context.Context) error {
			calls++
			return permanent
		})
	require.ErrorIs(t, err, permanent)
	require.Equal(t, 1, calls)
}

func TestZeroPolicyMakesSingleAttempt(t *testing.T) {
	calls := 0
	err := Policy{}.Do(context.Background(), func(error) bool { return true },
		func(context.Context) error {
			calls++
			return errTransient
		})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestCallContext_AppliesTimeout(t *testing.T) {
	ctx, cancel := Policy{CallTimeout: time.Minute}.CallContext(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	ctx, cancel = Policy{}.CallContext(context.Background())
	defer cancel()
	_, ok = ctx.Deadline()
	require.False(t, ok)
}
