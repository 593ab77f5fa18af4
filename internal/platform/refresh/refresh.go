// Package refresh provides a best-effort "fresh value with timeout"
// combinator: race a time-bounded remote refresh against a cached
// fallback, preferring the fresh value when it arrives in time.
package refresh

import (
	"context"
	"time"
)

// Fresh runs refresh with the given timeout and returns its result when
// it completes in time. When the refresh times out or fails, the cached
// fallback is consulted instead; only when both fail is the refresh error
// returned. The refresh goroutine is abandoned on timeout via context
// cancellation, never blocked on.
func Fresh[T any](
	ctx context.Context,
	timeout time.Duration,
	refresh func(context.Context) (T, error),
	cached func() (T, bool),
) (T, error) {
	refreshCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := refresh(refreshCtx)
		done <- outcome{value: v, err: err}
	}()

	var refreshErr error
	select {
	case out := <-done:
		if out.err == nil {
			return out.value, nil
		}
		refreshErr = out.err
	case <-refreshCtx.Done():
		refreshErr = refreshCtx.Err()
	}

	if v, ok := cached(); ok {
		return v, nil
	}
	var zero T
	return zero, refreshErr
}
