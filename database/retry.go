package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"storefront_server/lib"
	"syscall"
	"time"

	"github.com/jpillora/backoff"
)

// retryPolicy runs an operation up to attempts times, sleeping per the backoff between tries.
type retryPolicy struct {
	attempts int
	backoff  backoff.Backoff
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		attempts: 3,
		backoff: backoff.Backoff{
			Min:    100 * time.Millisecond,
			Max:    2 * time.Second,
			Factor: 2,
			Jitter: true,
		},
	}
}

// retryableStates are SQLSTATE codes worth another attempt. Classes 08 and 53 are added by prefix.
var retryableStates = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"57P03": true, // cannot_connect_now
}

// isRetryableError reports transient failures: lost connections, timeouts and lock conflicts.
func isRetryableError(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, sql.ErrNoRows),
		errors.Is(err, sql.ErrTxDone):
		return false
	}

	if code := lib.SQLState(err); len(code) == 5 {
		class := code[:2]
		return retryableStates[code] || class == "08" || class == "53"
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (p retryPolicy) do(ctx context.Context, operation func() error) error {
	b := p.backoff

	var err error
	for attempt := 1; ; attempt++ {
		if err = operation(); err == nil {
			return nil
		}
		if attempt >= p.attempts || !isRetryableError(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.Duration()):
		}
	}
}

// WithRetry wraps a database operation with the default retry policy
func WithRetry(ctx context.Context, fn func() error) error {
	return defaultRetryPolicy().do(ctx, fn)
}
