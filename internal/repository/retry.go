package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"github.com/taskflow/taskflow-api/internal/constants"
)

type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
}

var defaultRetry = retryPolicy{
	attempts:  constants.ReadRetryAttempts,
	baseDelay: constants.ReadRetryBaseDelay,
}

// do runs fn until it succeeds, returns a non-transient error, or the attempts
// are used up. Only idempotent reads go through here.
func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	var err error
	delay := p.baseDelay
	for attempt := 1; attempt <= p.attempts; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) || attempt == p.attempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
