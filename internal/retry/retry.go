package retry

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Operation is a single attempt at some remote call: a nil return is
// success, a non-nil return is a failure that may be retried
type Operation = backoff.Operation

// Do runs op until it succeeds, until it returns a permanent error, or
// until b signals that no attempts remain, sleeping for the backoff
// interval between failures. The error from the final attempt is returned
func Do(op Operation, b backoff.BackOff) error {
	return backoff.Retry(op, b)
}

// Permanent marks an error as non-retryable: Do stops immediately and
// returns the wrapped error without consuming further attempts
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Fixed returns a backoff that sleeps for the same interval before every
// retry
func Fixed(interval time.Duration) backoff.BackOff {
	return backoff.NewConstantBackOff(interval)
}

// Linear returns a backoff whose nth retry sleeps for n*unit: unit before
// the first retry, 2*unit before the second, and so on
func Linear(unit time.Duration) backoff.BackOff {
	return &linearBackOff{unit: unit}
}

// UpTo bounds b to a total of maxAttempts invocations of the operation,
// i.e. one initial attempt plus maxAttempts-1 retries
func UpTo(b backoff.BackOff, maxAttempts uint64) backoff.BackOff {
	return backoff.WithMaxRetries(b, maxAttempts-1)
}

type linearBackOff struct {
	unit    time.Duration
	retries int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.retries++
	return time.Duration(b.retries) * b.unit
}

func (b *linearBackOff) Reset() {
	b.retries = 0
}
