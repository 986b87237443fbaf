package verify

import (
	"context"
	"time"
)

// RetryPolicy controls how many times a query is driven through a
// portal and what happens between tries. Every attempt is end to end:
// a fresh browser session, a fresh login, a fresh form.
type RetryPolicy struct {
	// Attempts is the total number of tries, not the number of
	// retries. Values below 1 behave like 1.
	Attempts int
	// Backoff returns how long to wait before the given attempt
	// (2 for the first retry). Nil means no pause.
	Backoff func(attempt int) time.Duration
	// Reset runs between attempts to put shared portal state back
	// on a known page. Nil means nothing to reset.
	Reset func(ctx context.Context) error
}

// DefaultRetryPolicy tries twice with no pause, which is enough to
// absorb the portals' habit of shedding one submission and accepting
// the next.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 2}
}

func (p RetryPolicy) attempts() int {
	if p.Attempts < 1 {
		return 1
	}
	return p.Attempts
}
