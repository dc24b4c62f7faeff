package api

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// ConcurrencyLimiter caps in-flight API calls across all goroutines sharing
// a client.
type ConcurrencyLimiter struct {
	sem *semaphore.Weighted
}

// NewConcurrencyLimiter returns nil for a non-positive limit, which means
// unlimited.
func NewConcurrencyLimiter(maxConcurrent int) *ConcurrencyLimiter {
	if maxConcurrent <= 0 {
		return nil
	}
	return &ConcurrencyLimiter{sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

// Acquire blocks until a slot is free or ctx is done.
func (l *ConcurrencyLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.sem.Acquire(ctx, 1)
}

func (l *ConcurrencyLimiter) Release() {
	if l == nil {
		return
	}
	l.sem.Release(1)
}
