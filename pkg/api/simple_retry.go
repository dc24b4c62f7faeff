package api

import (
	"context"
	"math"
	"time"
)

// SimpleRetry retries a call with exponential backoff.
type SimpleRetry struct {
	maxRetries        int
	retryDelay        time.Duration
	backoffMultiplier float64
	classifier        ErrorClassifier
}

// NewSimpleRetry creates a retry loop that makes at most maxRetries extra attempts.
func NewSimpleRetry(maxRetries int, retryDelay time.Duration) *SimpleRetry {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &SimpleRetry{
		maxRetries:        maxRetries,
		retryDelay:        retryDelay,
		backoffMultiplier: 2.0,
		classifier:        NewStatusErrorClassifier(),
	}
}

// RetryNotify is called before each backoff sleep.
type RetryNotify func(attempt int, err error, delay time.Duration)

// Execute runs fn until it succeeds, fails fatally or runs out of attempts.
func (sr *SimpleRetry) Execute(ctx context.Context, fn func() error) error {
	return sr.ExecuteWithNotify(ctx, fn, nil)
}

func (sr *SimpleRetry) ExecuteWithNotify(ctx context.Context, fn func() error, notify RetryNotify) error {
	var lastErr error

	for attempt := 0; attempt <= sr.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == sr.maxRetries || sr.classifier.ClassifyError(err) == ErrorSeverityFatal {
			break
		}

		delay := sr.backoff(attempt)
		if notify != nil {
			notify(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

func (sr *SimpleRetry) backoff(attempt int) time.Duration {
	return time.Duration(float64(sr.retryDelay) * math.Pow(sr.backoffMultiplier, float64(attempt)))
}
