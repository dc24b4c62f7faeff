package api

import (
	"context"
	"errors"
)

// ErrorSeverity represents how the retry loop should treat an error.
type ErrorSeverity int

const (
	ErrorSeverityRetryable ErrorSeverity = iota // transient, try again after backoff
	ErrorSeverityFatal                          // give up immediately
)

// ErrorClassifier decides whether a failed request is worth retrying.
type ErrorClassifier interface {
	ClassifyError(err error) ErrorSeverity
}

// StatusErrorClassifier retries server errors, rate limits and transport
// failures. Other 4xx responses, missing credentials and context
// cancellation are fatal.
type StatusErrorClassifier struct{}

func NewStatusErrorClassifier() ErrorClassifier {
	return StatusErrorClassifier{}
}

func (StatusErrorClassifier) ClassifyError(err error) ErrorSeverity {
	if err == nil {
		return ErrorSeverityFatal
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrMissingToken) {
		return ErrorSeverityFatal
	}

	var se *StatusError
	if errors.As(err, &se) {
		if se.StatusCode >= 500 || se.StatusCode == 429 {
			return ErrorSeverityRetryable
		}
		return ErrorSeverityFatal
	}

	var de *DecodeError
	if errors.As(err, &de) {
		return ErrorSeverityFatal
	}

	// Dial failures, timeouts and resets.
	return ErrorSeverityRetryable
}
