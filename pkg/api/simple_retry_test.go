package api

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSimpleRetry_Success(t *testing.T) {
	retry := NewSimpleRetry(3, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return &StatusError{Endpoint: "test", StatusCode: 503}
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestSimpleRetry_MaxRetriesExceeded(t *testing.T) {
	retry := NewSimpleRetry(2, time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		return errors.New("connection reset by peer")
	})

	if err == nil {
		t.Error("Expected error, got nil")
	}
	if attempts != 3 { // 1 initial + 2 retries
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestSimpleRetry_ClientErrorNotRetried(t *testing.T) {
	retry := NewSimpleRetry(3, time.Millisecond)

	for _, status := range []int{400, 401, 403, 404} {
		attempts := 0
		err := retry.Execute(context.Background(), func() error {
			attempts++
			return &StatusError{Endpoint: "test", StatusCode: status}
		})

		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != status {
			t.Errorf("status %d: expected StatusError to pass through, got %v", status, err)
		}
		if attempts != 1 {
			t.Errorf("status %d: expected 1 attempt, got %d", status, attempts)
		}
	}
}

func TestSimpleRetry_RateLimitRetried(t *testing.T) {
	retry := NewSimpleRetry(1, time.Millisecond)

	attempts := 0
	_ = retry.Execute(context.Background(), func() error {
		attempts++
		return &StatusError{Endpoint: "test", StatusCode: 429}
	})

	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestSimpleRetry_NotifyReportsBackoff(t *testing.T) {
	retry := NewSimpleRetry(2, 4*time.Millisecond)

	var delays []time.Duration
	_ = retry.ExecuteWithNotify(context.Background(), func() error {
		return &StatusError{Endpoint: "test", StatusCode: 500}
	}, func(attempt int, err error, delay time.Duration) {
		delays = append(delays, delay)
	})

	if len(delays) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(delays))
	}
	if delays[0] != 4*time.Millisecond || delays[1] != 8*time.Millisecond {
		t.Errorf("Expected exponential backoff 4ms, 8ms; got %v", delays)
	}
}

func TestSimpleRetry_ContextCancellation(t *testing.T) {
	retry := NewSimpleRetry(3, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := retry.Execute(ctx, func() error {
		return errors.New("some error")
	})

	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
