package retry

import (
	"context"
	"time"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// Executor runs an operation again while it fails with transient errors.
//
// Safe for concurrent use. WithOnRetry returns a new instance and leaves the
// receiver unchanged.
type Executor struct {
	classifier tabload.ErrorClassifier
	strategy   tabload.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a new retry executor.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier tabload.ErrorClassifier, strategy tabload.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
	}
}

// NewConnectExecutor returns the executor used when opening sessions:
// DefaultRetryMaxAttempts retries with exponential backoff between
// DefaultRetryInitialDelay and DefaultRetryMaxDelay.
func NewConnectExecutor(driver tabload.Driver) *Executor {
	strategy := NewExponentialBackoff(tabload.DefaultRetryMaxAttempts,
		WithInitialDelay(tabload.DefaultRetryInitialDelay),
		WithMaxDelay(tabload.DefaultRetryMaxDelay),
	)
	return NewExecutor(NewClassifier(driver), strategy)
}

// WithOnRetry returns a new Executor that calls callback before each retry.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation once and then retries it while it fails with a
// transient error, up to the strategy's MaxAttempts.
// It returns the last error, or the context error if ctx ends while waiting.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	lastErr := operation(ctx)
	if lastErr == nil || !e.classifier.IsTransient(lastErr) {
		return lastErr
	}

	maxAttempts := e.strategy.MaxAttempts()
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		lastErr = operation(ctx)
		if lastErr == nil || !e.classifier.IsTransient(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
