package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/acmsl/licdata/eventstore"
	"github.com/acmsl/licdata/shell"
	. "github.com/acmsl/licdata/testutil/helper" //nolint:revive
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	metrics, err := shell.RetryWithExponentialBackoff(ctx, fn)

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, metrics.Attempts)
	assert.Equal(t, time.Duration(0), metrics.TotalDelay)
	assert.Equal(t, "none", metrics.LastErrorType)
	assert.False(t, metrics.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_RetryOnConcurrencyConflict(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return errors.Join(shell.ErrRepositoryFailed, eventstore.ErrConcurrencyConflict)
		}
		return nil
	}

	metrics, err := shell.RetryWithExponentialBackoff(ctx, fn, shell.WithBaseDelay(time.Millisecond))

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, metrics.Attempts)
	assert.Greater(t, metrics.TotalDelay, time.Duration(0))
	assert.Equal(t, "none", metrics.LastErrorType)
}

func Test_RetryWithExponentialBackoff_DoesNotRetryOtherErrors(t *testing.T) {
	testCases := []struct {
		name              string
		err               error
		expectedErrorType string
	}{
		{name: "other", err: errors.New("syntax error at or near"), expectedErrorType: "other"},
		{name: "deadline", err: context.DeadlineExceeded, expectedErrorType: "context_deadline_exceeded"},
		{name: "canceled", err: context.Canceled, expectedErrorType: "context_canceled"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			callCount := 0
			fn := func(_ context.Context) error {
				callCount++
				return tc.err
			}

			metrics, err := shell.RetryWithExponentialBackoff(context.Background(), fn)

			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, 1, callCount)
			assert.Equal(t, tc.expectedErrorType, metrics.LastErrorType)
		})
	}
}

func Test_RetryWithExponentialBackoff_Exhausted(t *testing.T) {
	metricsCollector := NewMetricsCollectorSpy()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return eventstore.ErrConcurrencyConflict
	}

	metrics, err := shell.RetryWithExponentialBackoff(context.Background(), fn,
		shell.WithMaxAttempts(3),
		shell.WithBaseDelay(time.Millisecond),
		shell.WithJitterFactor(0),
		shell.WithRetryMetrics(metricsCollector, "UpdateOrderRequested"),
	)

	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 3, callCount)
	assert.True(t, metrics.RetriesExhausted)
	assert.Equal(t, "concurrency_conflict", metrics.LastErrorType)
	assert.Equal(t, 3*time.Millisecond, metrics.TotalDelay)

	assert.Equal(t, 2, metricsCollector.CountRecords(SpyCounter, shell.ReconcilerRetriesMetric))
	assert.Equal(t, 2, metricsCollector.CountRecords(SpyDuration, shell.ReconcilerRetryDelayMetric))
	assert.True(t, metricsCollector.HasRecord(SpyCounter, shell.ReconcilerMaxRetriesReachedMetric).
		WithLabel(shell.LogAttrRequestType, "UpdateOrderRequested").
		WithLabel(shell.LogAttrErrorType, "concurrency_conflict").
		Assert())
}

func Test_RetryWithExponentialBackoff_StopsWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		cancel()
		return eventstore.ErrConcurrencyConflict
	}

	metrics, err := shell.RetryWithExponentialBackoff(ctx, fn, shell.WithBaseDelay(time.Second))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "context_canceled", metrics.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	ctx := context.Background()
	fn := func(_ context.Context) error { return nil }

	_, err := shell.RetryWithExponentialBackoff(ctx, fn, shell.WithMaxAttempts(0))
	assert.ErrorIs(t, err, shell.ErrInvalidMaxAttempts)

	_, err = shell.RetryWithExponentialBackoff(ctx, fn, shell.WithBaseDelay(-1*time.Second))
	assert.ErrorIs(t, err, shell.ErrNegativeBaseDelay)

	_, err = shell.RetryWithExponentialBackoff(ctx, fn, shell.WithJitterFactor(1.5))
	assert.ErrorIs(t, err, shell.ErrInvalidJitterFactor)

	_, err = shell.RetryWithExponentialBackoff(ctx, fn, shell.WithRetryMetrics(nil, "ListUsersRequested"))
	assert.ErrorIs(t, err, shell.ErrNilMetricsCollector)

	_, err = shell.RetryWithExponentialBackoff(ctx, fn, shell.WithRetryMetrics(NewMetricsCollectorSpy(), ""))
	assert.ErrorIs(t, err, shell.ErrEmptyRequestType)
}
