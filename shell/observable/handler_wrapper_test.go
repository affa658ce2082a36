package observable_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/eventstore"
	"github.com/acmsl/licdata/shell"
	"github.com/acmsl/licdata/shell/observable"
	. "github.com/acmsl/licdata/testutil/helper" //nolint:revive
)

const requestType = "NewClientRequested"

func Test_NewHandlerWrapper_RejectsInvalidRetryOptions(t *testing.T) {
	// act
	wrapper, err := observable.NewHandlerWrapper(observable.WithRetry(shell.WithMaxAttempts(0)))

	// assert
	assert.Nil(t, wrapper)
	assert.ErrorIs(t, err, shell.ErrInvalidMaxAttempts)
}

func Test_HandlerWrapper_Decorate_Success(t *testing.T) {
	// arrange
	metricsCollector := NewMetricsCollectorSpy()
	tracingCollector := NewTracingCollectorSpy()
	contextualLogger := NewContextualLoggerSpy()

	wrapper, err := observable.NewHandlerWrapper(
		observable.WithMetrics(metricsCollector),
		observable.WithTracing(tracingCollector),
		observable.WithContextualLogging(contextualLogger),
	)
	require.NoError(t, err)

	request := givenNewClientRequested()
	expected := givenClientCreated(request)
	handler := wrapper.Decorate(requestType, handlerReturning(expected, nil))

	// act
	outcome, err := handler(context.Background(), request)

	// assert
	require.NoError(t, err)
	assert.Equal(t, expected, outcome)

	assert.True(t, metricsCollector.HasRecord(SpyCounter, shell.ReconcilerHandleCallsMetric).
		WithLabel(shell.LogAttrRequestType, requestType).
		WithStatus(shell.StatusSuccess).
		Assert(), "should count the call")
	assert.True(t, metricsCollector.HasRecord(SpyDuration, shell.ReconcilerHandleDurationMetric).
		WithStatus(shell.StatusSuccess).
		Assert(), "should record the duration")
	assert.True(t, metricsCollector.HasRecord(SpyCounter, shell.ReconcilerOutcomesMetric).
		WithLabel(shell.LogAttrOutcome, string(core.OutcomeCreated)).
		Assert(), "should count the outcome")

	span, found := tracingCollector.FindSpan(shell.SpanNameReconcilerHandle)
	require.True(t, found)
	assert.True(t, span.Finished)
	assert.Equal(t, shell.StatusSuccess, span.Status)
	assert.Equal(t, "Client", span.StartAttributes[shell.LogAttrKind])
	assert.Equal(t, "ClientCreated", span.EndAttributes[shell.LogAttrOutcomeType])

	assert.True(t, contextualLogger.HasLog("debug", shell.LogMsgHandleStarted))
	assert.True(t, contextualLogger.HasLog("info", shell.LogMsgHandleCompleted))
}

func Test_HandlerWrapper_Decorate_Error(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus string
	}{
		{name: "repository failure", err: errors.Join(shell.ErrRepositoryFailed, errors.New("disk full")), expectedStatus: shell.StatusError},
		{name: "canceled", err: errors.Join(shell.ErrRepositoryFailed, context.Canceled), expectedStatus: shell.StatusCanceled},
		{name: "timeout", err: errors.Join(shell.ErrRepositoryFailed, context.DeadlineExceeded), expectedStatus: shell.StatusTimeout},
		{name: "lost race", err: errors.Join(shell.ErrRepositoryFailed, eventstore.ErrConcurrencyConflict), expectedStatus: shell.StatusConcurrencyConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			metricsCollector := NewMetricsCollectorSpy()
			tracingCollector := NewTracingCollectorSpy()
			logHandler := NewLogHandlerSpy(false)

			wrapper, err := observable.NewHandlerWrapper(
				observable.WithMetrics(metricsCollector),
				observable.WithTracing(tracingCollector),
				observable.WithLogging(slog.New(logHandler)),
			)
			require.NoError(t, err)

			handler := wrapper.Decorate(requestType, handlerReturning(nil, tc.err))

			// act
			outcome, err := handler(context.Background(), givenNewClientRequested())

			// assert
			assert.Nil(t, outcome)
			assert.ErrorIs(t, err, tc.err)
			assert.True(t, metricsCollector.HasRecord(SpyCounter, shell.ReconcilerHandleCallsMetric).
				WithStatus(tc.expectedStatus).
				Assert())
			assert.Zero(t, metricsCollector.CountRecords(SpyCounter, shell.ReconcilerOutcomesMetric), "no outcome, nothing to count")

			span, found := tracingCollector.FindSpan(shell.SpanNameReconcilerHandle)
			require.True(t, found)
			assert.Equal(t, tc.expectedStatus, span.Status)

			assert.True(t, logHandler.HasLog(slog.LevelError, shell.LogMsgHandleFailed))
		})
	}
}

func Test_HandlerWrapper_Decorate_DoesNotLogSensitiveAttributes(t *testing.T) {
	// arrange
	logHandler := NewLogHandlerSpy(false)
	wrapper, err := observable.NewHandlerWrapper(observable.WithLogging(slog.New(logHandler)))
	require.NoError(t, err)

	request := core.BuildNewRequested(
		core.KindUser,
		core.Attributes{"email": "jane@example.com", "password": "s3cret"},
		GivenStamp("req-1"),
		nil,
	)
	created := core.BuildCreated(request, core.NewAggregate(core.KindUser, "u-1", request.Attributes, "out-1"), GivenStamp("out-1"))
	handler := wrapper.Decorate("NewUserRequested", handlerReturning(created, nil))

	// act
	_, err = handler(context.Background(), request)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"u-1"}, logHandler.AttrValues(shell.LogAttrAggregateID))

	for _, record := range logHandler.GetRecords() {
		record.Attrs(func(attr slog.Attr) bool {
			assert.NotContains(t, attr.Value.String(), "s3cret")
			return true
		})
	}
}

func Test_HandlerWrapper_Decorate_WithRetry_RecoversFromLostRace(t *testing.T) {
	// arrange
	metricsCollector := NewMetricsCollectorSpy()
	wrapper, err := observable.NewHandlerWrapper(
		observable.WithMetrics(metricsCollector),
		observable.WithRetry(shell.WithBaseDelay(time.Millisecond)),
	)
	require.NoError(t, err)

	request := givenNewClientRequested()
	expected := givenClientCreated(request)
	attempts := 0

	handler := wrapper.Decorate(requestType, func(context.Context, core.RequestEvent) (core.OutcomeEvent, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.Join(shell.ErrRepositoryFailed, eventstore.ErrConcurrencyConflict)
		}

		return expected, nil
	})

	// act
	outcome, err := handler(context.Background(), request)

	// assert
	require.NoError(t, err)
	assert.Equal(t, expected, outcome)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, metricsCollector.CountRecords(SpyCounter, shell.ReconcilerRetriesMetric))
	assert.True(t, metricsCollector.HasRecord(SpyCounter, shell.ReconcilerHandleCallsMetric).
		WithStatus(shell.StatusSuccess).
		Assert())
}

func Test_HandlerWrapper_Decorate_WithRetry_DoesNotRetryOtherErrors(t *testing.T) {
	// arrange
	wrapper, err := observable.NewHandlerWrapper(observable.WithRetry(shell.WithBaseDelay(time.Millisecond)))
	require.NoError(t, err)

	errBoom := errors.Join(shell.ErrRepositoryFailed, errors.New("connection refused"))
	attempts := 0

	handler := wrapper.Decorate(requestType, func(context.Context, core.RequestEvent) (core.OutcomeEvent, error) {
		attempts++
		return nil, errBoom
	})

	// act
	outcome, err := handler(context.Background(), givenNewClientRequested())

	// assert
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, attempts)
}

func givenNewClientRequested() core.NewRequested {
	return core.BuildNewRequested(core.KindClient, GivenAttributes(core.KindClient, "1"), GivenStamp("req-1"), nil)
}

func givenClientCreated(request core.NewRequested) core.Created {
	aggregate := core.NewAggregate(core.KindClient, "42", request.Attributes, "out-1")

	return core.BuildCreated(request, aggregate, GivenStamp("out-1"))
}

func handlerReturning(outcome core.OutcomeEvent, err error) shell.HandlerFunc {
	return func(context.Context, core.RequestEvent) (core.OutcomeEvent, error) {
		return outcome, err
	}
}
