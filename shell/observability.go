package shell

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/eventstore"
)

const (
	// ReconcilerHandleDurationMetric tracks handler execution duration (OpenTelemetry-compatible).
	ReconcilerHandleDurationMetric = "reconciler_handle_duration_seconds"

	// ReconcilerHandleCallsMetric tracks total handler calls.
	ReconcilerHandleCallsMetric = "reconciler_handle_calls_total"

	// ReconcilerOutcomesMetric counts emitted outcome events by outcome.
	ReconcilerOutcomesMetric = "reconciler_outcomes_total"

	// ReconcilerRetriesMetric tracks retry attempts, labeled with request type, attempt number and error type.
	ReconcilerRetriesMetric = "reconciler_retries_total"

	// ReconcilerRetryDelayMetric tracks backoff delays before retries.
	ReconcilerRetryDelayMetric = "reconciler_retry_delay_seconds"

	// ReconcilerMaxRetriesReachedMetric tracks calls that exhausted their retries.
	ReconcilerMaxRetriesReachedMetric = "reconciler_max_retries_reached_total"

	// StatusSuccess indicates a handler produced an outcome event.
	StatusSuccess = "success"

	// StatusError indicates a repository or infrastructure failure.
	StatusError = "error"

	// StatusCanceled indicates the operation was canceled due to context cancellation.
	StatusCanceled = "canceled"

	// StatusTimeout indicates the operation timed out due to context deadline exceeded.
	StatusTimeout = "timeout"

	// StatusConcurrencyConflict indicates a lost race that survived all retries.
	StatusConcurrencyConflict = "concurrency_conflict"

	// LogMsgHandleStarted is logged when request processing begins.
	LogMsgHandleStarted = "reconciliation started"

	// LogMsgHandleCompleted is logged when an outcome event was produced.
	LogMsgHandleCompleted = "reconciliation completed"

	// LogMsgHandleFailed is logged when request processing fails.
	LogMsgHandleFailed = "reconciliation failed"

	// LogAttrRequestType identifies the request event type in logs and labels.
	LogAttrRequestType = "request_type"

	// LogAttrOutcomeType identifies the emitted outcome event type.
	LogAttrOutcomeType = "outcome_type"

	// LogAttrOutcome classifies the business result, e.g. "created" or "no_matching_found".
	LogAttrOutcome = "outcome"

	// LogAttrKind identifies the aggregate kind.
	LogAttrKind = "kind"

	// LogAttrEventID identifies the request event.
	LogAttrEventID = "event_id"

	// LogAttrAggregateID identifies the aggregate.
	LogAttrAggregateID = "aggregate_id"

	// LogAttrMutation names the repository write performed, if any.
	LogAttrMutation = "mutation"

	// LogAttrStatus indicates the processing status.
	LogAttrStatus = "status"

	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = "duration_ms"

	// LogAttrAttempt is the retry attempt number.
	LogAttrAttempt = "attempt_number"

	// LogAttrErrorType classifies an error, see ErrorTypeOf.
	LogAttrErrorType = "error_type"

	// LogAttrError contains error details.
	LogAttrError = "error"

	// SpanNameReconcilerHandle is the tracing span name for request handling.
	SpanNameReconcilerHandle = "reconciler.handle"
)

// MetricsCollector interface for collecting handler performance metrics.
type MetricsCollector = eventstore.MetricsCollector

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector = eventstore.ContextualMetricsCollector

// TracingCollector interface for distributed tracing in handlers.
type TracingCollector = eventstore.TracingCollector

// SpanContext represents an active tracing span.
type SpanContext = eventstore.SpanContext

// ContextualLogger interface for context-aware logging in handlers.
type ContextualLogger = eventstore.ContextualLogger

// Logger interface for basic logging in handlers.
type Logger = eventstore.Logger

// StatusOf maps a handler error to one of the Status constants.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return StatusConcurrencyConflict
	default:
		return StatusError
	}
}

// BuildHandlerLabels creates standard metric labels for handler operations.
func BuildHandlerLabels(requestType, status string) map[string]string {
	return map[string]string{
		LogAttrRequestType: requestType,
		LogAttrStatus:      status,
	}
}

// BuildRetryLabels creates standard metric labels for retry operations.
func BuildRetryLabels(requestType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrRequestType: requestType,
		LogAttrAttempt:     strconv.Itoa(attemptNumber),
		LogAttrErrorType:   errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with precision.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordHandlerMetrics records duration and call count of one handler call and, when an
// outcome was produced, counts it by outcome.
func RecordHandlerMetrics(
	ctx context.Context,
	collector MetricsCollector,
	requestType string,
	status string,
	outcome core.OutcomeEvent,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildHandlerLabels(requestType, status)

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, ReconcilerHandleDurationMetric, duration, labels)
		contextualCollector.IncrementCounterContext(ctx, ReconcilerHandleCallsMetric, labels)
	} else {
		collector.RecordDuration(ReconcilerHandleDurationMetric, duration, labels)
		collector.IncrementCounter(ReconcilerHandleCallsMetric, labels)
	}

	if outcome == nil {
		return
	}

	outcomeLabels := map[string]string{
		LogAttrRequestType: requestType,
		LogAttrOutcome:     string(outcome.IsOutcome()),
	}

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, ReconcilerOutcomesMetric, outcomeLabels)
	} else {
		collector.IncrementCounter(ReconcilerOutcomesMetric, outcomeLabels)
	}
}

// StartHandlerSpan starts a tracing span for one request.
// Returns the original context and nil if tracing is disabled.
func StartHandlerSpan(
	ctx context.Context,
	tracingCollector TracingCollector,
	request core.RequestEvent,
) (context.Context, SpanContext) {

	if tracingCollector == nil {
		return ctx, nil
	}

	attrs := map[string]string{
		LogAttrRequestType: request.IsEventType(),
		LogAttrKind:        request.TargetKind().String(),
		LogAttrEventID:     request.HasEventID(),
	}

	return tracingCollector.StartSpan(ctx, SpanNameReconcilerHandle, attrs)
}

// FinishHandlerSpan completes a tracing span with the operation outcome.
func FinishHandlerSpan(
	tracingCollector TracingCollector,
	span SpanContext,
	status string,
	outcome core.OutcomeEvent,
	duration time.Duration,
	err error,
) {

	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: formatDurationMS(duration),
	}

	if outcome != nil {
		attrs[LogAttrOutcomeType] = outcome.IsEventType()
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogHandleStart logs the beginning of request processing.
func LogHandleStart(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	request core.RequestEvent,
) {

	args := []any{
		LogAttrRequestType, request.IsEventType(),
		LogAttrEventID, request.HasEventID(),
	}

	if contextualLogger != nil {
		contextualLogger.DebugContext(ctx, LogMsgHandleStarted, args...)
	} else if logger != nil {
		logger.Debug(LogMsgHandleStarted, args...)
	}
}

// LogHandleSuccess logs a produced outcome event. Sensitive attributes are never part of the log.
func LogHandleSuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	request core.RequestEvent,
	outcome core.OutcomeEvent,
	duration time.Duration,
) {

	args := []any{
		LogAttrRequestType, request.IsEventType(),
		LogAttrOutcomeType, outcome.IsEventType(),
		LogAttrOutcome, string(outcome.IsOutcome()),
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if state, ok := core.StateOf(outcome); ok {
		args = append(args, LogAttrAggregateID, state.ID)
	}

	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, LogMsgHandleCompleted, args...)
	} else if logger != nil {
		logger.Info(LogMsgHandleCompleted, args...)
	}
}

// LogHandleError logs a failed request.
func LogHandleError(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	request core.RequestEvent,
	err error,
	status string,
	duration time.Duration,
) {

	args := []any{
		LogAttrRequestType, request.IsEventType(),
		LogAttrEventID, request.HasEventID(),
		LogAttrError, err.Error(),
		LogAttrStatus, status,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, LogMsgHandleFailed, args...)
	} else if logger != nil {
		logger.Error(LogMsgHandleFailed, args...)
	}
}

func formatDurationMS(d time.Duration) string {
	return strconv.FormatFloat(ToMilliseconds(d), 'f', 3, 64)
}
