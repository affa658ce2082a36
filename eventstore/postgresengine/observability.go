package postgresengine

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/acmsl/licdata/eventstore"
)

const (
	metricQueryDuration        = "eventstore_query_duration_seconds"
	metricAppendDuration       = "eventstore_append_duration_seconds"
	metricEventsQueried        = "eventstore_events_queried_total"
	metricEventsAppended       = "eventstore_events_appended_total"
	metricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	metricDatabaseErrors       = "eventstore_database_errors_total"

	spanNameQuery  = "eventstore.query"
	spanNameAppend = "eventstore.append"

	spanAttrOperation    = "operation"
	spanAttrEventCount   = "event_count"
	spanAttrEventType    = "event_type"
	spanAttrExpectedSeq  = "expected_sequence"
	spanAttrMaxSequence  = "max_sequence"
	spanAttrRowsAffected = "rows_affected"
	spanAttrErrorType    = "error_type"
	spanAttrConsistency  = "consistency"

	labelStatus       = "status"
	labelConflictType = "conflict_type"

	operationQuery  = "query"
	operationAppend = "append"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeBuildQuery  = "build_query"
	errorTypeDatabase    = "database_query"
	errorTypeRowScan     = "row_scan"
	errorTypeConcurrency = "concurrency_conflict"
	errorTypeRowsAffect  = "rows_affected"
)

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (es EventStore) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level.
func (es EventStore) logOperation(ctx context.Context, action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues.
func (es EventStore) logWarn(ctx context.Context, message string, err error) {
	if es.logger != nil {
		es.logger.Warn(message, logAttrError, err.Error())
	}

	if es.contextualLogger != nil {
		es.contextualLogger.WarnContext(ctx, message, logAttrError, err.Error())
	}
}

// logError logs failures that abort the operation.
func (es EventStore) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if es.logger != nil {
		es.logger.Error(message, allArgs...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (es EventStore) recordDuration(ctx context.Context, metric string, duration time.Duration, operation, status string) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: status}

	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	es.metricsCollector.RecordDuration(metric, duration, labels)
}

func (es EventStore) recordValue(ctx context.Context, metric string, value float64, operation string) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: statusSuccess}

	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	es.metricsCollector.RecordValue(metric, value, labels)
}

func (es EventStore) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if es.metricsCollector == nil {
		return
	}

	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	es.metricsCollector.IncrementCounter(metric, labels)
}

func (es EventStore) recordError(ctx context.Context, operation, errorType string, duration time.Duration) {
	metric := metricQueryDuration
	if operation == operationAppend {
		metric = metricAppendDuration
	}

	es.recordDuration(ctx, metric, duration, operation, statusError)
	es.incrementCounter(ctx, metricDatabaseErrors, map[string]string{
		spanAttrOperation: operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	})
}

// operationObserver bundles the span and timing of one Query or Append call.
type operationObserver struct {
	es        EventStore
	ctx       context.Context
	operation string
	span      eventstore.SpanContext
	start     time.Time
}

func (es EventStore) observe(ctx context.Context, operation, spanName string, attrs map[string]string) (*operationObserver, context.Context) {
	o := &operationObserver{es: es, ctx: ctx, operation: operation, start: time.Now()}

	attrs[spanAttrOperation] = operation
	attrs[spanAttrConsistency] = eventstore.GetConsistencyLevel(ctx).String()

	if es.tracingCollector != nil {
		o.ctx, o.span = es.tracingCollector.StartSpan(ctx, spanName, attrs)
	}

	return o, o.ctx
}

func (o *operationObserver) elapsed() time.Duration {
	return time.Since(o.start)
}

func (o *operationObserver) failed(errorType string) {
	o.es.recordError(o.ctx, o.operation, errorType, o.elapsed())

	if errorType == errorTypeConcurrency {
		o.es.incrementCounter(o.ctx, metricConcurrencyConflicts, map[string]string{
			spanAttrOperation: o.operation,
			labelConflictType: "concurrency",
		})
	}

	if o.span != nil {
		o.es.tracingCollector.FinishSpan(o.span, statusError, map[string]string{spanAttrErrorType: errorType})
	}
}

func (o *operationObserver) queried(eventCount int, maxSequenceNumber eventstore.MaxSequenceNumberUint) {
	o.es.recordDuration(o.ctx, metricQueryDuration, o.elapsed(), o.operation, statusSuccess)
	o.es.recordValue(o.ctx, metricEventsQueried, float64(eventCount), o.operation)

	if o.span != nil {
		o.es.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
			spanAttrEventCount:  strconv.Itoa(eventCount),
			spanAttrMaxSequence: strconv.FormatUint(uint64(maxSequenceNumber), 10),
		})
	}
}

func (o *operationObserver) appended(rowsAffected int64) {
	o.es.recordDuration(o.ctx, metricAppendDuration, o.elapsed(), o.operation, statusSuccess)
	o.es.recordValue(o.ctx, metricEventsAppended, float64(rowsAffected), o.operation)

	if o.span != nil {
		o.es.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
			spanAttrRowsAffected: strconv.FormatInt(rowsAffected, 10),
		})
	}
}
