package observable

import (
	"context"
	"time"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/shell"
)

// HandlerWrapper instruments reconciliation handlers. Its Decorate method is a shell.HandlerDecorator,
// so one wrapper serves every entry of a dispatch table.
type HandlerWrapper struct {
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
	retryOptions     []shell.RetryOption
	retryEnabled     bool
}

// Option defines a functional option for configuring HandlerWrapper.
type Option func(*HandlerWrapper) error

// NewHandlerWrapper creates a HandlerWrapper. Without options it only delegates.
func NewHandlerWrapper(opts ...Option) (*HandlerWrapper, error) {
	wrapper := &HandlerWrapper{}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(w *HandlerWrapper) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector.
func WithTracing(collector shell.TracingCollector) Option {
	return func(w *HandlerWrapper) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger. It takes precedence over WithLogging.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(w *HandlerWrapper) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger.
func WithLogging(logger shell.Logger) Option {
	return func(w *HandlerWrapper) error {
		w.logger = logger
		return nil
	}
}

// WithRetry retries handlers that fail with eventstore.ErrConcurrencyConflict.
// The options are validated here, once, instead of on every call.
func WithRetry(opts ...shell.RetryOption) Option {
	return func(w *HandlerWrapper) error {
		if _, err := shell.RetryWithExponentialBackoff(
			context.Background(),
			func(context.Context) error { return nil },
			opts...,
		); err != nil {
			return err
		}

		w.retryEnabled = true
		w.retryOptions = opts

		return nil
	}
}

// Decorate wraps next with the configured instrumentation.
func (w *HandlerWrapper) Decorate(requestType core.EventTypeString, next shell.HandlerFunc) shell.HandlerFunc {
	return func(ctx context.Context, request core.RequestEvent) (core.OutcomeEvent, error) {
		start := time.Now()
		ctx, span := shell.StartHandlerSpan(ctx, w.tracingCollector, request)
		shell.LogHandleStart(ctx, w.logger, w.contextualLogger, request)

		outcome, err := w.call(ctx, requestType, next, request)
		duration := time.Since(start)
		status := shell.StatusOf(err)

		shell.RecordHandlerMetrics(ctx, w.metricsCollector, requestType, status, outcome, duration)
		shell.FinishHandlerSpan(w.tracingCollector, span, status, outcome, duration, err)

		if err != nil {
			shell.LogHandleError(ctx, w.logger, w.contextualLogger, request, err, status, duration)
			return nil, err
		}

		shell.LogHandleSuccess(ctx, w.logger, w.contextualLogger, request, outcome, duration)

		return outcome, nil
	}
}

func (w *HandlerWrapper) call(
	ctx context.Context,
	requestType core.EventTypeString,
	next shell.HandlerFunc,
	request core.RequestEvent,
) (core.OutcomeEvent, error) {

	if !w.retryEnabled {
		return next(ctx, request)
	}

	opts := w.retryOptions
	if w.metricsCollector != nil {
		opts = append(append([]shell.RetryOption(nil), opts...), shell.WithRetryMetrics(w.metricsCollector, requestType))
	}

	var outcome core.OutcomeEvent

	_, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		var handleErr error
		outcome, handleErr = next(ctx, request)

		return handleErr
	}, opts...)

	if err != nil {
		return nil, err
	}

	return outcome, nil
}
