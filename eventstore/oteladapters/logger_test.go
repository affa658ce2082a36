package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/acmsl/licdata/eventstore/oteladapters"
)

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")
	logger.Info("plain info message", "kind", "Client")

	// assert
	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG","msg":"debug message"`)
	assert.Contains(t, output, `"level":"INFO","msg":"info message"`)
	assert.Contains(t, output, `"level":"WARN","msg":"warn message"`)
	assert.Contains(t, output, `"level":"ERROR","msg":"error message"`)
	assert.Contains(t, output, `"msg":"plain info message","kind":"Client"`)
}

func Test_NewSlogBridgeLogger_UsesTheGlobalProvider(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("licdata-test")

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "message", "key", "value")
		logger.Warn("message")
	})
}

func Test_OTelLogger_EmitsWithoutPanicking_ForOddArgs(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("test"))

	assert.NotPanics(t, func() {
		logger.DebugContext(context.Background(), "debug", "key")
		logger.InfoContext(context.Background(), "info", 42, "not-a-key-pair")
		logger.WarnContext(context.Background(), "warn", "count", 3)
		logger.ErrorContext(context.Background(), "error", "err", "boom")
	})
}
