package helper

import (
	"context"
	"sync"
)

// ContextualLogRecord represents a recorded contextual log call.
type ContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// ContextualLoggerSpy captures ContextualLogger calls for testing.
type ContextualLoggerSpy struct {
	records []ContextualLogRecord
	mu      sync.Mutex
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy.
func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{records: make([]ContextualLogRecord, 0)}
}

func (l *ContextualLoggerSpy) add(ctx context.Context, level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, ContextualLogRecord{Level: level, Message: msg, Args: args, Context: ctx})
}

func (l *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	l.add(ctx, "debug", msg, args)
}

func (l *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	l.add(ctx, "info", msg, args)
}

func (l *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	l.add(ctx, "warn", msg, args)
}

func (l *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.add(ctx, "error", msg, args)
}

// GetRecords returns a copy of all captured records.
func (l *ContextualLoggerSpy) GetRecords() []ContextualLogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]ContextualLogRecord, len(l.records))
	copy(records, l.records)

	return records
}

// HasLog checks if there's a record with the given level and message.
func (l *ContextualLoggerSpy) HasLog(level, message string) bool {
	for _, record := range l.GetRecords() {
		if record.Level == level && record.Message == message {
			return true
		}
	}

	return false
}
