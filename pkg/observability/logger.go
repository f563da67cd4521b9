package observability

import (
	"context"
	"time"
)

type SanitizerFunc func(key string, value any) any

// LogEntry represents a structured log entry.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`

	RunID string `json:"run_id,omitempty"`
	Stack string `json:"stack,omitempty"`
}

// StructuredLogger is the logging surface used while declaring and synthesizing site stacks.
//
// Messages carry map fields. Run and stack scoping are first-class so every line of a
// synth run can be correlated.
type StructuredLogger interface {
	Debug(message string, fields ...map[string]any)
	Info(message string, fields ...map[string]any)
	Warn(message string, fields ...map[string]any)
	Error(message string, fields ...map[string]any)

	WithField(key string, value any) StructuredLogger
	WithFields(fields map[string]any) StructuredLogger

	WithRunID(runID string) StructuredLogger
	WithStack(stack string) StructuredLogger

	Flush(ctx context.Context) error
	Close() error
	IsHealthy() bool
	GetStats() LoggerStats
}

type LoggerStats struct {
	LastFlush     time.Time `json:"last_flush"`
	LastError     string    `json:"last_error,omitempty"`
	EntriesLogged int64     `json:"entries_logged"`
	FlushCount    int64     `json:"flush_count"`
	ErrorCount    int64     `json:"error_count"`
}

// LoggerConfig configures logger implementations.
type LoggerConfig struct {
	Format       string `json:"format" yaml:"format" mapstructure:"format"`
	Level        string `json:"level" yaml:"level" mapstructure:"level"`
	EnableStack  bool   `json:"enable_stack" yaml:"enable_stack" mapstructure:"enable_stack"`
	EnableCaller bool   `json:"enable_caller" yaml:"enable_caller" mapstructure:"enable_caller"`
}
