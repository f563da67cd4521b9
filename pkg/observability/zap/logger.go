package zap

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	ubzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/theory-cloud/pdfsite/pkg/observability"
	"github.com/theory-cloud/pdfsite/pkg/sanitization"
)

const (
	levelDebug = "debug"
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
)

type Option func(*loggerOptions)

type loggerOptions struct {
	zapLogger *ubzap.Logger
	sanitizer observability.SanitizerFunc
	output    zapcore.WriteSyncer
}

func WithZapLogger(logger *ubzap.Logger) Option {
	return func(opts *loggerOptions) {
		opts.zapLogger = logger
	}
}

func WithSanitizer(fn observability.SanitizerFunc) Option {
	return func(opts *loggerOptions) {
		opts.sanitizer = fn
	}
}

// WithOutput redirects encoded entries. Synth output on stdout is consumed by the
// cdk CLI, so the default is stderr.
func WithOutput(w io.Writer) Option {
	return func(opts *loggerOptions) {
		if w == nil {
			return
		}
		opts.output = zapcore.AddSync(w)
	}
}

type zapCore struct {
	logger    *ubzap.Logger
	sanitizer observability.SanitizerFunc

	closeOnce sync.Once
	closed    atomic.Bool

	entriesLogged  atomic.Int64
	flushCount     atomic.Int64
	errorCount     atomic.Int64
	lastFlushNanos atomic.Int64
	lastError      atomic.Value
}

type Logger struct {
	core *zapCore
	log  *ubzap.Logger

	runID string
	stack string
}

var _ observability.StructuredLogger = (*Logger)(nil)

func NewZapLogger(config observability.LoggerConfig, options ...Option) (observability.StructuredLogger, error) {
	cfg := normalizeLoggerConfig(config)

	opts := &loggerOptions{
		sanitizer: sanitization.SanitizeFieldValue,
		output:    zapcore.Lock(os.Stderr),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(opts)
	}

	base := opts.zapLogger
	if base == nil {
		level, err := parseZapLevel(cfg.Level)
		if err != nil {
			return nil, err
		}

		enc := zapEncoderConfig(cfg.EnableCaller)
		var encoder zapcore.Encoder
		switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
		case "console":
			encoder = zapcore.NewConsoleEncoder(enc)
		case "json":
			encoder = zapcore.NewJSONEncoder(enc)
		default:
			return nil, errors.New("observability/zap: unsupported log format")
		}

		base = ubzap.New(zapcore.NewCore(encoder, opts.output, level))
		if cfg.EnableCaller {
			base = base.WithOptions(ubzap.AddCaller())
		}
		if cfg.EnableStack {
			base = base.WithOptions(ubzap.AddStacktrace(zapcore.ErrorLevel))
		}
	}

	zcore := &zapCore{
		logger:    base,
		sanitizer: opts.sanitizer,
	}
	zcore.lastError.Store("")

	return &Logger{
		core: zcore,
		log:  base,
	}, nil
}

func normalizeLoggerConfig(config observability.LoggerConfig) observability.LoggerConfig {
	cfg := config
	if strings.TrimSpace(cfg.Format) == "" {
		cfg.Format = "console"
	}
	if strings.TrimSpace(cfg.Level) == "" {
		cfg.Level = levelInfo
	}
	return cfg
}

func parseZapLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case levelDebug:
		return zapcore.DebugLevel, nil
	case levelInfo, "":
		return zapcore.InfoLevel, nil
	case levelWarn, "warning":
		return zapcore.WarnLevel, nil
	case levelError:
		return zapcore.ErrorLevel, nil
	default:
		return 0, errors.New("observability/zap: unsupported log level")
	}
}

func zapEncoderConfig(enableCaller bool) zapcore.EncoderConfig {
	enc := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	if enableCaller {
		enc.CallerKey = "caller"
		enc.EncodeCaller = zapcore.ShortCallerEncoder
	}
	return enc
}

func (l *Logger) Debug(message string, fields ...map[string]any) {
	l.logEntry(levelDebug, message, fields...)
}
func (l *Logger) Info(message string, fields ...map[string]any) {
	l.logEntry(levelInfo, message, fields...)
}
func (l *Logger) Warn(message string, fields ...map[string]any) {
	l.logEntry(levelWarn, message, fields...)
}
func (l *Logger) Error(message string, fields ...map[string]any) {
	l.logEntry(levelError, message, fields...)
}

func (l *Logger) WithField(key string, value any) observability.StructuredLogger {
	return l.WithFields(map[string]any{key: value})
}

func (l *Logger) WithFields(fields map[string]any) observability.StructuredLogger {
	next := l.clone()
	if next.log != nil {
		next.log = next.log.With(anyFields(fields, l.sanitizer())...)
	}
	return next
}

func (l *Logger) WithRunID(runID string) observability.StructuredLogger {
	next := l.clone()
	next.runID = runID
	if next.log != nil {
		next.log = next.log.With(ubzap.String("run_id", sanitization.SanitizeLogString(runID)))
	}
	return next
}

func (l *Logger) WithStack(stack string) observability.StructuredLogger {
	next := l.clone()
	next.stack = stack
	if next.log != nil {
		next.log = next.log.With(ubzap.String("stack", sanitization.SanitizeLogString(stack)))
	}
	return next
}

func (l *Logger) Flush(ctx context.Context) error {
	if l == nil || l.core == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	l.core.flushCount.Add(1)
	err := l.core.logger.Sync()
	if err != nil && !ignorableSyncError(err) {
		l.core.recordError(err)
	} else {
		err = nil
	}
	l.core.lastFlushNanos.Store(time.Now().UnixNano())
	return err
}

func (l *Logger) Close() error {
	if l == nil || l.core == nil {
		return nil
	}
	return l.core.close()
}

func (l *Logger) IsHealthy() bool {
	if l == nil || l.core == nil {
		return false
	}
	if l.core.closed.Load() {
		return false
	}
	return l.core.lastErrorString() == ""
}

func (l *Logger) GetStats() observability.LoggerStats {
	if l == nil || l.core == nil {
		return observability.LoggerStats{}
	}

	var lastFlush time.Time
	if nanos := l.core.lastFlushNanos.Load(); nanos > 0 {
		lastFlush = time.Unix(0, nanos)
	}
	return observability.LoggerStats{
		LastFlush:     lastFlush,
		LastError:     l.core.lastErrorString(),
		EntriesLogged: l.core.entriesLogged.Load(),
		FlushCount:    l.core.flushCount.Load(),
		ErrorCount:    l.core.errorCount.Load(),
	}
}

func (l *Logger) clone() *Logger {
	if l == nil {
		return &Logger{}
	}
	return &Logger{
		core:  l.core,
		log:   l.log,
		runID: l.runID,
		stack: l.stack,
	}
}

func (l *Logger) sanitizer() observability.SanitizerFunc {
	if l == nil || l.core == nil {
		return nil
	}
	return l.core.sanitizer
}

func (l *Logger) logEntry(level string, message string, fields ...map[string]any) {
	if !l.canLog() {
		return
	}

	message = sanitization.SanitizeLogString(message)
	l.write(level, message, anyFields(mergeFieldSets(fields...), l.core.sanitizer))
	l.core.entriesLogged.Add(1)
}

func anyFields(fields map[string]any, sanitizerFn observability.SanitizerFunc) []ubzap.Field {
	if len(fields) == 0 {
		return nil
	}
	if sanitizerFn == nil {
		sanitizerFn = sanitization.SanitizeFieldValue
	}

	out := make([]ubzap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, ubzap.Any(k, sanitizerFn(k, v)))
	}
	return out
}

func (l *Logger) canLog() bool {
	if l == nil || l.core == nil || l.log == nil {
		return false
	}
	return !l.core.closed.Load()
}

func mergeFieldSets(fieldSets ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, set := range fieldSets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

func (l *Logger) write(level string, message string, fields []ubzap.Field) {
	switch level {
	case levelDebug:
		l.log.Debug(message, fields...)
	case levelWarn:
		l.log.Warn(message, fields...)
	case levelError:
		l.log.Error(message, fields...)
	default:
		l.log.Info(message, fields...)
	}
}

func (c *zapCore) recordError(err error) {
	c.errorCount.Add(1)
	c.lastError.Store(err.Error())
}

func (c *zapCore) close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		err = c.logger.Sync()
		if err != nil && !ignorableSyncError(err) {
			c.recordError(err)
			return
		}
		err = nil
	})
	return err
}

func (c *zapCore) lastErrorString() string {
	if c == nil {
		return ""
	}
	lastError, ok := c.lastError.Load().(string)
	if !ok {
		return ""
	}
	return lastError
}

// ignorableSyncError reports fsync failures on terminals and pipes, which do not
// support syncing and are not real write errors.
func ignorableSyncError(err error) bool {
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		return false
	}
	msg := pathErr.Err.Error()
	return strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl")
}
