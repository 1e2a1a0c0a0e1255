package log

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"

	"github.com/felixgeelhaar/taskvault/internal/errors"
)

// Logger provides structured logging with slog
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New creates a new Logger with the given configuration
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{
		Level:     config.Level.ToSlogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	switch config.Format {
	case FormatText:
		handler = slog.NewTextHandler(config.Output.Writer(), opts)
	default:
		handler = slog.NewJSONHandler(config.Output.Writer(), opts)
	}

	logger := slog.New(handler)
	if config.ServiceName != "" {
		logger = logger.With("service", config.ServiceName)
	}

	return &Logger{
		slog:   logger,
		config: config,
	}
}

// Default creates a logger with default configuration
func Default() *Logger {
	return New(DefaultConfig())
}

// Discard creates a logger that drops every record. Libraries use it when
// the caller did not supply one.
func Discard() *Logger {
	cfg := DefaultConfig()
	cfg.Output = NewOutput(io.Discard)
	cfg.Level = LevelError
	return New(cfg)
}

// With returns a new Logger with the given attributes added to all log entries
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:   l.slog.With(args...),
		config: l.config,
	}
}

// WithEntity tags records with the entity they concern.
func (l *Logger) WithEntity(kind, id, path string) *Logger {
	args := []any{"kind", kind, "id", id}
	if path != "" {
		args = append(args, "path", path)
	}
	return l.With(args...)
}

// WithError adds error details to the logger.
// Coded errors anywhere in the chain contribute error_code and suggestions.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.With(errorArgs(err, false)...)
}

// errorArgs flattens err into slog key/value pairs.
func errorArgs(err error, withDocs bool) []any {
	var vaultErr *errors.VaultError
	if !stderrors.As(err, &vaultErr) {
		return []any{"error", err.Error()}
	}

	args := []any{
		"error", vaultErr.Message,
		"error_code", string(vaultErr.Code),
	}
	if len(vaultErr.Suggestions) > 0 {
		args = append(args, "suggestions", vaultErr.Suggestions)
	}
	if withDocs && vaultErr.DocsURL != "" {
		args = append(args, "docs_url", vaultErr.DocsURL)
	}
	if vaultErr.Cause != nil {
		args = append(args, "cause", vaultErr.Cause.Error())
	}
	return args
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// LogErrorContext logs err at error level with every detail a VaultError
// carries.
func (l *Logger) LogErrorContext(ctx context.Context, err error) {
	if err == nil {
		return
	}
	l.slog.ErrorContext(ctx, "operation failed", errorArgs(err, true)...)
}

// Config returns the logger configuration
func (l *Logger) Config() Config {
	return l.config
}
