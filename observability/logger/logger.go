// Package logger provides the structured logger used by providers and the host service.
//
// It wraps zap's SugaredLogger. Two encodings are supported: "json" for
// production and "pretty" for terminals.
package logger

import (
	"context"
	"errors"

	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rise-and-shine/fileprovider/meta"
)

// Logger defines the standard logging interface used across applications.
// It provides methods for different log levels and formatting options.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg any)
	// Info logs a message at info level.
	Info(msg any)
	// Warn logs a message at warn level.
	Warn(msg any)
	// Error logs a message at error level.
	Error(msg any)

	// Debugf logs a formatted message at debug level.
	Debugf(format string, args ...any)
	// Infof logs a formatted message at info level.
	Infof(format string, args ...any)
	// Warnf logs a formatted message at warn level.
	Warnf(format string, args ...any)
	// Errorf logs a formatted message at error level.
	Errorf(format string, args ...any)

	// Warnx logs err at warn level together with its errx code, type, trace and details.
	Warnx(err error)
	// Errorx logs err at error level together with its errx code, type, trace and details.
	Errorx(err error)

	// Infow logs a message with key-value pairs at info level.
	Infow(msg string, keysAndValues ...any)
	// Warnw logs a message with key-value pairs at warn level.
	Warnw(msg string, keysAndValues ...any)
	// Errorw logs a message with key-value pairs at error level.
	Errorw(msg string, keysAndValues ...any)

	// With creates a new logger with the given key-value pairs.
	// The returned logger inherits the properties of the original logger
	// and includes the provided key-value pairs in all subsequent log entries.
	With(keysAndValues ...any) Logger
	// WithContext creates a logger with context information,
	// enriching the log entries with metadata from the context.
	WithContext(ctx context.Context) Logger

	// Named adds a sub-scope to the logger's name.
	Named(name string) Logger

	// Sync flushes any buffered log entries.
	// Intended for use on application shutdown to ensure all logs are written.
	Sync() error
}

// logger implements the Logger interface using zap's SugaredLogger.
type logger struct {
	*zap.SugaredLogger
}

// New creates a Logger with the provided configuration.
func New(cfg Config) (Logger, error) {
	if cfg.Disable {
		return NewNop(), nil
	}

	zapConfig, err := cfg.getZapConfig()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if cfg.Encoding == encPretty {
		return &logger{newPrettyLogger(zapConfig).Sugar()}, nil
	}

	jsonLogger, err := zapConfig.Build()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &logger{jsonLogger.Sugar()}, nil
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &logger{zap.NewNop().Sugar()}
}

// NewFromCore builds a Logger on top of an existing zap core.
// Mostly useful in tests together with zaptest/observer.
func NewFromCore(core zapcore.Core) Logger {
	return &logger{zap.New(core).Sugar()}
}

func (l *logger) Warnx(err error) {
	l.withErrorFields(err).Warn(err.Error())
}

func (l *logger) Errorx(err error) {
	l.withErrorFields(err).Error(err.Error())
}

func (l *logger) withErrorFields(err error) Logger {
	var e errx.ErrorX
	if !errors.As(err, &e) {
		return l
	}
	return l.With(
		"error_code", e.Code(),
		"error_type", e.Type().String(),
		"error_trace", e.Trace(),
		"error_fields", e.Fields(),
		"error_details", e.Details(),
	)
}

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{
		SugaredLogger: l.SugaredLogger.With(keysAndValues...),
	}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	var withFields []any
	metaData := meta.ExtractMetaFromContext(ctx)
	for k, v := range metaData {
		if v != "" {
			// Convert ContextKey to string to avoid the "non-string keys" error
			withFields = append(withFields, string(k), v)
		}
	}

	if len(withFields) > 0 {
		return l.With(withFields...)
	}

	return l
}

func (l *logger) Named(name string) Logger {
	return &logger{
		SugaredLogger: l.SugaredLogger.Named(name),
	}
}

func (l *logger) Debug(msg any) {
	l.SugaredLogger.Debug(msg)
}

func (l *logger) Info(msg any) {
	l.SugaredLogger.Info(msg)
}

func (l *logger) Warn(msg any) {
	l.SugaredLogger.Warn(msg)
}

func (l *logger) Error(msg any) {
	l.SugaredLogger.Error(msg)
}
