// Package log provides the structured logging facade used across the scheduler.
package log

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Level represents a logging level
type Level int

const (
	// DebugLevel is for detailed debugging information
	DebugLevel Level = iota
	// InfoLevel is for general operational information
	InfoLevel
	// WarnLevel is for warning messages
	WarnLevel
	// ErrorLevel is for error messages
	ErrorLevel
	// FatalLevel is for fatal errors that should terminate the program
	FatalLevel
	// PanicLevel is for panic messages
	PanicLevel
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	case PanicLevel:
		return "PANIC"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	case PanicLevel:
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger represents a logger instance. Every entry point that needs to name a
// stage ID, task ID, or registry key in a log line does so through
// WithField/WithFields rather than string interpolation, so secret values
// never end up formatted into a message.
type Logger interface {
	Debug(message string)
	Info(message string)
	Warn(message string)
	Error(message string, err error)
	Fatal(message string, err error)
	Panic(message string, err error)
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger
	WithContext(ctx context.Context) Logger
}

// ZerologLogger adapts zerolog to the Logger interface.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewBasicLogger creates a new logger with the specified level, writing
// human-readable lines to stdout.
func NewBasicLogger(level Level) Logger {
	return NewBasicLoggerWithWriter(level, os.Stdout)
}

// NewBasicLoggerWithWriter creates a logger with a custom writer.
func NewBasicLoggerWithWriter(level Level, writer io.Writer) Logger {
	console := zerolog.ConsoleWriter{Out: writer, TimeFormat: "2006-01-02T15:04:05Z07:00"}
	zl := zerolog.New(console).Level(level.zerolog()).With().Timestamp().Logger()
	return &ZerologLogger{logger: zl}
}

// NewJSONLogger creates a logger that emits one JSON object per line, suited
// to the metrics/status server's log stream.
func NewJSONLogger(level Level, writer io.Writer) Logger {
	zl := zerolog.New(writer).Level(level.zerolog()).With().Timestamp().Logger()
	return &ZerologLogger{logger: zl}
}

func (l *ZerologLogger) WithField(key string, value interface{}) Logger {
	return &ZerologLogger{logger: l.logger.With().Interface(key, value).Logger()}
}

func (l *ZerologLogger) WithFields(fields map[string]interface{}) Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &ZerologLogger{logger: ctx.Logger()}
}

func (l *ZerologLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return &ZerologLogger{logger: l.logger.With().Err(err).Logger()}
}

func (l *ZerologLogger) WithContext(ctx context.Context) Logger {
	return &ZerologLogger{logger: l.logger.With().Ctx(ctx).Logger()}
}

func (l *ZerologLogger) Debug(message string) { l.logger.Debug().Msg(message) }
func (l *ZerologLogger) Info(message string)  { l.logger.Info().Msg(message) }
func (l *ZerologLogger) Warn(message string)  { l.logger.Warn().Msg(message) }

func (l *ZerologLogger) Error(message string, err error) {
	l.logger.Error().Err(err).Msg(message)
}

func (l *ZerologLogger) Fatal(message string, err error) {
	l.logger.Fatal().Err(err).Msg(message)
}

func (l *ZerologLogger) Panic(message string, err error) {
	l.logger.Panic().Err(err).Msg(message)
}

// NewLogger creates a new logger with INFO level by default.
func NewLogger() Logger {
	return NewBasicLogger(InfoLevel)
}

// NewLoggerWithLevel creates a new logger with the specified level.
func NewLoggerWithLevel(level Level) Logger {
	return NewBasicLogger(level)
}

// ParseLevel parses a string level, defaulting to InfoLevel on no match.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	case "panic":
		return PanicLevel
	default:
		return InfoLevel
	}
}
