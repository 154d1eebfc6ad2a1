package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// ZeroLogger implements the ports.Logger interface on top of zerolog,
// emitting structured JSON. Useful when run output is collected by log
// tooling rather than read in a terminal.
type ZeroLogger struct {
	l zerolog.Logger
}

// NewZeroLogger creates a zerolog-backed logger writing JSON to stdout.
func NewZeroLogger(level LogLevel) *ZeroLogger {
	zl := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(toZerologLevel(level))
	return &ZeroLogger{l: zl}
}

func toZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func withFields(ev *zerolog.Event, fields ...map[string]interface{}) *zerolog.Event {
	if len(fields) > 0 && fields[0] != nil {
		ev = ev.Fields(fields[0])
	}
	return ev
}

// Debug logs a message at Debug level.
func (z *ZeroLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	withFields(z.l.Debug(), fields...).Msg(msg)
}

// Info logs a message at Info level.
func (z *ZeroLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	withFields(z.l.Info(), fields...).Msg(msg)
}

// Warn logs a message at Warning level.
func (z *ZeroLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	withFields(z.l.Warn(), fields...).Msg(msg)
}

// Error logs an error message at Error level.
func (z *ZeroLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	withFields(z.l.Error().Err(err), fields...).Msg(msg)
}
