package log

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	z zerolog.Logger
}

// NewZerologLogger returns a JSON zerolog logger writing to w.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	z := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{z: z}
}

// NewConsoleLogger returns a human-readable zerolog logger for terminals.
func NewConsoleLogger(w io.Writer, level Level) *ZerologLogger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	z := zerolog.New(cw).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{z: z}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *ZerologLogger {
	return &ZerologLogger{z: zerolog.Nop()}
}

func (l *ZerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.z.Debug(), msg, fields)
}

func (l *ZerologLogger) Info(msg string, fields ...any) {
	l.emit(l.z.Info(), msg, fields)
}

func (l *ZerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.z.Warn(), msg, fields)
}

func (l *ZerologLogger) Error(msg string, fields ...any) {
	l.emit(l.z.Error(), msg, fields)
}

func (l *ZerologLogger) With(fields ...any) Logger {
	ctx := l.z.With()
	for i := 0; i+1 < len(fields); i += 2 {
		ctx = ctx.Interface(fmt.Sprint(fields[i]), fields[i+1])
	}
	return &ZerologLogger{z: ctx.Logger()}
}

func (l *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	zl := l.z.GetLevel()
	return zl != zerolog.Disabled && toZerologLevel(level) >= zl
}

// warn logs a warning value, embedding its structured fields when it
// implements zerolog.LogObjectMarshaler.
func (l *ZerologLogger) warn(w error) {
	ev := l.z.Warn()
	if m, ok := w.(zerolog.LogObjectMarshaler); ok {
		ev = ev.EmbedObject(m)
	}
	ev.Msg(w.Error())
}

func (l *ZerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	i := 0
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			if m, ok := err.(zerolog.LogObjectMarshaler); ok {
				ev = ev.Object("detail", m)
			}
			i = 1
		}
	}
	for ; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		switch v := fields[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case zerolog.LogObjectMarshaler:
			ev = ev.Object(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

var (
	globalMu     sync.RWMutex
	globalLogger Logger = NewNopLogger()
)

// GetLogger returns the process-wide logger. It discards everything until
// SetLogger is called.
func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetLogger replaces the process-wide logger and routes errors.Warn through it.
func SetLogger(l Logger) {
	if l == nil {
		l = NewNopLogger()
	}
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()

	if zl, ok := l.(*ZerologLogger); ok {
		errors.SetZerologWarnFunc(zl.warn)
		return
	}
	errors.SetZerologWarnFunc(func(w error) {
		l.Warn(w.Error(), ErrorTypeKey, fmt.Sprintf("%T", w))
	})
}

// GetLoggerWithName returns the process-wide logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}
