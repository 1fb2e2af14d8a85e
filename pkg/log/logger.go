package log

import (
	"context"
	"io"
	"log/slog"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// SlogLogger adapts a *slog.Logger to the Logger interface.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger builds a JSON slog logger writing to w. When cloud is true the
// level, message and source keys are renamed to the Cloud Logging format.
func NewSlogLogger(w io.Writer, level Level, cloud bool) *SlogLogger {
	ops := slog.HandlerOptions{
		AddSource: cloud,
		Level:     slog.Level(level),
	}
	if cloud {
		ops.ReplaceAttr = func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			case slog.SourceKey:
				attr = slog.Attr{
					Key:   "logging.googleapis.com/sourceLocation",
					Value: attr.Value,
				}
			}
			return attr
		}
	}
	handler := slog.NewJSONHandler(w, &ops)
	return &SlogLogger{logger: slog.New(WrapByErrFmtHandler(handler))}
}

func (s *SlogLogger) Debug(msg string, fields ...any) {
	s.logger.Debug(msg, slogArgs(fields)...)
}

func (s *SlogLogger) Info(msg string, fields ...any) {
	s.logger.Info(msg, slogArgs(fields)...)
}

func (s *SlogLogger) Warn(msg string, fields ...any) {
	s.logger.Warn(msg, slogArgs(fields)...)
}

func (s *SlogLogger) Error(msg string, fields ...any) {
	s.logger.Error(msg, slogArgs(fields)...)
}

func (s *SlogLogger) With(fields ...any) Logger {
	return &SlogLogger{logger: s.logger.With(slogArgs(fields)...)}
}

func (s *SlogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.logger.Enabled(ctx, slog.Level(level))
}

// slogArgs turns a leading error value into an ErrAttr so ErrFmtHandler can
// attach its stack trace.
func slogArgs(fields []any) []any {
	if len(fields) == 0 {
		return fields
	}
	if err, ok := fields[0].(error); ok {
		args := make([]any, 0, len(fields))
		args = append(args, ErrAttr(err))
		return append(args, fields[1:]...)
	}
	return fields
}
