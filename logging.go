package anchor

import (
	"context"
	"log/slog"
	"time"
)

// Op names a codec operation in log events.
type Op string

const (
	OpEncode Op = "encode"
	OpDecode Op = "decode"
	OpWrite  Op = "write"
	OpRule   Op = "rule"
	OpSave   Op = "save"
)

// LogEvent describes one codec operation for logging.
type LogEvent struct {
	Op       Op
	Fragment string
	Href     string
	Key      string
	Duration time.Duration
	Err      error
}

// Logger records codec events.
type Logger interface {
	LogCodec(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogCodec implements Logger.
func (f LoggerFunc) LogCodec(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogCodec(LogEvent) {}

// WithLogger attaches a logger to the Codec.
func WithLogger(logger Logger) Option {
	return func(cfg *codecConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// SlogLogger forwards codec events to a slog.Logger. Failures log at warn
// level, everything else at debug.
func SlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return LoggerFunc(func(event LogEvent) {
		attrs := []slog.Attr{
			slog.String("op", string(event.Op)),
			slog.Duration("duration", event.Duration),
		}
		if event.Fragment != "" {
			attrs = append(attrs, slog.String("fragment", event.Fragment))
		}
		if event.Href != "" {
			attrs = append(attrs, slog.String("href", event.Href))
		}
		if event.Key != "" {
			attrs = append(attrs, slog.String("key", event.Key))
		}
		level := slog.LevelDebug
		if event.Err != nil {
			level = slog.LevelWarn
			attrs = append(attrs, slog.String("error", event.Err.Error()))
		}
		logger.LogAttrs(context.Background(), level, "anchor "+string(event.Op), attrs...)
	})
}
