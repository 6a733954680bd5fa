// Package logger configures zerolog and carries request-scoped loggers through context.
package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global level and output. Console output is human readable; otherwise JSON.
func Init(level string, console bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if console {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &log.Logger
}

// FromContext returns the request logger stored in ctx, or the global logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &log.Logger
	}
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return l
}

// WithRequestID attaches a logger tagged with the request id to ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := FromContext(ctx).With().Str("request_id", requestID).Logger()
	return l.WithContext(ctx)
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Debug().Msg(fmt.Sprintf(format, args...))
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Info().Msg(fmt.Sprintf(format, args...))
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Warn().Msg(fmt.Sprintf(format, args...))
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Error().Msg(fmt.Sprintf(format, args...))
}
