package logger

import (
	"context"
	"io"
	"os"
	"time"

	"lodge/config"
	"lodge/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// InitLogger installs a human readable console logger at trace level. Configure narrows it once
// the configuration is loaded.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// Configure applies SERVER_LOG_LEVEL and switches production to JSON lines.
func Configure(cfg *config.Config) {
	SetLogLevel(cfg)

	if cfg.Server.Env == constant.ServerEnvProduction {
		SetOutput(os.Stdout, cfg.App.Name)
	}
}

func SetOutput(writer io.Writer, app string) {
	log.Logger = zerolog.New(writer).With().Timestamp().Str("app", app).Logger()
}

// SetLogLevel falls back to trace when the level does not parse.
func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Trace().Str("loglevel", level.String()).Msg("Log level set.")
}

// ErrorWithStack logs err with the stack of the caller.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// FromContext returns the global logger tagged with the trace and span of ctx, so log lines can be
// joined to traces.
func FromContext(ctx context.Context) *zerolog.Logger {
	spanContext := trace.SpanContextFromContext(ctx)
	if !spanContext.IsValid() {
		return &log.Logger
	}

	tagged := log.With().
		Str("trace_id", spanContext.TraceID().String()).
		Str("span_id", spanContext.SpanID().String()).
		Logger()

	return &tagged
}
