// Package logger wires the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"

	"github.com/jwebster45206/life-engine/internal/config"
)

// Setup builds the root logger from config and installs it as the
// slog default. Production gets JSON output; everything else gets
// text for local readability. Every line carries the service name.
func Setup(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	switch cfg.Environment {
	case "production":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With("service", "life-engine")
	slog.SetDefault(logger)
	return logger
}

// WithRequestID returns a logger carrying the request id.
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}

// WithError returns a logger carrying the error message.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
