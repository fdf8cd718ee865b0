package app

import (
	"log/slog"

	"github.com/dmitrymomot/linkauth/pkg/logger"
	"github.com/dmitrymomot/linkauth/pkg/requestid"
)

// NewLogger builds the service logger. LOG_LEVEL overrides the environment default.
func NewLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	return logger.New(opts...)
}
