// Package logger builds *slog.Logger instances and provides attribute helpers
// so that every component logs the same keys.
//
// New wraps the handler with NewLogHandlerDecorator when extractors are
// given, so request-scoped values (request ID, client IP) are read from the
// context at log time.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "linkauth"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.ErrorContext(ctx, "failed to send magic link",
//	    logger.Email(email),
//	    logger.Error(err),
//	    logger.Component("auth"),
//	)
package logger
