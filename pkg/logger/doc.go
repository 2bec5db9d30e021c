// Package logger builds log/slog loggers for formkit services and defines the
// attribute helpers used across the module.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.AppEnv, cfg.ServiceName),
//		logger.WithContextExtractors(logger.RequestIDExtractor),
//	)
//	log.InfoContext(ctx, "form validated", logger.Form("signup"), logger.ErrorCount(0))
//
// WithFormat and WithLevelName panic on invalid values so that a bad
// configuration stops the process at startup.
package logger
