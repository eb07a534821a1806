// Package logger builds the service's structured slog loggers.
//
// New returns a JSON logger writing to stdout. NewWithSentry additionally
// forwards warnings and errors to Sentry when a DSN is configured, and
// degrades to stdout-only logging when it is not. Both accept context
// extractors that inject request-scoped attributes (such as the request ID)
// into every log record:
//
//	log := logger.NewWithSentry(cfg, logger.RequestID())
//	log.InfoContext(ctx, "campaign accepted", slog.String("job_id", id))
package logger
