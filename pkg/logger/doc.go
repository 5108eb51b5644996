// Package logger builds slog loggers for the service: JSON output, request-scoped
// attributes pulled from the context, a no-op logger for library defaults and an
// optional Sentry fan-out.
//
//	log := logger.New(
//		logger.WithLevel(logger.ParseLevel("debug")),
//		logger.WithExtractors(server.RequestIDExtractor()),
//	)
//	log.InfoContext(ctx, "login completed", slog.String("provider", "github"))
//
// A ContextExtractor returns one attribute per record, evaluated at log time:
//
//	func tenantExtractor(ctx context.Context) (slog.Attr, bool) {
//		id, ok := ctx.Value(tenantKey{}).(string)
//		return slog.String("tenant_id", id), ok
//	}
//
// NewWithSentry sends errors to Sentry as issues and warnings as logs when a DSN
// is set; without one it behaves like New.
package logger
