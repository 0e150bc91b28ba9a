// Package logger builds *slog.Logger instances from functional options.
//
// New returns a JSON logger at info level on stdout unless options say
// otherwise. WithEnvironment applies per-environment presets, and
// WithContextValue copies request-scoped values from the context into every
// record. The helpers in attr.go keep attribute keys consistent.
//
//	log := logger.New(
//		logger.WithEnvironment(os.Getenv("APP_ENV"), "mongoprobe"),
//		logger.WithContextValue("run_id", runIDKey{}),
//	)
//	log.InfoContext(ctx, "counted documents", logger.Collection("users"), logger.Count(n))
package logger
