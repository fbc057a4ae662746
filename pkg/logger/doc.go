// Package logger builds configured slog.Logger instances with automatic
// context attribute injection.
//
// The factory wraps a standard JSON or text handler with a decorator that
// runs registered ContextExtractor functions on every log call, so
// request-scoped values such as the authenticated principal appear on every
// record without call sites passing them explicitly.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithService("authcore"),
//	    logger.WithContextExtractors(gate.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
// Attr helpers (Error, UserID, OrgID, IntegrationID, FeatureKey) keep the
// attribute keys consistent across packages.
package logger
