// Package pg provides PostgreSQL plumbing for the entitlement and credential
// stores: pool construction with startup retry, goose migrations over pgx,
// a pool healthcheck, and error classification helpers.
//
// The classification helpers map driver errors onto the store error
// taxonomy: IsNotFoundError for missing rows, IsDuplicateKeyError and
// IsForeignKeyViolationError for constraint violations, and
// IsTransientError for connection losses, timeouts, and serialization
// failures that callers may retry with backoff.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    // handle error
//	}
package pg
