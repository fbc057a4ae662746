// Package httpserver hosts the authz HTTP surface: a thin net/http wrapper
// with environment-driven timeouts, context-driven graceful shutdown, and
// liveness and readiness handlers.
//
// The server owns no lifecycle signals. The caller builds a context with
// signal.NotifyContext and passes it to Run; cancellation drains in-flight
// requests within Config.ShutdownTimeout.
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.LivenessHandler())
//	r.Get("/readyz", httpserver.ReadinessHandler(log, pg.Healthcheck(pool)))
//	r.Mount("/", authz.Router(opts))
//
//	if err := httpserver.New(cfg, log).Run(ctx, r); err != nil {
//		// handle error
//	}
//
// Failures wrap the ErrStart and ErrShutdown sentinels for errors.Is
// inspection.
package httpserver
