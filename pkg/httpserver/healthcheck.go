package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/shiftops/authcore/pkg/logger"
)

// LivenessHandler reports process liveness. It always answers 200 "ALIVE":
// if the process can serve the request, it is alive.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ALIVE"))
	}
}

// ReadinessHandler runs each dependency check with the request context and
// answers 200 "READY" only when all of them succeed. The first failure is
// logged and answered with 503 "NOT_READY" so the balancer pulls the
// instance without killing it.
func ReadinessHandler(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("NOT_READY"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	}
}
