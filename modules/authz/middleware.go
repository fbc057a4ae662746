package authz

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/shiftops/authcore/pkg/gate"
)

// Headers the trusted authentication layer injects after verifying the
// session. This service must only be reachable through that layer; the
// middleware rejects requests where the triple is missing or malformed.
const (
	HeaderUserID = "X-Auth-User-ID"
	HeaderOrgID  = "X-Auth-Org-ID"
	HeaderRole   = "X-Auth-Role"
)

// PrincipalMiddleware extracts the pre-verified principal from request
// headers and stores it in the request context. Requests without a complete,
// well-formed principal are rejected with 401 before reaching any handler.
func PrincipalMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := uuid.Parse(r.Header.Get(HeaderUserID))
			if err != nil {
				unauthorized(w)
				return
			}
			orgID, err := uuid.Parse(r.Header.Get(HeaderOrgID))
			if err != nil {
				unauthorized(w)
				return
			}
			role := gate.Role(r.Header.Get(HeaderRole))
			if !role.Valid() {
				log.WarnContext(r.Context(), "request with unknown role rejected",
					slog.String("role", string(role)))
				unauthorized(w)
				return
			}

			p := gate.Principal{UserID: userID, OrgID: orgID, Role: role}
			next.ServeHTTP(w, r.WithContext(gate.WithPrincipal(r.Context(), p)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}
