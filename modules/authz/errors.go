package authz

import (
	"errors"
	"net/http"

	"github.com/shiftops/authcore/pkg/credential"
	"github.com/shiftops/authcore/pkg/entitlement"
	"github.com/shiftops/authcore/pkg/gate"
	"github.com/shiftops/authcore/pkg/pg"
	"github.com/shiftops/authcore/pkg/vault"
)

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// mapError translates core errors into external responses. Authorization and
// crypto failures collapse into a generic denial, and not-found collapses
// into a generic "not available", so responses never leak whether a row
// exists in another tenant. Transient store errors are the only retryable
// signal.
func mapError(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, gate.ErrCrossOrgAccess),
		errors.Is(err, gate.ErrPermissionDenied),
		errors.Is(err, entitlement.ErrTenantMismatch),
		errors.Is(err, vault.ErrDecryptionFailed),
		errors.Is(err, vault.ErrKeyNotFound),
		errors.Is(err, vault.ErrInvalidCiphertext):
		return http.StatusForbidden, errorResponse{Error: "denied"}

	case errors.Is(err, entitlement.ErrOrganizationNotFound),
		errors.Is(err, entitlement.ErrUserNotFound),
		errors.Is(err, credential.ErrCredentialNotFound):
		return http.StatusNotFound, errorResponse{Error: "not available"}

	case errors.Is(err, entitlement.ErrInvalidOverride),
		errors.Is(err, entitlement.ErrUnknownFeature),
		errors.Is(err, credential.ErrIntegrationRequired),
		errors.Is(err, credential.ErrEmptySecret),
		errors.Is(err, vault.ErrInvalidOwnerContext):
		return http.StatusBadRequest, errorResponse{Error: "invalid request"}

	case pg.IsTransientError(err):
		return http.StatusServiceUnavailable, errorResponse{Error: "temporarily unavailable", Retryable: true}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal error"}
}
