package authz

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shiftops/authcore/pkg/credential"
	"github.com/shiftops/authcore/pkg/entitlement"
	"github.com/shiftops/authcore/pkg/gate"
	"github.com/shiftops/authcore/pkg/logger"
)

type handlers struct {
	resolver *entitlement.Resolver
	manager  *entitlement.Manager
	creds    *credential.Service
	log      *slog.Logger
}

func (h *handlers) resolveFeatures(w http.ResponseWriter, r *http.Request) {
	principal := gate.MustFromContext(r.Context())

	orgID, userID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	set, err := h.resolver.Resolve(r.Context(), principal, userID, orgID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

type overrideRequest struct {
	Value entitlement.OverrideValue `json:"value"`
}

func (h *handlers) setOverride(w http.ResponseWriter, r *http.Request) {
	principal := gate.MustFromContext(r.Context())

	_, userID, ok := pathIDs(w, r)
	if !ok {
		return
	}
	key := entitlement.FeatureKey(chi.URLParam(r, "featureKey"))

	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.manager.SetOverride(r.Context(), principal, userID, key, req.Value); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) clearOverride(w http.ResponseWriter, r *http.Request) {
	principal := gate.MustFromContext(r.Context())

	_, userID, ok := pathIDs(w, r)
	if !ok {
		return
	}
	key := entitlement.FeatureKey(chi.URLParam(r, "featureKey"))

	if err := h.manager.ClearOverride(r.Context(), principal, userID, key); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type credentialRequest struct {
	Secret string `json:"secret"`
}

type credentialResponse struct {
	Secret string `json:"secret"`
}

func (h *handlers) putCredential(w http.ResponseWriter, r *http.Request) {
	principal := gate.MustFromContext(r.Context())

	orgID, integrationID, ok := credentialScope(w, r)
	if !ok {
		return
	}

	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	handle, err := h.creds.Put(r.Context(), principal, orgID, integrationID, []byte(req.Secret))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, handle)
}

func (h *handlers) getCredential(w http.ResponseWriter, r *http.Request) {
	principal := gate.MustFromContext(r.Context())

	orgID, integrationID, ok := credentialScope(w, r)
	if !ok {
		return
	}

	plaintext, err := h.creds.Get(r.Context(), principal, orgID, integrationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, credentialResponse{Secret: string(plaintext)})
}

func (h *handlers) deleteCredential(w http.ResponseWriter, r *http.Request) {
	principal := gate.MustFromContext(r.Context())

	orgID, integrationID, ok := credentialScope(w, r)
	if !ok {
		return
	}

	if err := h.creds.Delete(r.Context(), principal, orgID, integrationID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) rotateCredential(w http.ResponseWriter, r *http.Request) {
	principal := gate.MustFromContext(r.Context())

	orgID, integrationID, ok := credentialScope(w, r)
	if !ok {
		return
	}

	handle, err := h.creds.Rotate(r.Context(), principal, orgID, integrationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, handle)
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := mapError(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "authz request failed", logger.Error(err))
	}
	writeJSON(w, status, resp)
}

func pathIDs(w http.ResponseWriter, r *http.Request) (orgID, userID uuid.UUID, ok bool) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid organization id"})
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return uuid.Nil, uuid.Nil, false
	}
	return orgID, userID, true
}

func credentialScope(w http.ResponseWriter, r *http.Request) (orgID uuid.UUID, integrationID string, ok bool) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid organization id"})
		return uuid.Nil, "", false
	}
	integrationID = chi.URLParam(r, "integrationID")
	if integrationID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid integration id"})
		return uuid.Nil, "", false
	}
	return orgID, integrationID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
