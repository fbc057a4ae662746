package credential

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shiftops/authcore/pkg/gate"
	"github.com/shiftops/authcore/pkg/vault"
)

// Service manages sealed third-party credentials on behalf of tenants.
// Every operation is gate-checked against the caller's principal before the
// vault or store is touched; plaintext only ever flows between the caller
// and the vault, never into logs or storage.
type Service struct {
	vault *vault.Vault
	store Store
	log   *slog.Logger
}

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// WithLogger sets the logger used for rotation audit records.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates a credential Service.
// Panics if vault or store is nil to fail fast during initialization.
func NewService(v *vault.Vault, store Store, opts ...ServiceOption) *Service {
	if v == nil {
		panic("credential: Vault is required")
	}
	if store == nil {
		panic("credential: Store is required")
	}
	s := &Service{vault: v, store: store, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put seals and stores a secret for the organization/integration pair,
// replacing any existing credential. Returns an opaque handle carrying no
// secret material.
func (s *Service) Put(ctx context.Context, principal gate.Principal, orgID uuid.UUID, integrationID string, plaintext []byte) (*Handle, error) {
	if err := gate.CanManageCredentials(principal, orgID, true); err != nil {
		return nil, err
	}
	if integrationID == "" {
		return nil, ErrIntegrationRequired
	}
	if len(plaintext) == 0 {
		return nil, ErrEmptySecret
	}

	owner := vault.OwnerContext{OrgID: orgID, IntegrationID: integrationID}
	sealed, err := s.vault.Encrypt(plaintext, owner)
	if err != nil {
		return nil, err
	}

	cred := &Credential{
		OrgID:         orgID,
		IntegrationID: integrationID,
		Sealed:        sealed,
	}
	if err := s.store.Save(ctx, cred); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "credential stored",
		slog.String("org_id", orgID.String()),
		slog.String("integration_id", integrationID),
		slog.String("key_id", sealed.KeyID))

	return &Handle{
		OrgID:         orgID,
		IntegrationID: integrationID,
		KeyID:         sealed.KeyID,
		UpdatedAt:     cred.UpdatedAt,
	}, nil
}

// Get decrypts and returns the stored secret. The plaintext is handed only
// to the in-process caller that already passed the gate check.
func (s *Service) Get(ctx context.Context, principal gate.Principal, orgID uuid.UUID, integrationID string) ([]byte, error) {
	if err := gate.CanManageCredentials(principal, orgID, false); err != nil {
		return nil, err
	}
	if integrationID == "" {
		return nil, ErrIntegrationRequired
	}

	cred, err := s.store.Get(ctx, orgID, integrationID)
	if err != nil {
		return nil, err
	}
	return s.vault.Decrypt(cred.Sealed, cred.Owner())
}

// Delete removes the sealed credential on integration removal.
func (s *Service) Delete(ctx context.Context, principal gate.Principal, orgID uuid.UUID, integrationID string) error {
	if err := gate.CanManageCredentials(principal, orgID, true); err != nil {
		return err
	}
	if integrationID == "" {
		return ErrIntegrationRequired
	}

	if err := s.store.Delete(ctx, orgID, integrationID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "credential deleted",
		slog.String("org_id", orgID.String()),
		slog.String("integration_id", integrationID))
	return nil
}

// Rotate re-seals the stored secret under the keyring's current key without
// changing the plaintext. The store's atomic replace means readers see
// either the old sealed row or the new one, never a mix.
func (s *Service) Rotate(ctx context.Context, principal gate.Principal, orgID uuid.UUID, integrationID string) (*Handle, error) {
	if err := gate.CanManageCredentials(principal, orgID, true); err != nil {
		return nil, err
	}
	if integrationID == "" {
		return nil, ErrIntegrationRequired
	}

	cred, err := s.store.Get(ctx, orgID, integrationID)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.vault.Decrypt(cred.Sealed, cred.Owner())
	if err != nil {
		return nil, err
	}

	sealed, err := s.vault.Encrypt(plaintext, cred.Owner())
	if err != nil {
		return nil, err
	}

	cred.Sealed = sealed
	if err := s.store.Save(ctx, cred); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "credential rotated",
		slog.String("org_id", orgID.String()),
		slog.String("integration_id", integrationID),
		slog.String("key_id", sealed.KeyID))

	return &Handle{
		OrgID:         orgID,
		IntegrationID: integrationID,
		KeyID:         sealed.KeyID,
		UpdatedAt:     cred.UpdatedAt,
	}, nil
}
