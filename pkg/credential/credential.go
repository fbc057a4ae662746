package credential

import (
	"time"

	"github.com/google/uuid"

	"github.com/shiftops/authcore/pkg/vault"
)

// Credential is a sealed third-party secret owned by one organization,
// scoped to one integration instance. Only ciphertext is ever stored;
// plaintext exists transiently in process memory during a request.
type Credential struct {
	OrgID         uuid.UUID
	IntegrationID string
	Sealed        vault.SealedCredential
	CreatedAt     time.Time
	UpdatedAt     time.Time // bumped on rotation
}

// Owner returns the vault owner context this credential is bound to.
func (c Credential) Owner() vault.OwnerContext {
	return vault.OwnerContext{OrgID: c.OrgID, IntegrationID: c.IntegrationID}
}

// Handle is the opaque reference returned to callers after a write. It
// carries no secret material.
type Handle struct {
	OrgID         uuid.UUID `json:"org_id"`
	IntegrationID string    `json:"integration_id"`
	KeyID         string    `json:"key_id"`
	UpdatedAt     time.Time `json:"updated_at"`
}
