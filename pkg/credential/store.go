package credential

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists sealed credentials. Save must replace any existing row for
// the same (organization, integration) pair atomically, so a rotation never
// leaves a reader observing half old, half new columns.
type Store interface {
	// Get retrieves a sealed credential.
	// Returns ErrCredentialNotFound if no row exists.
	Get(ctx context.Context, orgID uuid.UUID, integrationID string) (*Credential, error)

	// Save inserts or atomically replaces the row for the pair.
	Save(ctx context.Context, cred *Credential) error

	// Delete removes the row. Returns ErrCredentialNotFound if no row exists.
	Delete(ctx context.Context, orgID uuid.UUID, integrationID string) error
}

type memKey struct {
	orgID         uuid.UUID
	integrationID string
}

// MemoryStore is an in-memory Store implementation for tests and local
// development.
type MemoryStore struct {
	mu    sync.RWMutex
	creds map[memKey]Credential
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{creds: make(map[memKey]Credential)}
}

func (s *MemoryStore) Get(ctx context.Context, orgID uuid.UUID, integrationID string) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, exists := s.creds[memKey{orgID, integrationID}]
	if !exists {
		return nil, ErrCredentialNotFound
	}
	return &cred, nil
}

func (s *MemoryStore) Save(ctx context.Context, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memKey{cred.OrgID, cred.IntegrationID}
	now := time.Now().UTC()
	stored := *cred
	if existing, exists := s.creds[key]; exists {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.creds[key] = stored
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, orgID uuid.UUID, integrationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memKey{orgID, integrationID}
	if _, exists := s.creds[key]; !exists {
		return ErrCredentialNotFound
	}
	delete(s.creds, key)
	return nil
}

var _ Store = (*MemoryStore)(nil)
