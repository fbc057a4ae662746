package credential

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftops/authcore/pkg/pg"
)

// PGStore is the PostgreSQL implementation of the Store interface. The
// upsert in Save gives rotation its replace-old-with-new atomicity.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Store backed by the given connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	if pool == nil {
		panic("credential: connection pool is required")
	}
	return &PGStore{pool: pool}
}

func (s *PGStore) Get(ctx context.Context, orgID uuid.UUID, integrationID string) (*Credential, error) {
	cred := Credential{OrgID: orgID, IntegrationID: integrationID}
	err := s.pool.QueryRow(ctx,
		`SELECT key_id, nonce, ciphertext, owner_tag, created_at, updated_at
		 FROM credentials
		 WHERE org_id = $1 AND integration_id = $2`,
		orgID, integrationID,
	).Scan(&cred.Sealed.KeyID, &cred.Sealed.Nonce, &cred.Sealed.Ciphertext, &cred.Sealed.OwnerTag, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}
	if err := cred.Sealed.Validate(); err != nil {
		return nil, err
	}
	return &cred, nil
}

func (s *PGStore) Save(ctx context.Context, cred *Credential) error {
	if err := cred.Sealed.Validate(); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO credentials (org_id, integration_id, key_id, nonce, ciphertext, owner_tag, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		 ON CONFLICT (org_id, integration_id) DO UPDATE SET
		   key_id = EXCLUDED.key_id,
		   nonce = EXCLUDED.nonce,
		   ciphertext = EXCLUDED.ciphertext,
		   owner_tag = EXCLUDED.owner_tag,
		   updated_at = now()`,
		cred.OrgID, cred.IntegrationID, cred.Sealed.KeyID, cred.Sealed.Nonce, cred.Sealed.Ciphertext, cred.Sealed.OwnerTag,
	)
	return err
}

func (s *PGStore) Delete(ctx context.Context, orgID uuid.UUID, integrationID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM credentials WHERE org_id = $1 AND integration_id = $2`,
		orgID, integrationID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

var _ Store = (*PGStore)(nil)
