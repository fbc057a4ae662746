package entitlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftops/authcore/pkg/pg"
)

// PGStore is the PostgreSQL implementation of the Store interface. Multi-row
// writes run inside a single transaction so the version counters the cache
// keys on are bumped atomically with the rows they cover.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Store backed by the given connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	if pool == nil {
		panic("entitlement: connection pool is required")
	}
	return &PGStore{pool: pool}
}

func (s *PGStore) GetOrganization(ctx context.Context, orgID uuid.UUID) (*Organization, error) {
	var org Organization
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM organizations WHERE id = $1`,
		orgID,
	).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (s *PGStore) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var profile Profile
	err := s.pool.QueryRow(ctx,
		`SELECT id, org_id, email, role, created_at FROM profiles WHERE id = $1`,
		userID,
	).Scan(&profile.ID, &profile.OrgID, &profile.Email, &profile.Role, &profile.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (s *PGStore) GetCurrentSubscription(ctx context.Context, orgID uuid.UUID) (*Subscription, error) {
	var sub Subscription
	err := s.pool.QueryRow(ctx,
		`SELECT id, org_id, status, version, period_start, period_end, created_at, canceled_at
		 FROM subscriptions
		 WHERE org_id = $1
		 ORDER BY version DESC
		 LIMIT 1`,
		orgID,
	).Scan(&sub.ID, &sub.OrgID, &sub.Status, &sub.Version, &sub.PeriodStart, &sub.PeriodEnd, &sub.CreatedAt, &sub.CanceledAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *PGStore) ListGrants(ctx context.Context, subscriptionID uuid.UUID) ([]Grant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT subscription_id, feature_key, enabled, created_at
		 FROM subscription_features
		 WHERE subscription_id = $1`,
		subscriptionID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Grant, error) {
		var g Grant
		err := row.Scan(&g.SubscriptionID, &g.Key, &g.Enabled, &g.CreatedAt)
		return g, err
	})
}

func (s *PGStore) ListOverrides(ctx context.Context, userID uuid.UUID) ([]Override, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, feature_key, value, updated_at
		 FROM user_feature_overrides
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Override, error) {
		var o Override
		err := row.Scan(&o.UserID, &o.Key, &o.Value, &o.UpdatedAt)
		return o, err
	})
}

func (s *PGStore) GetVersions(ctx context.Context, orgID, userID uuid.UUID) (Versions, error) {
	var v Versions
	err := s.pool.QueryRow(ctx,
		`SELECT
		   COALESCE((SELECT MAX(version) FROM subscriptions WHERE org_id = $1), 0),
		   COALESCE((SELECT override_version FROM profiles WHERE id = $2), 0)`,
		orgID, userID,
	).Scan(&v.Subscription, &v.Override)
	if err != nil {
		return Versions{}, err
	}
	return v, nil
}

func (s *PGStore) ChangeSubscription(ctx context.Context, orgID uuid.UUID, status SubscriptionStatus, grants map[FeatureKey]bool) (*Subscription, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	now := time.Now().UTC()
	sub := Subscription{
		ID:          uuid.New(),
		OrgID:       orgID,
		Status:      status,
		PeriodStart: now,
		PeriodEnd:   now.AddDate(0, 1, 0),
		CreatedAt:   now,
	}
	if status == StatusCanceled {
		sub.CanceledAt = &now
	}

	// New rows only: history is never mutated, and the MAX(version)+1 read
	// is safe under the serializable transaction.
	err = tx.QueryRow(ctx,
		`INSERT INTO subscriptions (id, org_id, status, version, period_start, period_end, created_at, canceled_at)
		 VALUES ($1, $2, $3,
		   COALESCE((SELECT MAX(version) FROM subscriptions WHERE org_id = $2), 0) + 1,
		   $4, $5, $6, $7)
		 RETURNING version`,
		sub.ID, orgID, status, sub.PeriodStart, sub.PeriodEnd, sub.CreatedAt, sub.CanceledAt,
	).Scan(&sub.Version)
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}

	for key, enabled := range grants {
		if _, err := tx.Exec(ctx,
			`INSERT INTO subscription_features (subscription_id, feature_key, enabled, created_at)
			 VALUES ($1, $2, $3, $4)`,
			sub.ID, key, enabled, now,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *PGStore) SetOverride(ctx context.Context, userID uuid.UUID, key FeatureKey, value OverrideValue) error {
	if !value.Valid() || value == OverrideInherit {
		return ErrInvalidOverride
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	// Bump the override version in the same transaction as the row write so
	// the new cache key becomes visible exactly at commit.
	tag, err := tx.Exec(ctx,
		`UPDATE profiles SET override_version = override_version + 1 WHERE id = $1`,
		userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_feature_overrides (user_id, feature_key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, feature_key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		userID, key, value,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PGStore) DeleteOverride(ctx context.Context, userID uuid.UUID, key FeatureKey) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	tag, err := tx.Exec(ctx,
		`DELETE FROM user_feature_overrides WHERE user_id = $1 AND feature_key = $2`,
		userID, key,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Nothing to delete, nothing to invalidate.
		return tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE profiles SET override_version = override_version + 1 WHERE id = $1`,
		userID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

var (
	_ Store = (*PGStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
