package entitlement

import (
	"context"

	"github.com/google/uuid"
)

// Versions are the cache-key counters for one (organization, user) pair.
// Subscription holds the current subscription version for the organization
// (zero when none exists); Override holds the user's override write counter.
// Both are bumped inside the transaction that performs the corresponding
// write, so a committed change is never readable under the old version.
type Versions struct {
	Subscription int64
	Override     int64
}

// Store is the transactional read/write contract over the entitlement rows.
// Implementations must provide snapshot-consistent reads for the resolver's
// multi-row merge, and must bump the relevant version counter in the same
// transaction as every entitlement write.
type Store interface {
	// GetOrganization retrieves an organization by id.
	// Returns ErrOrganizationNotFound if it does not exist.
	GetOrganization(ctx context.Context, orgID uuid.UUID) (*Organization, error)

	// GetProfile retrieves a user profile by id.
	// Returns ErrUserNotFound if it does not exist.
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// GetCurrentSubscription retrieves the organization's current subscription
	// version. Returns ErrSubscriptionNotFound when the organization has never
	// subscribed.
	GetCurrentSubscription(ctx context.Context, orgID uuid.UUID) (*Subscription, error)

	// ListGrants returns the feature grant rows for one subscription version.
	ListGrants(ctx context.Context, subscriptionID uuid.UUID) ([]Grant, error)

	// ListOverrides returns the user's override rows. Inherit rows may be
	// omitted by implementations since they are equivalent to absence.
	ListOverrides(ctx context.Context, userID uuid.UUID) ([]Override, error)

	// GetVersions returns the current cache-key versions for the pair.
	GetVersions(ctx context.Context, orgID, userID uuid.UUID) (Versions, error)

	// ChangeSubscription records a subscription change by inserting a new
	// subscription version with the given grants in a single transaction.
	// Existing rows are never mutated. Returns the inserted subscription.
	ChangeSubscription(ctx context.Context, orgID uuid.UUID, status SubscriptionStatus, grants map[FeatureKey]bool) (*Subscription, error)

	// SetOverride upserts a user's override row and bumps the user's override
	// version in the same transaction. Only force rows are stored:
	// OverrideInherit is rejected with ErrInvalidOverride, callers translate
	// inherit into DeleteOverride (see Manager.SetOverride).
	SetOverride(ctx context.Context, userID uuid.UUID, key FeatureKey, value OverrideValue) error

	// DeleteOverride removes a user's override row (falling back to inherit)
	// and bumps the user's override version in the same transaction.
	// Deleting an absent row is a no-op, not an error.
	DeleteOverride(ctx context.Context, userID uuid.UUID, key FeatureKey) error
}
