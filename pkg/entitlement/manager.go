package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiftops/authcore/pkg/gate"
)

// Manager is the administrative write path for entitlement rows. Every write
// goes through the store inside a transaction that also bumps the relevant
// version counter, so readers can never observe a committed change through a
// stale cache entry.
type Manager struct {
	store   Store
	catalog map[FeatureKey]Feature
}

// NewManager creates a Manager validating writes against the same catalog
// the resolver resolves from.
func NewManager(ctx context.Context, store Store, src CatalogSource) (*Manager, error) {
	if store == nil {
		panic("entitlement: Store is required")
	}
	if src == nil {
		panic("entitlement: CatalogSource is required")
	}

	catalog, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}
	return &Manager{store: store, catalog: catalog}, nil
}

// ChangeSubscription records an upgrade, downgrade, or cancellation for the
// organization. Grant keys are validated against the catalog; the store
// appends a new subscription version rather than mutating history.
func (m *Manager) ChangeSubscription(ctx context.Context, principal gate.Principal, orgID uuid.UUID, status SubscriptionStatus, grants map[FeatureKey]bool) (*Subscription, error) {
	if err := gate.CanManageEntitlements(principal, orgID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, errors.Join(ErrInvalidStatus, fmt.Errorf("status %q", status))
	}
	for key := range grants {
		if _, known := m.catalog[key]; !known {
			return nil, errors.Join(ErrUnknownFeature, fmt.Errorf("grant key %q", key))
		}
	}
	return m.store.ChangeSubscription(ctx, orgID, status, grants)
}

// SetOverride forces a feature on or off for one user. Setting
// OverrideInherit removes the row, falling the user back to the
// organization's subscription grants.
func (m *Manager) SetOverride(ctx context.Context, principal gate.Principal, userID uuid.UUID, key FeatureKey, value OverrideValue) error {
	profile, err := m.store.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := gate.CanManageEntitlements(principal, profile.OrgID); err != nil {
		return err
	}
	if !value.Valid() {
		return errors.Join(ErrInvalidOverride, fmt.Errorf("value %q", value))
	}
	if _, known := m.catalog[key]; !known {
		return errors.Join(ErrUnknownFeature, fmt.Errorf("override key %q", key))
	}

	if value == OverrideInherit {
		return m.store.DeleteOverride(ctx, userID, key)
	}
	return m.store.SetOverride(ctx, userID, key, value)
}

// ClearOverride removes a user's override for the feature, equivalent to
// setting OverrideInherit.
func (m *Manager) ClearOverride(ctx context.Context, principal gate.Principal, userID uuid.UUID, key FeatureKey) error {
	return m.SetOverride(ctx, principal, userID, key, OverrideInherit)
}
