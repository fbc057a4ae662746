package entitlement

import "errors"

var (
	// Resolution errors — all terminal for the call, never partially resolved.
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrTenantMismatch       = errors.New("user does not belong to organization")

	// ErrSubscriptionNotFound indicates the organization has no current subscription.
	// The resolver treats this as "catalog defaults only", not a failure.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// Write-path errors
	ErrInvalidOverride = errors.New("invalid override value")
	ErrUnknownFeature  = errors.New("feature key not in catalog")
	ErrInvalidStatus   = errors.New("invalid subscription status")

	// Catalog errors
	ErrEmptyCatalog        = errors.New("feature catalog is empty")
	ErrInvalidCatalog      = errors.New("invalid feature catalog")
	ErrFailedToLoadCatalog = errors.New("failed to load feature catalog")
)
