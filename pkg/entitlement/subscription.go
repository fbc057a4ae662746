package entitlement

import (
	"time"

	"github.com/google/uuid"

	"github.com/shiftops/authcore/pkg/gate"
)

// SubscriptionStatus represents the current state of a subscription.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusTrialing SubscriptionStatus = "trialing"
)

// Valid reports whether the status is one of the known subscription states.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPastDue, StatusCanceled, StatusTrialing:
		return true
	}
	return false
}

// Subscription is one version of an organization's subscription. Changes
// insert a new row with a higher version instead of mutating in place, so
// the full history stays auditable. Exactly one version is current per
// organization at any time.
type Subscription struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	Status      SubscriptionStatus
	Version     int64 // monotonically increasing per organization
	PeriodStart time.Time
	PeriodEnd   time.Time
	CreatedAt   time.Time
	CanceledAt  *time.Time
}

// Grants reports whether this subscription entitles the organization to its
// purchased features. Past-due subscriptions grant only when the caller opts
// into a grace window.
func (s *Subscription) Grants(pastDueGrace bool) bool {
	switch s.Status {
	case StatusActive, StatusTrialing:
		return true
	case StatusPastDue:
		return pastDueGrace
	}
	return false
}

// Grant is an organization-level feature entitlement row attached to one
// subscription version.
type Grant struct {
	SubscriptionID uuid.UUID
	Key            FeatureKey
	Enabled        bool
	CreatedAt      time.Time
}

// Organization is the unit of data isolation.
type Organization struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Profile is a user account. Every profile belongs to exactly one
// organization.
type Profile struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	Email     string
	Role      gate.Role
	CreatedAt time.Time
}
