package entitlement

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// FeatureKey names a purchasable capability, e.g. "time_tracking" or "guard_patrols".
type FeatureKey string

// Feature is an immutable catalog entry describing one capability.
type Feature struct {
	Key            FeatureKey `yaml:"key"`
	Label          string     `yaml:"label"`
	DefaultEnabled bool       `yaml:"default_enabled"`
	CreatedAt      time.Time  `yaml:"-"`
}

// FeatureSet is the effective entitlement map for one (user, organization)
// pair: every catalog feature mapped to whether the user may use it.
type FeatureSet map[FeatureKey]bool

// Enabled reports whether the feature is usable. Keys absent from the set
// resolve to disabled.
func (s FeatureSet) Enabled(key FeatureKey) bool {
	return s[key]
}

// Clone returns an independent copy so cached sets are never aliased by callers.
func (s FeatureSet) Clone() FeatureSet {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// OverrideValue is the tri-state value of a per-user feature override.
// Inherit rows are equivalent to absence and may be omitted from storage.
type OverrideValue string

const (
	OverrideForceEnabled  OverrideValue = "force_enabled"
	OverrideForceDisabled OverrideValue = "force_disabled"
	OverrideInherit       OverrideValue = "inherit"
)

// Valid reports whether the value is one of the known override states.
func (v OverrideValue) Valid() bool {
	switch v {
	case OverrideForceEnabled, OverrideForceDisabled, OverrideInherit:
		return true
	}
	return false
}

// Override is a per-user feature override row. A non-inherit override always
// takes precedence over the organization's subscription grants.
type Override struct {
	UserID    uuid.UUID
	Key       FeatureKey
	Value     OverrideValue
	UpdatedAt time.Time
}
