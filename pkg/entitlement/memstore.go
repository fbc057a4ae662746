package entitlement

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It's useful for testing and local development; the mutex gives it the
// same snapshot semantics per call the contract requires of SQL backends.
type MemoryStore struct {
	mu               sync.RWMutex
	orgs             map[uuid.UUID]Organization
	profiles         map[uuid.UUID]Profile
	subs             map[uuid.UUID][]Subscription // per-org append-only history
	grants           map[uuid.UUID][]Grant        // keyed by subscription id
	overrides        map[uuid.UUID]map[FeatureKey]Override
	overrideVersions map[uuid.UUID]int64
}

// NewMemoryStore creates an empty in-memory entitlement store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orgs:             make(map[uuid.UUID]Organization),
		profiles:         make(map[uuid.UUID]Profile),
		subs:             make(map[uuid.UUID][]Subscription),
		grants:           make(map[uuid.UUID][]Grant),
		overrides:        make(map[uuid.UUID]map[FeatureKey]Override),
		overrideVersions: make(map[uuid.UUID]int64),
	}
}

// AddOrganization seeds an organization row.
func (s *MemoryStore) AddOrganization(org Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}
	s.orgs[org.ID] = org
}

// AddProfile seeds a user profile row.
func (s *MemoryStore) AddProfile(profile Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	s.profiles[profile.ID] = profile
}

func (s *MemoryStore) GetOrganization(ctx context.Context, orgID uuid.UUID) (*Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.orgs[orgID]
	if !exists {
		return nil, ErrOrganizationNotFound
	}
	return &org, nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, exists := s.profiles[userID]
	if !exists {
		return nil, ErrUserNotFound
	}
	return &profile, nil
}

func (s *MemoryStore) GetCurrentSubscription(ctx context.Context, orgID uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.subs[orgID]
	if len(history) == 0 {
		return nil, ErrSubscriptionNotFound
	}
	current := history[len(history)-1]
	return &current, nil
}

func (s *MemoryStore) ListGrants(ctx context.Context, subscriptionID uuid.UUID) ([]Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grants := s.grants[subscriptionID]
	out := make([]Grant, len(grants))
	copy(out, grants)
	return out, nil
}

func (s *MemoryStore) ListOverrides(ctx context.Context, userID uuid.UUID) ([]Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.overrides[userID]
	out := make([]Override, 0, len(rows))
	for _, o := range rows {
		out = append(out, o)
	}
	return out, nil
}

func (s *MemoryStore) GetVersions(ctx context.Context, orgID, userID uuid.UUID) (Versions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var v Versions
	if history := s.subs[orgID]; len(history) > 0 {
		v.Subscription = history[len(history)-1].Version
	}
	v.Override = s.overrideVersions[userID]
	return v, nil
}

func (s *MemoryStore) ChangeSubscription(ctx context.Context, orgID uuid.UUID, status SubscriptionStatus, grants map[FeatureKey]bool) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orgs[orgID]; !exists {
		return nil, ErrOrganizationNotFound
	}

	now := time.Now().UTC()
	var version int64 = 1
	if history := s.subs[orgID]; len(history) > 0 {
		version = history[len(history)-1].Version + 1
	}

	sub := Subscription{
		ID:          uuid.New(),
		OrgID:       orgID,
		Status:      status,
		Version:     version,
		PeriodStart: now,
		PeriodEnd:   now.AddDate(0, 1, 0),
		CreatedAt:   now,
	}
	if status == StatusCanceled {
		sub.CanceledAt = &now
	}

	rows := make([]Grant, 0, len(grants))
	for key, enabled := range grants {
		rows = append(rows, Grant{
			SubscriptionID: sub.ID,
			Key:            key,
			Enabled:        enabled,
			CreatedAt:      now,
		})
	}

	// Version bump and row insert land together, mirroring the single
	// transaction a SQL store uses.
	s.subs[orgID] = append(s.subs[orgID], sub)
	s.grants[sub.ID] = rows

	return &sub, nil
}

func (s *MemoryStore) SetOverride(ctx context.Context, userID uuid.UUID, key FeatureKey, value OverrideValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[userID]; !exists {
		return ErrUserNotFound
	}
	if !value.Valid() || value == OverrideInherit {
		return ErrInvalidOverride
	}

	if s.overrides[userID] == nil {
		s.overrides[userID] = make(map[FeatureKey]Override)
	}
	s.overrides[userID][key] = Override{
		UserID:    userID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	s.overrideVersions[userID]++
	return nil
}

func (s *MemoryStore) DeleteOverride(ctx context.Context, userID uuid.UUID, key FeatureKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[userID]; !exists {
		return ErrUserNotFound
	}
	if _, exists := s.overrides[userID][key]; !exists {
		return nil
	}
	delete(s.overrides[userID], key)
	s.overrideVersions[userID]++
	return nil
}
