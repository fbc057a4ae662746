package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shiftops/authcore/pkg/gate"
)

// Resolver computes the effective feature set for a (user, organization)
// pair. Resolution is read-only and deterministic: given the same underlying
// rows it always returns the same map, which is what makes the version-keyed
// cache sound.
type Resolver struct {
	store        Store
	catalog      map[FeatureKey]Feature
	cache        Cache
	cacheTTL     time.Duration
	pastDueGrace bool
	log          *slog.Logger
}

// ResolverOption configures a Resolver instance.
type ResolverOption func(*Resolver)

// WithCache sets the entitlement cache. Defaults to an in-process LRU cache.
func WithCache(c Cache) ResolverOption {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithCacheTTL bounds how long a cached feature set may be served. The
// version-keyed cache already prevents stale-positive reads after a write;
// the TTL only bounds memory growth and stale-negative staleness.
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if ttl > 0 {
			r.cacheTTL = ttl
		}
	}
}

// WithPastDueGrace keeps features granted while a subscription is past_due,
// giving tenants a payment grace window instead of an immediate cutoff.
func WithPastDueGrace() ResolverOption {
	return func(r *Resolver) {
		r.pastDueGrace = true
	}
}

// WithLogger sets the logger used for unknown-feature warnings.
func WithLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a Resolver with the given store and feature catalog.
// Panics if store or catalog source is nil to fail fast during initialization.
func NewResolver(ctx context.Context, store Store, src CatalogSource, opts ...ResolverOption) (*Resolver, error) {
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
	if len(catalog) == 0 {
		return nil, errors.Join(ErrInvalidCatalog, ErrEmptyCatalog)
	}

	r := &Resolver{
		store:    store,
		catalog:  catalog,
		cache:    NewMemoryCache(DefaultCacheSize),
		cacheTTL: 5 * time.Minute,
		log:      slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Resolve returns the effective feature set for (userID, orgID) on behalf of
// the given principal. Members may only resolve their own entitlements;
// managers and admins may resolve any user in their own organization.
//
// The merge is: subscription grants (or catalog defaults when no subscription
// grants) overwritten by the user's non-inherit overrides. Each key is
// written at most once per pass, so override application order is irrelevant.
func (r *Resolver) Resolve(ctx context.Context, principal gate.Principal, userID, orgID uuid.UUID) (FeatureSet, error) {
	if err := gate.CanResolve(principal, userID, orgID); err != nil {
		return nil, err
	}

	profile, err := r.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := r.store.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}
	if profile.OrgID != orgID {
		return nil, ErrTenantMismatch
	}

	// Versions are read before the row loads below. A write that commits in
	// between bumps the counter, so the set computed here lands under a key
	// no post-commit reader will ask for — stale-positive entries are
	// structurally unreachable.
	versions, err := r.store.GetVersions(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	key := CacheKey{
		OrgID:               orgID,
		SubscriptionVersion: versions.Subscription,
		UserID:              userID,
		OverrideVersion:     versions.Override,
	}
	if set, ok := r.cache.Get(ctx, key); ok {
		return set, nil
	}

	set, err := r.merge(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, set, r.cacheTTL)
	return set.Clone(), nil
}

// merge computes the feature set from the underlying rows without touching
// the cache.
func (r *Resolver) merge(ctx context.Context, userID, orgID uuid.UUID) (FeatureSet, error) {
	set := make(FeatureSet, len(r.catalog))

	sub, err := r.store.GetCurrentSubscription(ctx, orgID)
	switch {
	case errors.Is(err, ErrSubscriptionNotFound):
		sub = nil
	case err != nil:
		return nil, err
	}

	if sub == nil || !sub.Grants(r.pastDueGrace) {
		// No granting subscription: everything disabled except catalog defaults.
		for key, feature := range r.catalog {
			set[key] = feature.DefaultEnabled
		}
	} else {
		for key := range r.catalog {
			set[key] = false
		}
		grants, err := r.store.ListGrants(ctx, sub.ID)
		if err != nil {
			return nil, err
		}
		for _, grant := range grants {
			if _, known := r.catalog[grant.Key]; !known {
				r.log.WarnContext(ctx, "unknown feature key in subscription grant",
					slog.String("feature_key", string(grant.Key)),
					slog.String("org_id", orgID.String()))
				continue
			}
			set[grant.Key] = grant.Enabled
		}
	}

	overrides, err := r.store.ListOverrides(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		if _, known := r.catalog[o.Key]; !known {
			r.log.WarnContext(ctx, "unknown feature key in user override",
				slog.String("feature_key", string(o.Key)),
				slog.String("user_id", userID.String()))
			continue
		}
		switch o.Value {
		case OverrideForceEnabled:
			set[o.Key] = true
		case OverrideForceDisabled:
			set[o.Key] = false
		case OverrideInherit:
			// equivalent to absence
		}
	}

	return set, nil
}

// HasFeature resolves the pair and reports a single feature. Returns false
// on any error to fail closed for security-sensitive call sites.
func (r *Resolver) HasFeature(ctx context.Context, principal gate.Principal, userID, orgID uuid.UUID, key FeatureKey) bool {
	set, err := r.Resolve(ctx, principal, userID, orgID)
	if err != nil {
		return false
	}
	return set.Enabled(key)
}

// Catalog returns a copy of the loaded feature catalog.
func (r *Resolver) Catalog() []Feature {
	features := make([]Feature, 0, len(r.catalog))
	for _, f := range r.catalog {
		features = append(features, f)
	}
	return features
}

// Close releases the resolver's cache resources.
func (r *Resolver) Close() error {
	return r.cache.Close()
}
