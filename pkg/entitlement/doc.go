// Package entitlement decides which product features a user may use inside
// their organization.
//
// The effective feature set for a (user, organization) pair is a pure
// function of the organization's current subscription grants merged with the
// user's per-feature overrides. A non-inherit override always dominates the
// subscription grant; a feature absent from both resolves to disabled (or to
// its catalog default when the organization has no granting subscription).
//
// # Architecture
//
//   - Store — the transactional read/write contract over organizations,
//     profiles, subscription versions, grant rows, and override rows.
//     MemoryStore serves tests and local development; PGStore runs on
//     PostgreSQL via pgx.
//   - Resolver — the read-only merge. Results are cached under a key that
//     includes the subscription and override version counters, which every
//     write bumps transactionally: a committed downgrade changes the key, so
//     a stale grant can never be served afterwards. Stale-negative entries
//     simply age out with the cache TTL.
//   - Manager — the administrative write path, validating grant and override
//     keys against the feature catalog before they reach storage.
//
// Both Resolver and Manager require a gate.Principal and enforce tenant and
// role checks at the boundary; storage-layer row policies are treated as
// defense-in-depth, not the primary guarantee.
//
// # Usage
//
//	store := entitlement.NewMemoryStore()
//	catalog := entitlement.NewInMemCatalog(
//	    entitlement.Feature{Key: "time_tracking", Label: "Time tracking"},
//	    entitlement.Feature{Key: "guard_patrols", Label: "Guard patrols"},
//	)
//
//	resolver, err := entitlement.NewResolver(ctx, store, catalog,
//	    entitlement.WithCacheTTL(time.Minute),
//	)
//	if err != nil {
//	    // handle error
//	}
//
//	set, err := resolver.Resolve(ctx, principal, userID, orgID)
//	if set.Enabled("time_tracking") {
//	    // ...
//	}
//
// # Error handling
//
// Failure modes are package sentinels matched with errors.Is:
// ErrOrganizationNotFound, ErrUserNotFound, and ErrTenantMismatch terminate
// a resolution; gate errors surface unchanged. Unknown feature keys found in
// stored rows are logged as warnings and skipped, never silently resolved.
package entitlement
