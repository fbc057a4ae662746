// Package gate enforces tenant-boundary and role checks at the entry points
// of the entitlement resolver and the credential vault.
//
// Every call into the core carries a Principal — a pre-verified
// (user, organization, role) triple supplied by the authentication
// boundary. The gate never inspects raw session tokens; it only decides
// whether the already-identified caller may perform the requested
// operation. Checks are enforced here at the component boundary rather
// than delegated to storage-layer row policies, so the core stays correct
// even when those policies are absent.
//
// Role permissions are precomputed into an immutable map, making every
// check a lock-free slice lookup that is safe under concurrent use.
//
// # Usage
//
//	p := gate.Principal{UserID: userID, OrgID: orgID, Role: gate.RoleMember}
//	if err := gate.CanResolve(p, targetUserID, targetOrgID); err != nil {
//	    // reject: cross-org access or insufficient role
//	}
//
// Use errors.Is with ErrCrossOrgAccess and ErrPermissionDenied to
// distinguish the rejection reasons internally; external responses should
// collapse both into a generic denial.
package gate
