package gate

import (
	"slices"

	"github.com/google/uuid"
)

// Role is the position a user holds inside their organization.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// Permission identifies a capability a role may exercise inside its own organization.
type Permission string

const (
	PermEntitlementsRead    Permission = "entitlements.read"     // resolve own entitlements
	PermEntitlementsReadAny Permission = "entitlements.read_any" // resolve any user in the org
	PermEntitlementsWrite   Permission = "entitlements.write"    // manage overrides and grants
	PermCredentialsRead     Permission = "credentials.read"
	PermCredentialsWrite    Permission = "credentials.write"
)

// rolePermissions is precomputed at package init and treated as immutable,
// so permission checks never take a lock.
var rolePermissions = map[Role][]Permission{
	RoleMember: {
		PermEntitlementsRead,
	},
	RoleManager: {
		PermEntitlementsRead,
		PermEntitlementsReadAny,
	},
	RoleAdmin: {
		PermEntitlementsRead,
		PermEntitlementsReadAny,
		PermEntitlementsWrite,
		PermCredentialsRead,
		PermCredentialsWrite,
	},
}

// Principal is a pre-verified caller identity supplied by the external
// authentication boundary. The gate never parses or validates raw tokens.
type Principal struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   Role
}

// Can returns ErrPermissionDenied unless the principal's role grants the permission.
// Unknown roles carry no permissions.
func Can(p Principal, perm Permission) error {
	perms, ok := rolePermissions[p.Role]
	if !ok {
		return ErrPermissionDenied
	}
	if !slices.Contains(perms, perm) {
		return ErrPermissionDenied
	}
	return nil
}

// SameOrg returns ErrCrossOrgAccess unless the principal belongs to orgID.
// Every entry point into the core runs this check regardless of role:
// no principal may act across organizations.
func SameOrg(p Principal, orgID uuid.UUID) error {
	if p.OrgID != orgID {
		return ErrCrossOrgAccess
	}
	return nil
}

// CanResolve authorizes an entitlement resolution request for (userID, orgID).
// Members may only resolve their own entitlements; managers and admins may
// resolve any user inside their own organization.
func CanResolve(p Principal, userID, orgID uuid.UUID) error {
	if err := SameOrg(p, orgID); err != nil {
		return err
	}
	if p.UserID == userID {
		return Can(p, PermEntitlementsRead)
	}
	return Can(p, PermEntitlementsReadAny)
}

// CanManageCredentials authorizes credential reads and writes for orgID.
func CanManageCredentials(p Principal, orgID uuid.UUID, write bool) error {
	if err := SameOrg(p, orgID); err != nil {
		return err
	}
	if write {
		return Can(p, PermCredentialsWrite)
	}
	return Can(p, PermCredentialsRead)
}

// CanManageEntitlements authorizes override and grant writes for orgID.
func CanManageEntitlements(p Principal, orgID uuid.UUID) error {
	if err := SameOrg(p, orgID); err != nil {
		return err
	}
	return Can(p, PermEntitlementsWrite)
}

// Permissions returns a copy of the permission set for the role.
func Permissions(r Role) []Permission {
	return slices.Clone(rolePermissions[r])
}
