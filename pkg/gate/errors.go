package gate

import "errors"

var (
	// ErrPermissionDenied is returned when the principal's role lacks the required permission.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrCrossOrgAccess is returned when a principal acts on an organization it does not belong to.
	ErrCrossOrgAccess = errors.New("cross-organization access denied")
)
