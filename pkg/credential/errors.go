package credential

import "errors"

var (
	// ErrCredentialNotFound is returned when no credential exists for the
	// organization/integration pair.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrIntegrationRequired is returned when the integration id is empty.
	ErrIntegrationRequired = errors.New("integration id is required")

	// ErrEmptySecret is returned when storing a zero-length secret.
	ErrEmptySecret = errors.New("secret payload is empty")
)
