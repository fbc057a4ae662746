// Package credential stores third-party secrets (mailbox passwords, API
// keys) on behalf of tenants, sealed by the vault before they ever reach
// storage.
//
// The Service is the only write and read path: it gate-checks the caller's
// principal, seals plaintext under the owning organization/integration
// context, and persists only the sealed form. Rotation re-seals under the
// keyring's current key with an atomic row replace.
//
// Store implementations: MemoryStore for tests, PGStore for PostgreSQL.
package credential
