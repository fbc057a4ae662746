// Package vault encrypts third-party credentials at rest so that a
// compromised storage layer only ever exposes ciphertext.
//
// Secrets are sealed with AES-256-GCM. The working key is expanded from a
// keyring entry with HKDF-SHA-256 for domain separation, and the owning
// organization/integration pair is bound into the ciphertext as additional
// authenticated data. A sealed credential moved between tenants therefore
// fails to decrypt, deterministically.
//
// # Key management
//
// Keys live in an in-process Keyring sourced from the secret-management
// boundary (base64-encoded in the environment). Each sealed credential
// records the id of the key that sealed it; decryption selects the key by
// id, so rotating the current key leaves old ciphertexts readable until a
// re-encryption sweep migrates them forward. The raw keys are never logged,
// returned, or persisted by this package.
//
// # Usage
//
//	kr, err := vault.NewKeyringFromConfig(cfg)
//	if err != nil {
//	    // handle error
//	}
//	v := vault.New(kr)
//
//	owner := vault.OwnerContext{OrgID: orgID, IntegrationID: "gmail"}
//	sealed, err := v.EncryptString("app-password-123", owner)
//	// store sealed.Encode() ...
//	plain, err := v.DecryptString(sealed, owner)
//
// # Error handling
//
// All functions return errors wrapping package sentinels; match with
// errors.Is. Tamper, wrong key, and wrong owner context are deliberately
// indistinguishable (ErrDecryptionFailed); none of them is retryable.
package vault
