package vault

import "errors"

var (
	// Key material errors
	ErrInvalidKey     = errors.New("invalid vault key: must be 32 bytes")
	ErrKeyNotFound    = errors.New("vault key id not found")
	ErrDuplicateKeyID = errors.New("vault key id already registered")
	ErrEmptyKeyring   = errors.New("vault keyring has no keys")
	ErrNoCurrentKey   = errors.New("vault keyring has no current key")
	ErrInvalidKeyID   = errors.New("invalid vault key id")
	ErrKeyringConfig  = errors.New("invalid vault keyring configuration")
	ErrKeyDerivation  = errors.New("vault key derivation failed")

	// Sealing errors
	ErrEncryptionFailed  = errors.New("encryption failed")
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")

	// Owner context errors
	ErrInvalidOwnerContext = errors.New("invalid owner context")
)
