package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"errors"
	"io"
)

// Vault seals and opens secret payloads with AES-256-GCM. The owner context
// is bound in as additional authenticated data, so decryption under any other
// context fails the same way tampering does.
//
// Vault holds no mutable state beyond the keyring, so Encrypt and Decrypt are
// safe to run fully in parallel.
type Vault struct {
	keyring *Keyring
}

// New creates a Vault backed by the given keyring.
// Panics on a nil keyring to fail fast during initialization.
func New(keyring *Keyring) *Vault {
	if keyring == nil {
		panic("vault: keyring is required")
	}
	return &Vault{keyring: keyring}
}

// Encrypt seals plaintext under the keyring's current key, binding the owner
// context as authenticated data. A fresh random nonce is drawn from
// crypto/rand on every call; it is never derived from the input.
func (v *Vault) Encrypt(plaintext []byte, owner OwnerContext) (SealedCredential, error) {
	if err := owner.Validate(); err != nil {
		return SealedCredential{}, err
	}

	keyID, master, err := v.keyring.key("")
	if err != nil {
		return SealedCredential{}, errors.Join(ErrEncryptionFailed, err)
	}

	aead, err := newAEAD(master)
	if err != nil {
		return SealedCredential{}, errors.Join(ErrEncryptionFailed, err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return SealedCredential{}, errors.Join(ErrEncryptionFailed, err)
	}

	return SealedCredential{
		KeyID:      keyID,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, plaintext, owner.aad()),
		OwnerTag:   owner.tag(),
	}, nil
}

// Decrypt opens a sealed credential under the owner context it was sealed
// with. Tampering, a wrong key, and a wrong owner context all fail with
// ErrDecryptionFailed — the causes are indistinguishable to the caller so
// the vault cannot be used as a decryption oracle. An unknown key id is the
// one distinguishable case, surfaced as ErrKeyNotFound so operators can
// detect a ciphertext that outlived its key.
func (v *Vault) Decrypt(sealed SealedCredential, owner OwnerContext) ([]byte, error) {
	if err := sealed.Validate(); err != nil {
		return nil, err
	}
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	_, master, err := v.keyring.key(sealed.KeyID)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	aead, err := newAEAD(master)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	if len(sealed.Nonce) != aead.NonceSize() {
		return nil, ErrInvalidCiphertext
	}

	// The persisted owner tag is advisory; the GCM open below is the
	// authoritative context check. Comparing first avoids burning a
	// decryption attempt on an obviously swapped row.
	if !hmac.Equal(sealed.OwnerTag, owner.tag()) {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, sealed.Nonce, sealed.Ciphertext, owner.aad())
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptString is a convenience wrapper for text secrets such as mailbox
// passwords and API keys.
func (v *Vault) EncryptString(plaintext string, owner OwnerContext) (SealedCredential, error) {
	return v.Encrypt([]byte(plaintext), owner)
}

// DecryptString opens a sealed credential as a string.
func (v *Vault) DecryptString(sealed SealedCredential, owner OwnerContext) (string, error) {
	plaintext, err := v.Decrypt(sealed, owner)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// newAEAD derives the working key from a keyring entry and builds the GCM
// instance. The derived key is cleared before returning since the cipher
// keeps its own expanded schedule.
func newAEAD(master []byte) (cipher.AEAD, error) {
	key, err := deriveKey(master)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
