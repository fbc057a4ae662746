package vault

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required size for every keyring entry
	KeySize = 32 // 256 bits for AES-256

	// derivationInfo is used for HKDF key derivation to provide domain separation
	derivationInfo = "authcore-vault-v1"
)

// Config holds keyring settings loaded from the secret-management boundary.
// Keys is a comma-separated list of id:base64key pairs; CurrentKeyID selects
// the key used for new encryptions.
type Config struct {
	Keys         string `env:"VAULT_KEYS,required"`          // e.g. "k1:base64...,k2:base64..."
	CurrentKeyID string `env:"VAULT_CURRENT_KEY_ID,required"` // id of the key used for new encryptions
}

// Keyring holds the server-side symmetric keys by id. New encryptions use the
// current key; decryption selects a key by the id carried in the sealed
// credential, so old ciphertexts stay readable across rotations.
//
// The keyring is read-mostly: rotation takes the write lock briefly, every
// seal/open takes the read lock.
type Keyring struct {
	mu      sync.RWMutex
	keys    map[string][]byte
	current string
}

// NewKeyring creates a keyring with a single key that becomes current.
func NewKeyring(id string, key []byte) (*Keyring, error) {
	kr := &Keyring{keys: make(map[string][]byte)}
	if err := kr.Add(id, key); err != nil {
		return nil, err
	}
	if err := kr.Promote(id); err != nil {
		return nil, err
	}
	return kr, nil
}

// NewKeyringFromConfig parses the Keys config string into a keyring.
// Key material arrives base64-encoded from the environment and is never
// written back out by this package.
func NewKeyringFromConfig(cfg Config) (*Keyring, error) {
	kr := &Keyring{keys: make(map[string][]byte)}

	for pair := range strings.SplitSeq(cfg.Keys, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, encoded, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, errors.Join(ErrKeyringConfig, fmt.Errorf("malformed key entry %q", maskKeyEntry(pair)))
		}
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, errors.Join(ErrKeyringConfig, fmt.Errorf("key %q is not valid base64", id))
		}
		if err := kr.Add(id, key); err != nil {
			return nil, err
		}
	}

	if len(kr.keys) == 0 {
		return nil, errors.Join(ErrKeyringConfig, ErrEmptyKeyring)
	}
	if err := kr.Promote(cfg.CurrentKeyID); err != nil {
		return nil, errors.Join(ErrKeyringConfig, err)
	}
	return kr, nil
}

// Add registers a key under the given id without changing the current key.
// Used during rotation to make a new key available for decryption before
// it is promoted for new encryptions.
func (kr *Keyring) Add(id string, key []byte) error {
	if id == "" || strings.ContainsAny(id, ",:") {
		return ErrInvalidKeyID
	}
	if len(key) != KeySize {
		return ErrInvalidKey
	}

	kr.mu.Lock()
	defer kr.mu.Unlock()

	if _, exists := kr.keys[id]; exists {
		return ErrDuplicateKeyID
	}
	keyCopy := make([]byte, KeySize)
	copy(keyCopy, key)
	kr.keys[id] = keyCopy
	return nil
}

// Promote makes the key with the given id the current key for new encryptions.
func (kr *Keyring) Promote(id string) error {
	kr.mu.Lock()
	defer kr.mu.Unlock()

	if _, exists := kr.keys[id]; !exists {
		return ErrKeyNotFound
	}
	kr.current = id
	return nil
}

// CurrentID returns the id of the key used for new encryptions.
func (kr *Keyring) CurrentID() (string, error) {
	kr.mu.RLock()
	defer kr.mu.RUnlock()

	if kr.current == "" {
		return "", ErrNoCurrentKey
	}
	return kr.current, nil
}

// key returns the raw key for the given id, or the current key when id is empty.
// Callers must treat the returned slice as read-only.
func (kr *Keyring) key(id string) (string, []byte, error) {
	kr.mu.RLock()
	defer kr.mu.RUnlock()

	if id == "" {
		id = kr.current
		if id == "" {
			return "", nil, ErrNoCurrentKey
		}
	}
	key, exists := kr.keys[id]
	if !exists {
		return "", nil, ErrKeyNotFound
	}
	return id, key, nil
}

// deriveKey expands a keyring entry into the actual encryption key using
// HKDF-SHA-256. The caller should clear the returned key after use.
func deriveKey(master []byte) ([]byte, error) {
	hkdfReader := hkdf.New(sha256.New, master, nil, []byte(derivationInfo))

	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdfReader, derived); err != nil {
		return nil, errors.Join(ErrKeyDerivation, err)
	}
	return derived, nil
}

// clearBytes zeros out a byte slice to shorten the window derived key
// material stays in memory.
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateKey creates a new random 32-byte key suitable for a keyring entry.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// maskKeyEntry hides everything after the id separator so config errors
// never echo key material into logs.
func maskKeyEntry(pair string) string {
	if id, _, ok := strings.Cut(pair, ":"); ok {
		return id + ":***"
	}
	return "***"
}
