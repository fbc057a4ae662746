package vault

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// OwnerContext identifies who a sealed credential belongs to. It is bound
// into the ciphertext as authenticated data, so a credential moved between
// organizations or integrations can never decrypt successfully.
type OwnerContext struct {
	OrgID         uuid.UUID
	IntegrationID string
}

// Validate checks that the context identifies a concrete owner.
func (c OwnerContext) Validate() error {
	if c.OrgID == uuid.Nil {
		return ErrInvalidOwnerContext
	}
	return nil
}

// aad returns the canonical byte encoding used as additional authenticated
// data. The fixed layout (version prefix, org UUID bytes, integration id)
// guarantees identical contexts always produce identical bytes.
func (c OwnerContext) aad() []byte {
	buf := make([]byte, 0, len("authcore/owner/v1")+16+1+len(c.IntegrationID))
	buf = append(buf, "authcore/owner/v1"...)
	buf = append(buf, c.OrgID[:]...)
	buf = append(buf, 0x00)
	buf = append(buf, c.IntegrationID...)
	return buf
}

// tag returns a digest of the canonical owner bytes, persisted alongside the
// ciphertext for operational lookups. It carries no secret material.
func (c OwnerContext) tag() []byte {
	sum := sha256.Sum256(c.aad())
	return sum[:]
}

// SealedCredential is the at-rest form of an encrypted secret. All fields
// are required; a missing field on decode is a format error, never a default.
type SealedCredential struct {
	KeyID      string `json:"key_id"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
	OwnerTag   []byte `json:"owner_context_tag"`
}

// Validate checks that every required field is present.
func (s SealedCredential) Validate() error {
	switch {
	case s.KeyID == "":
		return errors.Join(ErrInvalidCiphertext, errors.New("missing key_id"))
	case len(s.Nonce) == 0:
		return errors.Join(ErrInvalidCiphertext, errors.New("missing nonce"))
	case len(s.Ciphertext) == 0:
		return errors.Join(ErrInvalidCiphertext, errors.New("missing ciphertext"))
	case len(s.OwnerTag) == 0:
		return errors.Join(ErrInvalidCiphertext, errors.New("missing owner_context_tag"))
	}
	return nil
}

// Encode serializes the sealed credential for storage.
func (s SealedCredential) Encode() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Join(ErrInvalidCiphertext, err)
	}
	return raw, nil
}

// DecodeSealed parses a stored sealed credential, rejecting payloads with
// absent or empty fields.
func DecodeSealed(raw []byte) (SealedCredential, error) {
	var s SealedCredential
	if err := json.Unmarshal(raw, &s); err != nil {
		return SealedCredential{}, errors.Join(ErrInvalidCiphertext, err)
	}
	if err := s.Validate(); err != nil {
		return SealedCredential{}, err
	}
	return s, nil
}

// String implements fmt.Stringer without exposing ciphertext contents.
func (s SealedCredential) String() string {
	return fmt.Sprintf("sealed{key_id=%s, nonce=%dB, ciphertext=%dB}", s.KeyID, len(s.Nonce), len(s.Ciphertext))
}
