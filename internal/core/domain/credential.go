package domain

import (
	"errors"
	"time"
)

// ProviderCoinbase is the only exchange currently wired up.
const ProviderCoinbase = "coinbase"

var ErrCredentialNotFound = errors.New("no API credentials configured")

// Credential is an encrypted third-party API credential pair owned by a
// tenant. EncryptedKey and EncryptedSecret are opaque authenticated
// ciphertext blobs — the store never sees plaintext. One record exists per
// (tenant, provider); a new submission fully overwrites the previous one.
type Credential struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenant_id"`
	Provider        string    `json:"provider"`
	EncryptedKey    []byte    `json:"-"`
	EncryptedSecret []byte    `json:"-"`
	Sandbox         bool      `json:"is_sandbox"`
	LastUsed        time.Time `json:"last_used"`
}
