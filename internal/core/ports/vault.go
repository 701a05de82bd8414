package ports

import (
	"context"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

// PlaintextCredential is a decrypted credential pair. It exists only in
// memory for the duration of a store or retrieve call and must never be
// logged or persisted.
type PlaintextCredential struct {
	APIKey    string
	APISecret string
	Sandbox   bool
}

// CredentialVault stores and retrieves third-party API credentials under
// authenticated encryption, one pair per (tenant, provider).
type CredentialVault interface {
	Store(ctx context.Context, tenantID, provider string, plain PlaintextCredential) error
	// Retrieve returns the decrypted pair. domain.ErrCredentialNotFound when
	// no record exists; crypto.ErrAuthentication when decryption fails.
	Retrieve(ctx context.Context, tenantID, provider string) (*PlaintextCredential, error)
	// Describe reports record metadata without touching ciphertext.
	Describe(ctx context.Context, tenantID, provider string) (*domain.Credential, error)
}
