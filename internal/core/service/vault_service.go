package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Jan1986-cloud/aitrader/internal/api/metrics"
	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
	"github.com/Jan1986-cloud/aitrader/internal/pkg/crypto"
)

// vaultKeyInfo binds the vault's encryption subkey to this single purpose.
// Rotating the configured master key makes existing records undecryptable;
// retrieval then fails with crypto.ErrAuthentication (there is no key
// versioning — see DESIGN.md).
const vaultKeyInfo = "aitrader/api-credentials/v1"

// VaultService stores and retrieves third-party API credentials under
// AES-256-GCM. Plaintext lives only in memory for the duration of a call
// and is never logged.
type VaultService struct {
	creds  ports.CredentialRepository
	encKey []byte
	log    zerolog.Logger
}

// NewVaultService derives the vault's encryption subkey from the
// caller-supplied master key. The service holds no other key state.
func NewVaultService(creds ports.CredentialRepository, masterKey []byte, log zerolog.Logger) (*VaultService, error) {
	encKey, err := crypto.DeriveKey(masterKey, vaultKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("vault key derivation: %w", err)
	}
	return &VaultService{creds: creds, encKey: encKey, log: log}, nil
}

// Store encrypts the pair field by field and upserts the record for
// (tenant, provider), overwriting any previous ciphertexts.
func (s *VaultService) Store(ctx context.Context, tenantID, provider string, plain ports.PlaintextCredential) error {
	encryptedKey, err := crypto.Encrypt([]byte(plain.APIKey), s.encKey)
	if err != nil {
		return fmt.Errorf("encrypt api key: %w", err)
	}
	encryptedSecret, err := crypto.Encrypt([]byte(plain.APISecret), s.encKey)
	if err != nil {
		return fmt.Errorf("encrypt api secret: %w", err)
	}

	cred := &domain.Credential{
		ID:              uuid.NewString(),
		TenantID:        tenantID,
		Provider:        provider,
		EncryptedKey:    encryptedKey,
		EncryptedSecret: encryptedSecret,
		Sandbox:         plain.Sandbox,
		LastUsed:        time.Now().UTC(),
	}
	if err := s.creds.Upsert(ctx, cred); err != nil {
		metrics.CredentialOpsTotal.WithLabelValues("store", "error").Inc()
		return fmt.Errorf("store credential: %w", err)
	}
	metrics.CredentialOpsTotal.WithLabelValues("store", "ok").Inc()

	s.log.Info().
		Str("tenant_id", tenantID).
		Str("provider", provider).
		Bool("sandbox", plain.Sandbox).
		Msg("credentials stored")
	return nil
}

// Retrieve loads and decrypts the pair. domain.ErrCredentialNotFound when
// no record exists; crypto.ErrAuthentication propagates unchanged when a
// ciphertext fails to authenticate (master key rotated, corruption).
func (s *VaultService) Retrieve(ctx context.Context, tenantID, provider string) (*ports.PlaintextCredential, error) {
	cred, err := s.creds.Get(ctx, tenantID, provider)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			metrics.CredentialOpsTotal.WithLabelValues("retrieve", "not_found").Inc()
		} else {
			metrics.CredentialOpsTotal.WithLabelValues("retrieve", "error").Inc()
		}
		return nil, err
	}

	apiKey, err := crypto.Decrypt(cred.EncryptedKey, s.encKey)
	if err != nil {
		metrics.CredentialOpsTotal.WithLabelValues("retrieve", "auth_failed").Inc()
		return nil, err
	}
	apiSecret, err := crypto.Decrypt(cred.EncryptedSecret, s.encKey)
	if err != nil {
		metrics.CredentialOpsTotal.WithLabelValues("retrieve", "auth_failed").Inc()
		return nil, err
	}

	// Best effort: a failed timestamp refresh must not block a successful
	// retrieval.
	if err := s.creds.Touch(ctx, tenantID, provider, time.Now().UTC()); err != nil {
		s.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("credential last-used refresh failed")
	}

	metrics.CredentialOpsTotal.WithLabelValues("retrieve", "ok").Inc()
	return &ports.PlaintextCredential{
		APIKey:    string(apiKey),
		APISecret: string(apiSecret),
		Sandbox:   cred.Sandbox,
	}, nil
}

// Describe returns record metadata without decrypting anything.
func (s *VaultService) Describe(ctx context.Context, tenantID, provider string) (*domain.Credential, error) {
	return s.creds.Get(ctx, tenantID, provider)
}
