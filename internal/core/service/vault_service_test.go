package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
	"github.com/Jan1986-cloud/aitrader/internal/pkg/crypto"
)

type stubCredentialRepo struct {
	records map[string]*domain.Credential
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{records: make(map[string]*domain.Credential)}
}

func credKey(tenantID, provider string) string { return tenantID + "/" + provider }

func (r *stubCredentialRepo) Upsert(_ context.Context, cred *domain.Credential) error {
	clone := *cred
	r.records[credKey(cred.TenantID, cred.Provider)] = &clone
	return nil
}

func (r *stubCredentialRepo) Get(_ context.Context, tenantID, provider string) (*domain.Credential, error) {
	cred, ok := r.records[credKey(tenantID, provider)]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	clone := *cred
	return &clone, nil
}

func (r *stubCredentialRepo) Touch(_ context.Context, tenantID, provider string, at time.Time) error {
	cred, ok := r.records[credKey(tenantID, provider)]
	if !ok {
		return domain.ErrCredentialNotFound
	}
	cred.LastUsed = at
	return nil
}

func vaultMasterKey(t *testing.T) []byte {
	t.Helper()
	key, err := crypto.ParseKey(strings.Repeat("0123456789abcdef", 4))
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	return key
}

func newTestVault(t *testing.T, repo ports.CredentialRepository, master []byte) *VaultService {
	t.Helper()
	vault, err := NewVaultService(repo, master, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewVaultService: %v", err)
	}
	return vault
}

func TestVaultService_StoreRetrieve_RoundTrip(t *testing.T) {
	repo := newStubCredentialRepo()
	vault := newTestVault(t, repo, vaultMasterKey(t))
	ctx := context.Background()

	in := ports.PlaintextCredential{APIKey: "AK1", APISecret: "SK1", Sandbox: true}
	if err := vault.Store(ctx, "t1", domain.ProviderCoinbase, in); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := vault.Retrieve(ctx, "t1", domain.ProviderCoinbase)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if got.APIKey != "AK1" || got.APISecret != "SK1" || !got.Sandbox {
		t.Fatalf("unexpected plaintext: %+v", got)
	}

	// Persisted bytes must be ciphertext, not plaintext.
	stored := repo.records[credKey("t1", domain.ProviderCoinbase)]
	if bytes.Contains(stored.EncryptedKey, []byte("AK1")) || bytes.Contains(stored.EncryptedSecret, []byte("SK1")) {
		t.Fatalf("plaintext leaked into the stored record")
	}
}

func TestVaultService_Store_FreshCiphertexts(t *testing.T) {
	repo := newStubCredentialRepo()
	vault := newTestVault(t, repo, vaultMasterKey(t))
	ctx := context.Background()

	in := ports.PlaintextCredential{APIKey: "AK1", APISecret: "SK1"}
	if err := vault.Store(ctx, "t1", domain.ProviderCoinbase, in); err != nil {
		t.Fatalf("Store: %v", err)
	}
	first := *repo.records[credKey("t1", domain.ProviderCoinbase)]

	if err := vault.Store(ctx, "t1", domain.ProviderCoinbase, in); err != nil {
		t.Fatalf("Store: %v", err)
	}
	second := *repo.records[credKey("t1", domain.ProviderCoinbase)]

	// Identical plaintext, but fresh nonces: blobs must differ.
	if bytes.Equal(first.EncryptedKey, second.EncryptedKey) {
		t.Fatalf("repeated store produced identical key ciphertexts")
	}
	if bytes.Equal(first.EncryptedSecret, second.EncryptedSecret) {
		t.Fatalf("repeated store produced identical secret ciphertexts")
	}
}

func TestVaultService_Retrieve_NotFound(t *testing.T) {
	vault := newTestVault(t, newStubCredentialRepo(), vaultMasterKey(t))

	_, err := vault.Retrieve(context.Background(), "ghost", domain.ProviderCoinbase)
	if !errors.Is(err, domain.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
}

func TestVaultService_Retrieve_RefreshesLastUsed(t *testing.T) {
	repo := newStubCredentialRepo()
	vault := newTestVault(t, repo, vaultMasterKey(t))
	ctx := context.Background()

	if err := vault.Store(ctx, "t1", domain.ProviderCoinbase, ports.PlaintextCredential{APIKey: "AK1", APISecret: "SK1"}); err != nil {
		t.Fatalf("Store: %v", err)
	}

	// Backdate the record, then retrieve: last-used must move forward.
	stale := time.Now().UTC().Add(-24 * time.Hour)
	repo.records[credKey("t1", domain.ProviderCoinbase)].LastUsed = stale

	if _, err := vault.Retrieve(ctx, "t1", domain.ProviderCoinbase); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	got := repo.records[credKey("t1", domain.ProviderCoinbase)].LastUsed
	if !got.After(stale) {
		t.Fatalf("last-used not refreshed: still %v", got)
	}
}

func TestVaultService_Retrieve_RotatedMasterKey(t *testing.T) {
	repo := newStubCredentialRepo()
	vault := newTestVault(t, repo, vaultMasterKey(t))
	ctx := context.Background()

	in := ports.PlaintextCredential{APIKey: "AK1", APISecret: "SK1"}
	if err := vault.Store(ctx, "t1", domain.ProviderCoinbase, in); err != nil {
		t.Fatalf("Store: %v", err)
	}

	rotated, err := crypto.ParseKey(strings.Repeat("fedcba9876543210", 4))
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	vaultAfterRotation := newTestVault(t, repo, rotated)

	// Old ciphertexts under a new master key: an explicit authentication
	// failure, never garbage plaintext.
	_, err = vaultAfterRotation.Retrieve(ctx, "t1", domain.ProviderCoinbase)
	if !errors.Is(err, crypto.ErrAuthentication) {
		t.Fatalf("expected crypto.ErrAuthentication, got %v", err)
	}
}
