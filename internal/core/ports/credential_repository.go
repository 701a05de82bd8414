package ports

import (
	"context"
	"time"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

// CredentialRepository persists encrypted credential records. It only ever
// sees opaque ciphertext blobs.
type CredentialRepository interface {
	// Upsert stores the record keyed by (tenant, provider), fully replacing
	// any previous ciphertexts for that pair. Last-writer-wins.
	Upsert(ctx context.Context, cred *domain.Credential) error
	Get(ctx context.Context, tenantID, provider string) (*domain.Credential, error)
	// Touch refreshes the record's last-used timestamp after the credentials
	// were successfully decrypted and handed out.
	Touch(ctx context.Context, tenantID, provider string, at time.Time) error
}
