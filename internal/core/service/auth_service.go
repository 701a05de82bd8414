package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

// AuthService signs tenants in via an external identity provider. The
// tenant record is created on first login (trial tier, seven-day expiry)
// and its last-login timestamp refreshed on every one after.
type AuthService struct {
	idp     ports.IdentityProvider
	tenants ports.TenantRepository
	tokens  ports.TokenService
	log     zerolog.Logger
}

func NewAuthService(idp ports.IdentityProvider, tenants ports.TenantRepository, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{idp: idp, tenants: tenants, tokens: tokens, log: log}
}

func (s *AuthService) Login(ctx context.Context, code string) (string, *domain.Tenant, error) {
	identity, err := s.idp.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("identity exchange: %w", err)
	}

	now := time.Now().UTC()
	tenant, err := s.tenants.Upsert(ctx, &domain.Tenant{
		ID:                 "user_" + uuid.NewString(),
		Email:              identity.Email,
		Name:               identity.Name,
		SubscriptionTier:   domain.TierFreeTrial,
		SubscriptionExpiry: now.Add(domain.TrialPeriod),
		CreatedAt:          now,
		LastLogin:          now,
	})
	if err != nil {
		return "", nil, fmt.Errorf("upsert tenant: %w", err)
	}

	token, err := s.tokens.Issue(map[string]any{
		domain.ClaimSubject: tenant.ID,
		domain.ClaimEmail:   tenant.Email,
		domain.ClaimName:    tenant.Name,
	})
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("tenant_id", tenant.ID).Msg("tenant signed in")
	return token, tenant, nil
}
