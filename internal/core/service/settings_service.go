package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

// SettingsService manages per-tenant trading settings with
// default-on-first-read semantics.
type SettingsService struct {
	repo ports.SettingsRepository
	log  zerolog.Logger
}

func NewSettingsService(repo ports.SettingsRepository, log zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, log: log}
}

// Get returns the tenant's settings. When none exist yet the defaults are
// persisted and returned, so every tenant that has read its settings once
// also holds a settings record.
func (s *SettingsService) Get(ctx context.Context, tenantID string) (*domain.TradingSettings, error) {
	settings, err := s.repo.Get(ctx, tenantID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, domain.ErrSettingsNotFound) {
		return nil, err
	}

	defaults := domain.DefaultSettings(tenantID)
	defaults.UpdatedAt = time.Now().UTC()
	if err := s.repo.Upsert(ctx, defaults); err != nil {
		return nil, fmt.Errorf("write default settings: %w", err)
	}
	s.log.Info().Str("tenant_id", tenantID).Msg("default trading settings created")
	return defaults, nil
}

// Update validates and upserts the record.
func (s *SettingsService) Update(ctx context.Context, settings *domain.TradingSettings) (*domain.TradingSettings, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	settings.UpdatedAt = time.Now().UTC()
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// SetActive toggles the batch-trading flag, materialising default settings
// first if the tenant has none.
func (s *SettingsService) SetActive(ctx context.Context, tenantID string, active bool) error {
	settings, err := s.Get(ctx, tenantID)
	if err != nil {
		return err
	}
	settings.TradingActive = active
	settings.UpdatedAt = time.Now().UTC()
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return err
	}
	s.log.Info().Str("tenant_id", tenantID).Bool("active", active).Msg("trading toggled")
	return nil
}
