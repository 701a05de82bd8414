package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

func TestSettingsService_Get_WritesDefaults(t *testing.T) {
	repo := newStubSettingsRepo()
	svc := NewSettingsService(repo, zerolog.Nop())

	settings, err := svc.Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.MaxTransactionPercent != 20.0 || settings.MaxPositionPercent != 20.0 {
		t.Fatalf("unexpected default percents: %+v", settings)
	}
	if settings.Frequency != domain.FrequencyOptimal || settings.Risk != domain.RiskMedium {
		t.Fatalf("unexpected default enums: %+v", settings)
	}
	if len(settings.ActiveSymbols) != 5 || settings.ActiveSymbols[0] != "BTC" {
		t.Fatalf("unexpected default symbols: %v", settings.ActiveSymbols)
	}
	if settings.TradingActive {
		t.Fatalf("trading should default to paused")
	}

	// The defaults were persisted, making the tenant batch-eligible.
	if _, err := repo.Get(context.Background(), "t1"); err != nil {
		t.Fatalf("defaults were not persisted: %v", err)
	}
}

func TestSettingsService_Get_ReturnsExisting(t *testing.T) {
	repo := newStubSettingsRepo()
	svc := NewSettingsService(repo, zerolog.Nop())

	saved := domain.DefaultSettings("t1")
	saved.Risk = domain.RiskHigh
	_ = repo.Upsert(context.Background(), saved)

	settings, err := svc.Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.Risk != domain.RiskHigh {
		t.Fatalf("expected stored settings, got %+v", settings)
	}
}

func TestSettingsService_Update_Validates(t *testing.T) {
	repo := newStubSettingsRepo()
	svc := NewSettingsService(repo, zerolog.Nop())

	bad := domain.DefaultSettings("t1")
	bad.MaxTransactionPercent = 150
	if _, err := svc.Update(context.Background(), bad); !errors.Is(err, domain.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}

	bad = domain.DefaultSettings("t1")
	bad.Risk = "Reckless"
	if _, err := svc.Update(context.Background(), bad); !errors.Is(err, domain.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings for bad risk, got %v", err)
	}

	good := domain.DefaultSettings("t1")
	good.Frequency = domain.FrequencyHigh
	updated, err := svc.Update(context.Background(), good)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt not set")
	}
}

func TestSettingsService_SetActive(t *testing.T) {
	repo := newStubSettingsRepo()
	svc := NewSettingsService(repo, zerolog.Nop())

	// No settings yet: SetActive materialises defaults first.
	if err := svc.SetActive(context.Background(), "t1", true); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	settings, err := repo.Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Get after SetActive: %v", err)
	}
	if !settings.TradingActive {
		t.Fatalf("expected trading active")
	}

	if err := svc.SetActive(context.Background(), "t1", false); err != nil {
		t.Fatalf("SetActive(false): %v", err)
	}
	settings, _ = repo.Get(context.Background(), "t1")
	if settings.TradingActive {
		t.Fatalf("expected trading paused")
	}
}
