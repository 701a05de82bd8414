package domain

import (
	"errors"
	"time"
)

// TradingFrequency controls how aggressively the pipeline trades.
type TradingFrequency string

const (
	FrequencyLow     TradingFrequency = "Low"
	FrequencyOptimal TradingFrequency = "Optimal"
	FrequencyHigh    TradingFrequency = "High"
)

// RiskLevel bounds the risk the pipeline may take for a tenant.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

var ErrSettingsNotFound = errors.New("trading settings not found")
var ErrInvalidSettings = errors.New("invalid trading settings")

// TradingSettings holds a tenant's trading preferences. One record per
// tenant, upsert on save; defaults are written on first read.
type TradingSettings struct {
	TenantID              string           `json:"tenant_id"`
	MaxTransactionPercent float64          `json:"max_transaction_percent"`
	MaxPositionPercent    float64          `json:"max_position_percent"`
	Frequency             TradingFrequency `json:"trading_frequency"`
	Risk                  RiskLevel        `json:"risk_level"`
	ActiveSymbols         []string         `json:"active_cryptocurrencies"`
	TradingActive         bool             `json:"trading_active"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// DefaultSettings returns the settings written for a tenant that has never
// saved any.
func DefaultSettings(tenantID string) *TradingSettings {
	return &TradingSettings{
		TenantID:              tenantID,
		MaxTransactionPercent: 20.0,
		MaxPositionPercent:    20.0,
		Frequency:             FrequencyOptimal,
		Risk:                  RiskMedium,
		ActiveSymbols:         []string{"BTC", "ETH", "SOL", "ADA", "DOT"},
	}
}

// Valid reports whether f is a known frequency.
func (f TradingFrequency) Valid() bool {
	switch f {
	case FrequencyLow, FrequencyOptimal, FrequencyHigh:
		return true
	}
	return false
}

// Valid reports whether r is a known risk level.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Validate checks field ranges and enums before the record reaches the store.
func (s *TradingSettings) Validate() error {
	if s.TenantID == "" {
		return errors.New("settings: tenant id is required")
	}
	if s.MaxTransactionPercent <= 0 || s.MaxTransactionPercent > 100 {
		return ErrInvalidSettings
	}
	if s.MaxPositionPercent <= 0 || s.MaxPositionPercent > 100 {
		return ErrInvalidSettings
	}
	if !s.Frequency.Valid() || !s.Risk.Valid() {
		return ErrInvalidSettings
	}
	if len(s.ActiveSymbols) == 0 {
		return ErrInvalidSettings
	}
	return nil
}
