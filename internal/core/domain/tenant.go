package domain

import (
	"errors"
	"time"
)

// Subscription tiers a tenant can hold.
const (
	TierFreeTrial = "free_trial"
	TierBasic     = "basic"
	TierPro       = "pro"
)

// TrialPeriod is how long a freshly created tenant keeps the trial tier.
const TrialPeriod = 7 * 24 * time.Hour

var ErrTenantNotFound = errors.New("tenant not found")

// Tenant models an independent customer account. Tenants are created on
// first successful authentication and never hard-deleted.
type Tenant struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name,omitempty"`
	SubscriptionTier   string    `json:"subscription_tier"`
	SubscriptionExpiry time.Time `json:"subscription_expires"`
	CreatedAt          time.Time `json:"created_at"`
	LastLogin          time.Time `json:"last_login"`
}
