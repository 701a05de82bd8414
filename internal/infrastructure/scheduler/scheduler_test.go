package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
	"github.com/Jan1986-cloud/aitrader/internal/core/service"
)

type stubLease struct {
	mu       sync.Mutex
	held     bool
	acquires int
	extends  int
	releases int
}

func (l *stubLease) Acquire(_ context.Context, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acquires++
	return !l.held, nil
}

func (l *stubLease) Extend(_ context.Context, _ time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.extends++
	return nil
}

func (l *stubLease) Release(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releases++
	return nil
}

type stubTenants struct {
	eligible []ports.EligibleTenant
}

func (r *stubTenants) FindByID(context.Context, string) (*domain.Tenant, error) {
	return nil, domain.ErrTenantNotFound
}

func (r *stubTenants) FindByEmail(context.Context, string) (*domain.Tenant, error) {
	return nil, domain.ErrTenantNotFound
}

func (r *stubTenants) Upsert(_ context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	return t, nil
}

func (r *stubTenants) ListEligible(context.Context) ([]ports.EligibleTenant, error) {
	return r.eligible, nil
}

type stubVault struct{}

func (stubVault) Store(context.Context, string, string, ports.PlaintextCredential) error {
	return nil
}

func (stubVault) Retrieve(context.Context, string, string) (*ports.PlaintextCredential, error) {
	return &ports.PlaintextCredential{APIKey: "k", APISecret: "s"}, nil
}

func (stubVault) Describe(context.Context, string, string) (*domain.Credential, error) {
	return nil, domain.ErrCredentialNotFound
}

type stubSettings struct{}

func (stubSettings) Upsert(context.Context, *domain.TradingSettings) error { return nil }

func (stubSettings) Get(_ context.Context, tenantID string) (*domain.TradingSettings, error) {
	settings := domain.DefaultSettings(tenantID)
	settings.TradingActive = true
	return settings, nil
}

type stubTrades struct{}

func (stubTrades) Append(context.Context, *domain.Trade) error { return nil }

func (stubTrades) ListRecent(context.Context, string, int) ([]domain.Trade, error) {
	return nil, nil
}

type slowPipeline struct {
	delay time.Duration
}

func (p *slowPipeline) Process(context.Context, string, ports.PlaintextCredential, domain.TradingSettings) ([]domain.Trade, error) {
	time.Sleep(p.delay)
	return nil, nil
}

func newTestRunner(delay time.Duration) *service.BatchRunner {
	return service.NewBatchRunner(
		&stubTenants{eligible: []ports.EligibleTenant{{TenantID: "t1", Provider: domain.ProviderCoinbase}}},
		stubVault{},
		stubSettings{},
		stubTrades{},
		&slowPipeline{delay: delay},
		1,
		time.Second,
		zerolog.Nop(),
	)
}

func TestScheduler_ExtendsLeaseDuringLongRun(t *testing.T) {
	lease := &stubLease{}
	// Interval 30ms, refresh every 10ms; the run takes 80ms, so the lease
	// must be extended at least once before the run finishes.
	s := New(newTestRunner(80*time.Millisecond), lease, 30*time.Millisecond, zerolog.Nop())

	s.trigger(context.Background(), time.Now())

	lease.mu.Lock()
	defer lease.mu.Unlock()
	if lease.acquires != 1 {
		t.Fatalf("expected 1 acquire, got %d", lease.acquires)
	}
	if lease.extends == 0 {
		t.Fatalf("lease was never extended during a run longer than its TTL")
	}
	if lease.releases != 1 {
		t.Fatalf("expected 1 release, got %d", lease.releases)
	}
}

func TestScheduler_SkipsRunWhenLeaseHeldElsewhere(t *testing.T) {
	lease := &stubLease{held: true}
	s := New(newTestRunner(0), lease, 30*time.Millisecond, zerolog.Nop())

	s.trigger(context.Background(), time.Now())

	lease.mu.Lock()
	defer lease.mu.Unlock()
	if lease.acquires != 1 {
		t.Fatalf("expected 1 acquire attempt, got %d", lease.acquires)
	}
	if lease.extends != 0 || lease.releases != 0 {
		t.Fatalf("lease touched despite being held elsewhere: %+v", lease)
	}
}
