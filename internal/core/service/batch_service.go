package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Jan1986-cloud/aitrader/internal/api/metrics"
	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

const (
	defaultBatchWorkers  = 4
	defaultTenantTimeout = 2 * time.Minute
)

// Per-tenant batch statuses, also used as metric label values.
const (
	statusSuccess = "success"
	statusError   = "error"
	statusSkipped = "skipped"
)

// RunSummary tallies one batch run. Runs are ephemeral; the summary is
// logged and counted, never persisted.
type RunSummary struct {
	StartedAt time.Time
	Eligible  int
	Succeeded int
	Failed    int
	Skipped   int
}

// BatchRunner executes one pass over all eligible tenants, dispatching the
// trading pipeline for each under strict fault isolation: one tenant's
// failure is logged and tallied, never propagated to the others.
type BatchRunner struct {
	tenants       ports.TenantRepository
	vault         ports.CredentialVault
	settings      ports.SettingsRepository
	trades        ports.TradeRepository
	pipeline      ports.TradingPipeline
	workers       int
	tenantTimeout time.Duration
	log           zerolog.Logger

	running atomic.Bool
}

func NewBatchRunner(
	tenants ports.TenantRepository,
	vault ports.CredentialVault,
	settings ports.SettingsRepository,
	trades ports.TradeRepository,
	pipeline ports.TradingPipeline,
	workers int,
	tenantTimeout time.Duration,
	log zerolog.Logger,
) *BatchRunner {
	if workers <= 0 {
		workers = defaultBatchWorkers
	}
	if tenantTimeout <= 0 {
		tenantTimeout = defaultTenantTimeout
	}
	return &BatchRunner{
		tenants:       tenants,
		vault:         vault,
		settings:      settings,
		trades:        trades,
		pipeline:      pipeline,
		workers:       workers,
		tenantTimeout: tenantTimeout,
		log:           log,
	}
}

// Run processes every eligible tenant once. An empty eligible set completes
// as a no-op. Returns domain.ErrRunInProgress when a run is still active —
// overlapping triggers are skipped, not queued.
func (r *BatchRunner) Run(ctx context.Context, now time.Time) (*RunSummary, error) {
	if !r.running.CompareAndSwap(false, true) {
		metrics.BatchRunsTotal.WithLabelValues("skipped").Inc()
		return nil, domain.ErrRunInProgress
	}
	defer r.running.Store(false)

	started := time.Now()
	defer func() {
		metrics.BatchRunDuration.Observe(time.Since(started).Seconds())
	}()

	eligible, err := r.tenants.ListEligible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list eligible tenants: %w", err)
	}

	summary := &RunSummary{StartedAt: now, Eligible: len(eligible)}
	if len(eligible) == 0 {
		r.log.Info().Msg("batch run: no eligible tenants")
		metrics.BatchRunsTotal.WithLabelValues("completed").Inc()
		return summary, nil
	}

	workers := r.workers
	if workers > len(eligible) {
		workers = len(eligible)
	}

	jobs := make(chan ports.EligibleTenant)
	results := make(chan string)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- r.processTenant(ctx, job)
			}
		}()
	}
	go func() {
		for _, t := range eligible {
			jobs <- t
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for status := range results {
		metrics.BatchTenantsTotal.WithLabelValues(status).Inc()
		switch status {
		case statusSuccess:
			summary.Succeeded++
		case statusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	metrics.BatchRunsTotal.WithLabelValues("completed").Inc()
	r.log.Info().
		Int("eligible", summary.Eligible).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Dur("duration", time.Since(started)).
		Msg("batch run complete")
	return summary, nil
}

// processTenant handles a single tenant end to end. Every failure path —
// decrypt, settings load, pipeline, persistence, timeout — is contained
// here and reduced to a status, so the run itself never aborts.
func (r *BatchRunner) processTenant(ctx context.Context, t ports.EligibleTenant) string {
	tenantCtx, cancel := context.WithTimeout(ctx, r.tenantTimeout)
	defer cancel()

	creds, err := r.vault.Retrieve(tenantCtx, t.TenantID, t.Provider)
	if err != nil {
		r.tenantFailed(t.TenantID, "retrieve credentials", err)
		return statusError
	}

	settings, err := r.settings.Get(tenantCtx, t.TenantID)
	if err != nil {
		r.tenantFailed(t.TenantID, "load settings", err)
		return statusError
	}
	if !settings.TradingActive {
		r.log.Info().
			Str("tenant_id", t.TenantID).
			Str("status", statusSkipped).
			Msg("trading paused for tenant")
		return statusSkipped
	}

	trades, err := r.pipeline.Process(tenantCtx, t.TenantID, *creds, *settings)
	if err != nil {
		r.tenantFailed(t.TenantID, "trading pipeline", err)
		return statusError
	}

	for i := range trades {
		trades[i].TenantID = t.TenantID
		if trades[i].ID == "" {
			trades[i].ID = uuid.NewString()
		}
		if err := r.trades.Append(tenantCtx, &trades[i]); err != nil {
			r.tenantFailed(t.TenantID, "record trade", err)
			return statusError
		}
	}

	r.log.Info().
		Str("tenant_id", t.TenantID).
		Str("status", statusSuccess).
		Int("trades", len(trades)).
		Msg("tenant processed")
	return statusSuccess
}

func (r *BatchRunner) tenantFailed(tenantID, detail string, err error) {
	r.log.Error().
		Err(err).
		Str("tenant_id", tenantID).
		Str("status", statusError).
		Str("detail", detail).
		Msg("tenant processing failed")
}
