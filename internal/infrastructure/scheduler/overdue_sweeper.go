// Package scheduler runs background jobs. Its one job flips pending
// financial entries past their due date to OVERDUE for every active company.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erp-obras/backend/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider lists the tenants a sweep visits
type TenantProvider interface {
	GetAllActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// OverdueMarker marks the overdue entries of one tenant
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// SweepConfig holds the sweeper configuration
type SweepConfig struct {
	Interval time.Duration
	// TenantTimeout bounds the work done for a single tenant
	TenantTimeout time.Duration
	// RunOnStart sweeps once immediately instead of waiting a full interval
	RunOnStart bool
}

// DefaultSweepConfig returns the default sweeper configuration
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Interval:      time.Hour,
		TenantTimeout: 5 * time.Minute,
		RunOnStart:    true,
	}
}

// SweepResult summarizes one sweep over all tenants
type SweepResult struct {
	Tenants  int
	Updated  int64
	Failed   int
	Duration time.Duration
}

// OverdueSweeper periodically marks overdue entries across tenants
type OverdueSweeper struct {
	config  SweepConfig
	tenants TenantProvider
	marker  OverdueMarker
	logger  *zap.Logger

	sweeping  atomic.Bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	last      SweepResult
}

// NewOverdueSweeper creates an OverdueSweeper
func NewOverdueSweeper(config SweepConfig, tenants TenantProvider, marker OverdueMarker, logger *zap.Logger) (*OverdueSweeper, error) {
	if config.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if config.TenantTimeout <= 0 {
		config.TenantTimeout = DefaultSweepConfig().TenantTimeout
	}
	return &OverdueSweeper{
		config:  config,
		tenants: tenants,
		marker:  marker,
		logger:  logger.Named("overdue_sweeper"),
	}, nil
}

// Start launches the sweep loop
func (s *OverdueSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Overdue sweeper started", zap.Duration("interval", s.config.Interval))
	return nil
}

// Stop stops the loop and waits for a running sweep to finish
func (s *OverdueSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Overdue sweeper stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Overdue sweeper stop timed out")
		return ctx.Err()
	}
}

func (s *OverdueSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.sweepLogged(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepLogged(ctx)
		}
	}
}

func (s *OverdueSweeper) sweepLogged(ctx context.Context) {
	if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("Overdue sweep failed", zap.Error(err))
	}
}

// Sweep runs one pass over all active tenants. A failing tenant is logged
// and counted; the pass continues with the next one.
func (s *OverdueSweeper) Sweep(ctx context.Context) (SweepResult, error) {
	if !s.sweeping.CompareAndSwap(false, true) {
		return SweepResult{}, ErrSweepInProgress
	}
	defer s.sweeping.Store(false)

	start := time.Now()
	tenantIDs, err := s.tenants.GetAllActiveTenantIDs(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list active tenants: %w", err)
	}

	result := SweepResult{Tenants: len(tenantIDs)}
	for _, tenantID := range tenantIDs {
		if ctx.Err() != nil {
			break
		}
		n, err := s.sweepTenant(ctx, tenantID)
		if err != nil {
			result.Failed++
			s.logger.Error("Failed to mark overdue entries",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
			continue
		}
		result.Updated += n
	}
	result.Duration = time.Since(start)

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	s.logger.Info("Overdue sweep finished",
		zap.Int("tenants", result.Tenants),
		zap.Int64("updated", result.Updated),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration))
	return result, nil
}

func (s *OverdueSweeper) sweepTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.TenantTimeout)
	defer cancel()
	return s.marker.MarkOverdue(ctx, tenantID)
}

// LastResult returns the outcome of the most recent sweep
func (s *OverdueSweeper) LastResult() SweepResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// CompanyTenantProvider lists the active companies as tenants
type CompanyTenantProvider struct {
	companies identity.CompanyRepository
}

// NewCompanyTenantProvider creates a CompanyTenantProvider
func NewCompanyTenantProvider(companies identity.CompanyRepository) *CompanyTenantProvider {
	return &CompanyTenantProvider{companies: companies}
}

// GetAllActiveTenantIDs returns the IDs of all active companies
func (p *CompanyTenantProvider) GetAllActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	companies, err := p.companies.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(companies))
	for i := range companies {
		ids[i] = companies[i].ID
	}
	return ids, nil
}
