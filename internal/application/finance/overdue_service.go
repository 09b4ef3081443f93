package finance

import (
	"context"
	"time"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OverdueService flips PENDING entries past their due date to OVERDUE.
// It is the only writer of the OVERDUE status and is invoked explicitly:
// before entry listings, by the sweep endpoint and by the scheduler.
type OverdueService struct {
	entryRepo      finance.FinancialEntryRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewOverdueService creates a new OverdueService
func NewOverdueService(entryRepo finance.FinancialEntryRepository, logger *zap.Logger) *OverdueService {
	return &OverdueService{
		entryRepo: entryRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *OverdueService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// MarkOverdue updates the tenant's overdue entries and returns how many
// changed. Running it twice on the same day changes nothing the second time.
func (s *OverdueService) MarkOverdue(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	updated, err := s.entryRepo.MarkOverdueForTenant(ctx, tenantID, s.now())
	if err != nil {
		return 0, err
	}
	if updated == 0 {
		return 0, nil
	}

	s.logger.Info("Financial entries marked overdue",
		zap.String("tenant_id", tenantID.String()),
		zap.Int64("count", updated))

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, finance.NewEntriesMarkedOverdueEvent(tenantID, updated)); err != nil {
			s.logger.Warn("Failed to publish overdue event", zap.Error(err))
		}
	}
	return updated, nil
}

// refresh runs MarkOverdue as the first step of a read. A failure is logged
// and the read proceeds with the stored statuses.
func (s *OverdueService) refresh(ctx context.Context, tenantID uuid.UUID) {
	if s == nil {
		return
	}
	if _, err := s.MarkOverdue(ctx, tenantID); err != nil {
		s.logger.Warn("Overdue update failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
}
