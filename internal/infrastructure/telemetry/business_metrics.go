package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSampleInterval = 5 * time.Minute

var ErrMeterRequired = errors.New("business metrics: meter is required")

// TenantLister returns the companies whose gauges are sampled.
type TenantLister interface {
	GetAllActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// GaugeSource reports the point-in-time counts sampled per tenant.
type GaugeSource interface {
	CountOverdueEntries(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountLateProjects(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
	// Gauges is optional; without it Sample records nothing.
	Gauges GaugeSource
}

// BusinessMetrics turns domain activity into OTel instruments. It subscribes
// to every event on the bus, observes each handler dispatch and samples
// overdue entries and late projects per tenant on an interval.
type BusinessMetrics struct {
	log    *zap.Logger
	gauges GaugeSource

	events     *Counter
	dispatches *Counter
	paid       *Counter
	paidCents  *Counter
	sweeps     *Counter
	marked     *Counter

	overdue *Gauge
	late    *Gauge

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterRequired
	}
	bm := &BusinessMetrics{log: cfg.Logger, gauges: cfg.Gauges}
	if bm.log == nil {
		bm.log = zap.NewNop()
	}

	set := Instruments(cfg.Meter)
	bm.events = set.Counter("erp_domain_events_total", "{events}", "Domain events published")
	bm.dispatches = set.Counter("erp_event_dispatch_total", "{dispatches}", "Event handler invocations")
	bm.paid = set.Counter("erp_financial_entries_paid_total", "{entries}", "Financial entries settled")
	bm.paidCents = set.Counter("erp_financial_entries_paid_amount_total", "{centavos}", "Settled amount in centavos")
	bm.marked = set.Counter("erp_financial_entries_marked_overdue_total", "{entries}", "Entries moved to OVERDUE")
	bm.sweeps = set.Counter("erp_overdue_sweeps_total", "{sweeps}", "Overdue sweeps that changed entries")
	bm.overdue = set.Gauge("erp_financial_entries_overdue", "{entries}", "Overdue financial entries")
	bm.late = set.Gauge("erp_projects_late", "{projects}", "Projects in LATE status")
	if err := set.Err(); err != nil {
		return nil, err
	}
	return bm, nil
}

// Handle counts every event and the settlement and sweep payloads. It never
// fails the dispatch.
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenant := AttrTenantID.String(event.TenantID().String())
	bm.events.Inc(ctx, tenant, AttrEventType.String(event.EventType()))

	switch e := event.(type) {
	case *finance.EntryPaidEvent:
		bm.paid.Inc(ctx, tenant)
		bm.paidCents.Add(ctx, e.Amount.Mul(decimal.NewFromInt(100)).IntPart(), tenant)
	case *finance.EntriesMarkedOverdueEvent:
		bm.sweeps.Inc(ctx, tenant)
		bm.marked.Add(ctx, e.Count, tenant)
	}
	return nil
}

// EventTypes returns nil, subscribing to all events.
func (bm *BusinessMetrics) EventTypes() []string {
	return nil
}

// ObserveDispatch counts one handler invocation by outcome.
func (bm *BusinessMetrics) ObserveDispatch(ctx context.Context, eventType string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	bm.dispatches.Inc(ctx, AttrEventType.String(eventType), AttrOutcome.String(outcome))
}

// Sample records the gauges of every listed tenant once. A tenant whose
// counts cannot be read keeps its previous values.
func (bm *BusinessMetrics) Sample(ctx context.Context, tenants TenantLister) {
	if bm.gauges == nil {
		return
	}
	ids, err := tenants.GetAllActiveTenantIDs(ctx)
	if err != nil {
		bm.log.Error("Business metrics could not list tenants", zap.Error(err))
		return
	}
	for _, id := range ids {
		tenant := AttrTenantID.String(id.String())
		if n, err := bm.gauges.CountOverdueEntries(ctx, id); err != nil {
			bm.log.Warn("Overdue entry count failed", zap.Stringer("tenant_id", id), zap.Error(err))
		} else {
			bm.overdue.Record(ctx, n, tenant, AttrEntryStatus.String(string(finance.EntryStatusOverdue)))
		}
		if n, err := bm.gauges.CountLateProjects(ctx, id); err != nil {
			bm.log.Warn("Late project count failed", zap.Stringer("tenant_id", id), zap.Error(err))
		} else {
			bm.late.Record(ctx, n, tenant)
		}
	}
}

// StartSampling calls Sample now and then every interval until ctx ends or
// Stop is called. Only the first call starts a loop.
func (bm *BusinessMetrics) StartSampling(ctx context.Context, tenants TenantLister, interval time.Duration) {
	bm.startOnce.Do(func() {
		if interval <= 0 {
			interval = defaultSampleInterval
		}
		ctx, bm.cancel = context.WithCancel(ctx)
		bm.done = make(chan struct{})

		go func() {
			defer close(bm.done)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				bm.Sample(ctx, tenants)
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}()
	})
}

// Stop ends sampling and waits for an in-flight Sample to return.
func (bm *BusinessMetrics) Stop() {
	bm.startOnce.Do(func() {})
	bm.stopOnce.Do(func() {
		if bm.cancel != nil {
			bm.cancel()
			<-bm.done
		}
	})
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)

// GormGaugeSource counts straight from the tables, outside tenant scoping.
type GormGaugeSource struct {
	db *gorm.DB
}

func NewGormGaugeSource(db *gorm.DB) *GormGaugeSource {
	return &GormGaugeSource{db: db}
}

func (s *GormGaugeSource) CountOverdueEntries(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.count(ctx, "financial_entries", tenantID, string(finance.EntryStatusOverdue))
}

func (s *GormGaugeSource) CountLateProjects(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.count(ctx, "projects", tenantID, string(project.ProjectStatusLate))
}

func (s *GormGaugeSource) count(ctx context.Context, table string, tenantID uuid.UUID, status string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table(table).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&n).Error
	return n, err
}

var _ GaugeSource = (*GormGaugeSource)(nil)
