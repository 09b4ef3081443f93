package finance

import (
	"context"
	"errors"
	"time"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProjectFinancials is everything the roll-ups read for one project
type ProjectFinancials struct {
	Project       *project.Project
	Entries       []finance.FinancialEntry
	PurchaseItems []procurement.PurchaseItem
	Measurements  []project.Measurement
}

// PlannedPurchases sums the planned amount of items not yet bought
func (f *ProjectFinancials) PlannedPurchases() decimal.Decimal {
	total := decimal.Zero
	for i := range f.PurchaseItems {
		if f.PurchaseItems[i].IsPlanned() {
			total = total.Add(f.PurchaseItems[i].PlannedAmount)
		}
	}
	return total
}

// PendingMeasurements sums the measured amount still awaiting payment
func (f *ProjectFinancials) PendingMeasurements() decimal.Decimal {
	total := decimal.Zero
	for i := range f.Measurements {
		if f.Measurements[i].Status.IsOutstanding() {
			total = total.Add(f.Measurements[i].Amount)
		}
	}
	return total
}

// Summary computes the budget summary
func (f *ProjectFinancials) Summary() finance.Summary {
	return finance.Summarize(f.Project.TotalCost(), f.Entries)
}

// CashFlow computes the cash-flow projection
func (f *ProjectFinancials) CashFlow() finance.CashFlow {
	return finance.CalculateCashFlow(f.Project.TotalCost(), f.Entries, f.PlannedPurchases(), f.PendingMeasurements())
}

// RollupService computes the derived financial reads of a project
type RollupService struct {
	projectRepo     project.ProjectRepository
	entryRepo       finance.FinancialEntryRepository
	itemRepo        procurement.PurchaseItemRepository
	measurementRepo project.MeasurementRepository
	overdue         *OverdueService
	logger          *zap.Logger
}

// NewRollupService creates a new RollupService
func NewRollupService(
	projectRepo project.ProjectRepository,
	entryRepo finance.FinancialEntryRepository,
	itemRepo procurement.PurchaseItemRepository,
	measurementRepo project.MeasurementRepository,
	overdue *OverdueService,
	logger *zap.Logger,
) *RollupService {
	return &RollupService{
		projectRepo:     projectRepo,
		entryRepo:       entryRepo,
		itemRepo:        itemRepo,
		measurementRepo: measurementRepo,
		overdue:         overdue,
		logger:          logger,
	}
}

// Load updates overdue statuses and reads the project with its entries,
// purchase items and measurements
func (s *RollupService) Load(ctx context.Context, tenantID, projectID uuid.UUID) (*ProjectFinancials, error) {
	p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, projectID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Project")
		}
		return nil, err
	}

	s.overdue.refresh(ctx, tenantID)

	entries, err := s.entryRepo.FindByProjectForTenant(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.FindByProjectForTenant(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	measurements, err := s.measurementRepo.FindByProjectForTenant(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}

	return &ProjectFinancials{
		Project:       p,
		Entries:       entries,
		PurchaseItems: items,
		Measurements:  measurements,
	}, nil
}

// Summary returns the budget summary of a project
func (s *RollupService) Summary(ctx context.Context, tenantID, projectID uuid.UUID) (*SummaryResponse, error) {
	f, err := s.Load(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	response := toSummaryResponse(projectID, f.Summary())
	return &response, nil
}

// Deviation returns the budget deviation of a project
func (s *RollupService) Deviation(ctx context.Context, tenantID, projectID uuid.UUID) (*DeviationResponse, error) {
	f, err := s.Load(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	response := toDeviationResponse(projectID, finance.CalculateDeviation(f.Summary()))
	return &response, nil
}

// CashFlow returns the cash-flow projection of a project
func (s *RollupService) CashFlow(ctx context.Context, tenantID, projectID uuid.UUID) (*CashFlowResponse, error) {
	f, err := s.Load(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	response := toCashFlowResponse(projectID, f.CashFlow())
	return &response, nil
}

// Period lists a project's entries due within [inicio, fim], latest due
// date first, with their totals
func (s *RollupService) Period(ctx context.Context, tenantID uuid.UUID, req PeriodRequest) (*PeriodResponse, error) {
	start, err := shared.ParseDateField("inicio", req.Start)
	if err != nil {
		return nil, err
	}
	end, err := shared.ParseDateField("fim", req.End)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "fim must not be before inicio")
	}

	p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, req.ProjectID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Project")
		}
		return nil, err
	}

	s.overdue.refresh(ctx, tenantID)

	entries, err := s.entryRepo.FindByDueDateRange(ctx, tenantID, req.ProjectID, start, end)
	if err != nil {
		return nil, err
	}
	return buildPeriod(p, start, end, entries), nil
}

func buildPeriod(p *project.Project, start, end time.Time, entries []finance.FinancialEntry) *PeriodResponse {
	response := &PeriodResponse{
		ProjectID:     p.ID,
		ProjectName:   p.Name,
		ProjectBudget: p.TotalCost(),
		Start:         shared.FormatDate(start),
		End:           shared.FormatDate(end),
		Entries:       ToEntryResponses(entries),
		TotalRevenue:  decimal.Zero,
		TotalExpense:  decimal.Zero,
		TotalPaid:     decimal.Zero,
		TotalOpen:     decimal.Zero,
	}
	for _, e := range entries {
		if e.Type == finance.EntryTypeRevenue {
			response.TotalRevenue = response.TotalRevenue.Add(e.Amount)
		} else {
			response.TotalExpense = response.TotalExpense.Add(e.Amount)
		}
		switch {
		case e.Status == finance.EntryStatusPaid:
			response.TotalPaid = response.TotalPaid.Add(e.Amount)
		case e.Status.IsOpen():
			response.TotalOpen = response.TotalOpen.Add(e.Amount)
		}
		if e.Status == finance.EntryStatusOverdue {
			response.OverdueCount++
		}
	}
	return response
}
