// Package finance implements the financial entry, invoice and roll-up
// use cases of a construction project.
package finance

import (
	"context"
	"errors"
	"time"

	appevent "github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/partner"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EntryService handles financial entry (lançamento) operations
type EntryService struct {
	entryRepo      finance.FinancialEntryRepository
	invoiceRepo    finance.InvoiceRepository
	projectRepo    project.ProjectRepository
	vendorRepo     partner.VendorRepository
	overdue        *OverdueService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewEntryService creates a new EntryService
func NewEntryService(
	entryRepo finance.FinancialEntryRepository,
	invoiceRepo finance.InvoiceRepository,
	projectRepo project.ProjectRepository,
	vendorRepo partner.VendorRepository,
	overdue *OverdueService,
	logger *zap.Logger,
) *EntryService {
	return &EntryService{
		entryRepo:   entryRepo,
		invoiceRepo: invoiceRepo,
		projectRepo: projectRepo,
		vendorRepo:  vendorRepo,
		overdue:     overdue,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *EntryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a manual entry. A request with status PAID is settled on
// dataPagamento, or today when it is absent.
func (s *EntryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateEntryRequest) (*EntryResponse, error) {
	dueDate, err := shared.ParseDateField("dataVencimento", req.DueDate)
	if err != nil {
		return nil, err
	}
	paymentDate, err := shared.ParseOptionalDateField("dataPagamento", req.PaymentDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, req.ProjectID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Project")
		}
		return nil, err
	}
	if err := s.checkVendor(ctx, tenantID, req.VendorID); err != nil {
		return nil, err
	}

	entry, err := finance.NewFinancialEntry(tenantID, req.ProjectID, finance.EntryDetails{
		Type:        finance.EntryType(req.Type),
		VendorID:    req.VendorID,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     dueDate,
		Category:    req.Category,
	})
	if err != nil {
		return nil, err
	}
	if finance.EntryStatus(req.Status) == finance.EntryStatusPaid {
		if err := entry.MarkPaid(s.paymentDay(paymentDate)); err != nil {
			return nil, err
		}
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Financial entry created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("entry_id", entry.ID.String()),
		zap.String("type", entry.Type.String()),
		zap.String("amount", entry.Amount.String()))

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, entry)

	response := ToEntryResponse(entry)
	return &response, nil
}

// GetByID retrieves an entry by ID
func (s *EntryService) GetByID(ctx context.Context, tenantID, entryID uuid.UUID) (*EntryResponse, error) {
	entry, err := s.find(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	response := ToEntryResponse(entry)
	return &response, nil
}

// List updates overdue statuses, then returns entries ordered by due date,
// latest first
func (s *EntryService) List(ctx context.Context, tenantID uuid.UUID, filter EntryListFilter) ([]EntryResponse, int64, error) {
	s.overdue.refresh(ctx, tenantID)

	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	domainFilter := finance.EntryFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  "due_date",
			OrderDir: "desc",
			Search:   filter.Search,
		},
		ProjectID: filter.ProjectID,
		VendorID:  filter.VendorID,
	}
	if filter.Type != "" {
		t := finance.EntryType(filter.Type)
		domainFilter.Type = &t
	}
	if filter.Status != "" {
		st := finance.EntryStatus(filter.Status)
		domainFilter.Status = &st
	}

	entries, err := s.entryRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entryRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToEntryResponses(entries), total, nil
}

// Update changes an entry. Setting status PAID settles it; a paid entry
// cannot be reopened.
func (s *EntryService) Update(ctx context.Context, tenantID, entryID uuid.UUID, req UpdateEntryRequest) (*EntryResponse, error) {
	entry, err := s.find(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}

	details := finance.EntryDetails{
		Type:        entry.Type,
		VendorID:    entry.VendorID,
		Description: entry.Description,
		Amount:      entry.Amount,
		DueDate:     entry.DueDate,
		Category:    entry.Category,
	}
	if req.Type != nil {
		details.Type = finance.EntryType(*req.Type)
	}
	if req.VendorID != nil {
		if err := s.checkVendor(ctx, tenantID, req.VendorID); err != nil {
			return nil, err
		}
		details.VendorID = req.VendorID
	}
	if req.Description != nil {
		details.Description = *req.Description
	}
	if req.Amount != nil {
		details.Amount = *req.Amount
	}
	if req.DueDate != nil {
		if details.DueDate, err = shared.ParseDateField("dataVencimento", *req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		details.Category = *req.Category
	}
	paymentDate, err := shared.ParseOptionalDateField("dataPagamento", req.PaymentDate)
	if err != nil {
		return nil, err
	}

	if err := entry.Update(details); err != nil {
		return nil, err
	}
	if req.Status != nil {
		target := finance.EntryStatus(*req.Status)
		switch {
		case target == finance.EntryStatusPaid && entry.Status != finance.EntryStatusPaid:
			if err := entry.MarkPaid(s.paymentDay(paymentDate)); err != nil {
				return nil, err
			}
		case target != finance.EntryStatusPaid && entry.Status == finance.EntryStatusPaid:
			return nil, shared.NewDomainError("INVALID_STATE", "A paid entry cannot be reopened")
		}
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, entry)

	response := ToEntryResponse(entry)
	return &response, nil
}

// Pay settles an open entry on the given date, today by default
func (s *EntryService) Pay(ctx context.Context, tenantID, entryID uuid.UUID, req PayEntryRequest) (*EntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "financial_entry", "pay",
		telemetry.SpanEntryID.String(entryID.String()))
	defer span.End()

	paymentDate, err := shared.ParseOptionalDateField("dataPagamento", req.PaymentDate)
	if err != nil {
		return nil, err
	}
	entry, err := s.find(ctx, tenantID, entryID)
	if err != nil {
		return nil, span.Fail(err)
	}
	if err := entry.MarkPaid(s.paymentDay(paymentDate)); err != nil {
		return nil, span.Fail(err)
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, span.Fail(err)
	}
	span.SetAttributes(
		telemetry.SpanAmount.String(entry.Amount.String()),
		telemetry.SpanSourceType.String(string(entry.SourceType)),
	)

	s.logger.Info("Financial entry paid",
		zap.String("tenant_id", tenantID.String()),
		zap.String("entry_id", entry.ID.String()))

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, entry)

	response := ToEntryResponse(entry)
	return &response, nil
}

// Delete removes an entry. Entries generated by a measurement payment and
// entries referenced by an invoice are kept.
func (s *EntryService) Delete(ctx context.Context, tenantID, entryID uuid.UUID) error {
	entry, err := s.find(ctx, tenantID, entryID)
	if err != nil {
		return err
	}
	if entry.SourceType == finance.SourceTypeMeasurement {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete an entry generated by a measurement payment")
	}

	invoices, err := s.invoiceRepo.CountForTenant(ctx, tenantID, finance.InvoiceFilter{EntryID: &entryID})
	if err != nil {
		return err
	}
	if invoices > 0 {
		return shared.NewDependencyError("Cannot delete entry: %d invoice(s) reference it", invoices)
	}

	if err := s.entryRepo.DeleteForTenant(ctx, tenantID, entryID); err != nil {
		return err
	}

	entry.MarkDeleted()
	appevent.PublishPending(ctx, s.eventPublisher, s.logger, entry)
	return nil
}

// MarkOverdue runs the overdue update for the tenant
func (s *EntryService) MarkOverdue(ctx context.Context, tenantID uuid.UUID) (*OverdueSweepResponse, error) {
	updated, err := s.overdue.MarkOverdue(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &OverdueSweepResponse{Updated: updated}, nil
}

func (s *EntryService) paymentDay(date *time.Time) time.Time {
	if date != nil {
		return *date
	}
	return s.now()
}

func (s *EntryService) checkVendor(ctx context.Context, tenantID uuid.UUID, vendorID *uuid.UUID) error {
	if vendorID == nil {
		return nil
	}
	if _, err := s.vendorRepo.FindByIDForTenant(ctx, tenantID, *vendorID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Vendor")
		}
		return err
	}
	return nil
}

func (s *EntryService) find(ctx context.Context, tenantID, entryID uuid.UUID) (*finance.FinancialEntry, error) {
	entry, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, entryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Financial entry")
		}
		return nil, err
	}
	return entry, nil
}
