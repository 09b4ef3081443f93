// Package procurement holds the quotation and purchase list services.
// Approving a quotation is a workflow trigger and lives in the workflow
// package.
package procurement

import (
	"context"
	"errors"
	"time"

	appevent "github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/domain/partner"
	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuotationService handles quotation operations
type QuotationService struct {
	quotationRepo  procurement.QuotationRepository
	projectRepo    project.ProjectRepository
	vendorRepo     partner.VendorRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotationRepo procurement.QuotationRepository,
	projectRepo project.ProjectRepository,
	vendorRepo partner.VendorRepository,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		projectRepo:   projectRepo,
		vendorRepo:    vendorRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *QuotationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a REQUESTED quotation
func (s *QuotationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateQuotationRequest) (*QuotationResponse, error) {
	if err := checkProject(ctx, s.projectRepo, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	if err := s.checkVendor(ctx, tenantID, req.VendorID); err != nil {
		return nil, err
	}

	q, err := procurement.NewQuotation(tenantID, req.ProjectID, procurement.QuotationDetails{
		VendorID:    req.VendorID,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, q)

	response := ToQuotationResponse(q)
	return &response, nil
}

// GetByID retrieves a quotation by ID
func (s *QuotationService) GetByID(ctx context.Context, tenantID, quotationID uuid.UUID) (*QuotationResponse, error) {
	q, err := s.find(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(q)
	return &response, nil
}

// List retrieves quotations with filtering and pagination
func (s *QuotationService) List(ctx context.Context, tenantID uuid.UUID, filter QuotationListFilter) ([]QuotationResponse, int64, error) {
	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	domainFilter := procurement.QuotationFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
		ProjectID: filter.ProjectID,
		VendorID:  filter.VendorID,
	}
	if filter.Status != "" {
		status := procurement.QuotationStatus(filter.Status)
		domainFilter.Status = &status
	}

	quotations, err := s.quotationRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.quotationRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToQuotationResponses(quotations), total, nil
}

// Update changes a quotation that is still REQUESTED or RECEIVED
func (s *QuotationService) Update(ctx context.Context, tenantID, quotationID uuid.UUID, req UpdateQuotationRequest) (*QuotationResponse, error) {
	q, err := s.find(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}

	details := procurement.QuotationDetails{
		VendorID:    q.VendorID,
		Description: q.Description,
		Amount:      q.Amount,
	}
	if req.VendorID != nil && *req.VendorID != q.VendorID {
		if err := s.checkVendor(ctx, tenantID, *req.VendorID); err != nil {
			return nil, err
		}
		details.VendorID = *req.VendorID
	}
	if req.Description != nil {
		details.Description = *req.Description
	}
	if req.Amount != nil {
		details.Amount = *req.Amount
	}

	if err := q.Update(details); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	response := ToQuotationResponse(q)
	return &response, nil
}

// Receive records the vendor's answer
func (s *QuotationService) Receive(ctx context.Context, tenantID, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, tenantID, quotationID, (*procurement.Quotation).Receive)
}

// Reject rejects an undecided quotation. Nothing else is written.
func (s *QuotationService) Reject(ctx context.Context, tenantID, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, tenantID, quotationID, (*procurement.Quotation).Reject)
}

// Delete removes a quotation. An approved quotation backs a financial entry
// and a purchase item and cannot be deleted.
func (s *QuotationService) Delete(ctx context.Context, tenantID, quotationID uuid.UUID) error {
	q, err := s.find(ctx, tenantID, quotationID)
	if err != nil {
		return err
	}
	if q.Status == procurement.QuotationStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete an approved quotation")
	}
	if err := s.quotationRepo.DeleteForTenant(ctx, tenantID, quotationID); err != nil {
		return err
	}

	q.MarkDeleted()
	appevent.PublishPending(ctx, s.eventPublisher, s.logger, q)
	return nil
}

func (s *QuotationService) transition(
	ctx context.Context,
	tenantID, quotationID uuid.UUID,
	apply func(*procurement.Quotation, time.Time) error,
) (*QuotationResponse, error) {
	q, err := s.find(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	if err := apply(q, s.now()); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	s.logger.Info("Quotation status changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("quotation_id", quotationID.String()),
		zap.String("status", q.Status.String()))

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, q)

	response := ToQuotationResponse(q)
	return &response, nil
}

func (s *QuotationService) checkVendor(ctx context.Context, tenantID, vendorID uuid.UUID) error {
	if _, err := s.vendorRepo.FindByIDForTenant(ctx, tenantID, vendorID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Vendor")
		}
		return err
	}
	return nil
}

func (s *QuotationService) find(ctx context.Context, tenantID, quotationID uuid.UUID) (*procurement.Quotation, error) {
	q, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, quotationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Quotation")
		}
		return nil, err
	}
	return q, nil
}

func checkProject(ctx context.Context, repo project.ProjectRepository, tenantID, projectID uuid.UUID) error {
	if _, err := repo.FindByIDForTenant(ctx, tenantID, projectID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Project")
		}
		return err
	}
	return nil
}
