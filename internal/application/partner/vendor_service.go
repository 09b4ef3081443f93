package partner

import (
	"context"
	"errors"

	appevent "github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/partner"
	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VendorService handles vendor (fornecedor) operations
type VendorService struct {
	vendorRepo     partner.VendorRepository
	quotationRepo  procurement.QuotationRepository
	entryRepo      finance.FinancialEntryRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewVendorService creates a new VendorService
func NewVendorService(
	vendorRepo partner.VendorRepository,
	quotationRepo procurement.QuotationRepository,
	entryRepo finance.FinancialEntryRepository,
	logger *zap.Logger,
) *VendorService {
	return &VendorService{
		vendorRepo:    vendorRepo,
		quotationRepo: quotationRepo,
		entryRepo:     entryRepo,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *VendorService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new vendor
func (s *VendorService) Create(ctx context.Context, tenantID uuid.UUID, req CreateVendorRequest) (*VendorResponse, error) {
	vendor, err := partner.NewVendor(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := vendor.SetTaxID(req.TaxID); err != nil {
		return nil, err
	}
	if err := vendor.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
		return nil, err
	}
	vendor.SetCategory(req.Category)
	if req.Active != nil {
		vendor.SetActive(*req.Active)
	}

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, vendor)

	response := ToVendorResponse(vendor)
	return &response, nil
}

// GetByID retrieves a vendor by ID
func (s *VendorService) GetByID(ctx context.Context, tenantID, vendorID uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.find(ctx, tenantID, vendorID)
	if err != nil {
		return nil, err
	}
	response := ToVendorResponse(vendor)
	return &response, nil
}

// List retrieves vendors with filtering and pagination
func (s *VendorService) List(ctx context.Context, tenantID uuid.UUID, filter VendorListFilter) ([]VendorResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := partner.VendorFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "name",
			OrderDir: "asc",
			Search:   filter.Search,
		},
		Active: filter.Active,
	}

	vendors, err := s.vendorRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.vendorRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToVendorResponses(vendors), total, nil
}

// Update updates a vendor
func (s *VendorService) Update(ctx context.Context, tenantID, vendorID uuid.UUID, req UpdateVendorRequest) (*VendorResponse, error) {
	vendor, err := s.find(ctx, tenantID, vendorID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := vendor.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.TaxID != nil {
		if err := vendor.SetTaxID(*req.TaxID); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.Phone != nil || req.Email != nil {
		contactName, phone, email := vendor.ContactName, vendor.Phone, vendor.Email
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := vendor.SetContact(contactName, phone, email); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		vendor.SetCategory(*req.Category)
	}
	if req.Active != nil {
		vendor.SetActive(*req.Active)
	}
	vendor.MarkUpdated()

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, vendor)

	response := ToVendorResponse(vendor)
	return &response, nil
}

// Delete deletes a vendor. A vendor with approved quotations or linked
// financial entries cannot be deleted.
func (s *VendorService) Delete(ctx context.Context, tenantID, vendorID uuid.UUID) error {
	vendor, err := s.find(ctx, tenantID, vendorID)
	if err != nil {
		return err
	}

	approved := procurement.QuotationStatusApproved
	quotations, err := s.quotationRepo.CountForTenant(ctx, tenantID, procurement.QuotationFilter{
		VendorID: &vendorID,
		Status:   &approved,
	})
	if err != nil {
		return err
	}
	if quotations > 0 {
		return shared.NewDependencyError("Cannot delete vendor: %d approved quotation(s) reference it", quotations)
	}

	entries, err := s.entryRepo.CountForTenant(ctx, tenantID, finance.EntryFilter{VendorID: &vendorID})
	if err != nil {
		return err
	}
	if entries > 0 {
		return shared.NewDependencyError("Cannot delete vendor: %d financial entry(ies) reference it", entries)
	}

	if err := s.vendorRepo.DeleteForTenant(ctx, tenantID, vendorID); err != nil {
		return err
	}

	s.logger.Info("Vendor deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("vendor_id", vendorID.String()))

	vendor.MarkDeleted()
	appevent.PublishPending(ctx, s.eventPublisher, s.logger, vendor)
	return nil
}

func (s *VendorService) find(ctx context.Context, tenantID, vendorID uuid.UUID) (*partner.Vendor, error) {
	vendor, err := s.vendorRepo.FindByIDForTenant(ctx, tenantID, vendorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Vendor")
		}
		return nil, err
	}
	return vendor, nil
}
