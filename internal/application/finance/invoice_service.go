package finance

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	appevent "github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/partner"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage stores invoice documents behind presigned URLs.
// Implemented by the S3 adapter and by an in-memory stub for development.
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned PUT URL and its expiration time
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateDownloadURL returns a presigned GET URL and its expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// DocumentURLExpiry is how long presigned invoice document URLs stay valid
const DocumentURLExpiry = 15 * time.Minute

// InvoiceService handles invoice (nota fiscal) operations
type InvoiceService struct {
	invoiceRepo    finance.InvoiceRepository
	entryRepo      finance.FinancialEntryRepository
	projectRepo    project.ProjectRepository
	vendorRepo     partner.VendorRepository
	storage        ObjectStorage
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService. storage may be nil, in
// which case document operations fail with STORAGE_UNAVAILABLE.
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	entryRepo finance.FinancialEntryRepository,
	projectRepo project.ProjectRepository,
	vendorRepo partner.VendorRepository,
	storage ObjectStorage,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		entryRepo:   entryRepo,
		projectRepo: projectRepo,
		vendorRepo:  vendorRepo,
		storage:     storage,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers an invoice. The referenced entry must exist in the
// caller's company.
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	issueDate, err := shared.ParseDateField("dataEmissao", req.IssueDate)
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
	if err := s.checkEntry(ctx, tenantID, req.EntryID); err != nil {
		return nil, err
	}

	invoice, err := finance.NewInvoice(tenantID, req.ProjectID, finance.InvoiceDetails{
		Number:    req.Number,
		VendorID:  req.VendorID,
		Amount:    req.Amount,
		IssueDate: issueDate,
		EntryID:   req.EntryID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.find(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices ordered by issue date, latest first
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	domainFilter := finance.InvoiceFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  "issue_date",
			OrderDir: "desc",
			Search:   filter.Search,
		},
		ProjectID: filter.ProjectID,
		VendorID:  filter.VendorID,
	}

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// Update changes an invoice
func (s *InvoiceService) Update(ctx context.Context, tenantID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.find(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	details := finance.InvoiceDetails{
		Number:    invoice.Number,
		VendorID:  invoice.VendorID,
		Amount:    invoice.Amount,
		IssueDate: invoice.IssueDate,
		EntryID:   invoice.EntryID,
	}
	if req.Number != nil {
		details.Number = *req.Number
	}
	if req.VendorID != nil && *req.VendorID != invoice.VendorID {
		if err := s.checkVendor(ctx, tenantID, *req.VendorID); err != nil {
			return nil, err
		}
		details.VendorID = *req.VendorID
	}
	if req.Amount != nil {
		details.Amount = *req.Amount
	}
	if req.IssueDate != nil {
		if details.IssueDate, err = shared.ParseDateField("dataEmissao", *req.IssueDate); err != nil {
			return nil, err
		}
	}
	if req.EntryID != nil && *req.EntryID != invoice.EntryID {
		if err := s.checkEntry(ctx, tenantID, *req.EntryID); err != nil {
			return nil, err
		}
		details.EntryID = *req.EntryID
	}

	if err := invoice.Update(details); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete removes an invoice and, when present, its stored document
func (s *InvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	invoice, err := s.find(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if err := s.invoiceRepo.DeleteForTenant(ctx, tenantID, invoiceID); err != nil {
		return err
	}

	if invoice.HasDocument() && s.storage != nil {
		if err := s.storage.DeleteObject(ctx, invoice.AttachmentKey); err != nil {
			s.logger.Warn("Failed to delete invoice document",
				zap.String("invoice_id", invoice.ID.String()),
				zap.String("key", invoice.AttachmentKey),
				zap.Error(err))
		}
	}

	invoice.MarkDeleted()
	appevent.PublishPending(ctx, s.eventPublisher, s.logger, invoice)
	return nil
}

// RequestDocumentUpload records the document key on the invoice and returns
// a presigned upload URL for it
func (s *InvoiceService) RequestDocumentUpload(ctx context.Context, tenantID, invoiceID uuid.UUID, req DocumentUploadRequest) (*DocumentURLResponse, error) {
	if s.storage == nil {
		return nil, errStorageUnavailable
	}
	fileName := sanitizeFileName(req.FileName)
	if fileName == "" {
		return nil, shared.NewValidationError("fileName is invalid")
	}
	invoice, err := s.find(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	key := invoice.DocumentKey(fileName)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, DocumentURLExpiry)
	if err != nil {
		return nil, err
	}

	invoice.AttachDocument(key)
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice document upload requested",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("key", key))

	return &DocumentURLResponse{URL: url, ExpiresAt: expiresAt, Key: key}, nil
}

// GetDocumentURL returns a presigned download URL for the invoice document
func (s *InvoiceService) GetDocumentURL(ctx context.Context, tenantID, invoiceID uuid.UUID) (*DocumentURLResponse, error) {
	if s.storage == nil {
		return nil, errStorageUnavailable
	}
	invoice, err := s.find(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.HasDocument() {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice has no document")
	}

	exists, err := s.storage.ObjectExists(ctx, invoice.AttachmentKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice document was not uploaded")
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, invoice.AttachmentKey, DocumentURLExpiry)
	if err != nil {
		return nil, err
	}
	return &DocumentURLResponse{URL: url, ExpiresAt: expiresAt, Key: invoice.AttachmentKey}, nil
}

var errStorageUnavailable = shared.NewDomainError("STORAGE_UNAVAILABLE", "Document storage is not configured")

// sanitizeFileName keeps the base name and drops characters that would
// break the storage key
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20 || r == '?' || r == '#' || r == '%':
			return -1
		}
		return r
	}, name)
}

func (s *InvoiceService) checkEntry(ctx context.Context, tenantID, entryID uuid.UUID) error {
	if _, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, entryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("Financial entry %s does not exist", entryID)
		}
		return err
	}
	return nil
}

func (s *InvoiceService) checkVendor(ctx context.Context, tenantID, vendorID uuid.UUID) error {
	if _, err := s.vendorRepo.FindByIDForTenant(ctx, tenantID, vendorID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Vendor")
		}
		return err
	}
	return nil
}

func (s *InvoiceService) find(ctx context.Context, tenantID, invoiceID uuid.UUID) (*finance.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Invoice")
		}
		return nil, err
	}
	return invoice, nil
}
