package finance

import (
	"context"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntryFilter defines filtering options for financial entry queries
type EntryFilter struct {
	shared.Filter
	ProjectID *uuid.UUID
	VendorID  *uuid.UUID
	Type      *EntryType
	Status    *EntryStatus
	DueFrom   *time.Time // inclusive
	DueTo     *time.Time // inclusive
}

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	ProjectID *uuid.UUID
	VendorID  *uuid.UUID
	EntryID   *uuid.UUID
}

// FinancialEntryRepository defines the interface for financial entry persistence
type FinancialEntryRepository interface {
	// FindByIDForTenant finds an entry by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FinancialEntry, error)
	// FindByProjectForTenant returns all entries of a project
	FindByProjectForTenant(ctx context.Context, tenantID, projectID uuid.UUID) ([]FinancialEntry, error)
	// FindAllForTenant finds entries for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter EntryFilter) ([]FinancialEntry, error)
	// FindByDueDateRange returns a project's entries due within [from, to], latest due date first
	FindByDueDateRange(ctx context.Context, tenantID, projectID uuid.UUID, from, to time.Time) ([]FinancialEntry, error)
	// CountForTenant counts entries for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter EntryFilter) (int64, error)
	// MarkOverdueForTenant flips PENDING entries due strictly before today to OVERDUE
	// and returns the number of rows changed
	MarkOverdueForTenant(ctx context.Context, tenantID uuid.UUID, today time.Time) (int64, error)
	// Save creates or updates an entry
	Save(ctx context.Context, e *FinancialEntry) error
	// DeleteForTenant deletes an entry within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForTenant finds an invoice by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	// FindAllForTenant finds invoices for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)
	// CountForTenant counts invoices for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) (int64, error)
	// Save creates or updates an invoice
	Save(ctx context.Context, i *Invoice) error
	// DeleteForTenant deletes an invoice within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
