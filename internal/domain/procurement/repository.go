package procurement

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// QuotationFilter defines filtering options for quotation queries
type QuotationFilter struct {
	shared.Filter
	ProjectID *uuid.UUID
	VendorID  *uuid.UUID
	Status    *QuotationStatus
}

// PurchaseItemFilter defines filtering options for purchase item queries
type PurchaseItemFilter struct {
	shared.Filter
	ProjectID *uuid.UUID
	Status    *PurchaseStatus
}

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	// FindByIDForTenant finds a quotation by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quotation, error)
	// FindAllForTenant finds quotations for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter QuotationFilter) ([]Quotation, error)
	// CountForTenant counts quotations for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter QuotationFilter) (int64, error)
	// Save creates or updates a quotation
	Save(ctx context.Context, q *Quotation) error
	// DeleteForTenant deletes a quotation within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PurchaseItemRepository defines the interface for purchase item persistence
type PurchaseItemRepository interface {
	// FindByIDForTenant finds a purchase item by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseItem, error)
	// FindByProjectForTenant returns all purchase items of a project
	FindByProjectForTenant(ctx context.Context, tenantID, projectID uuid.UUID) ([]PurchaseItem, error)
	// FindAllForTenant finds purchase items for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PurchaseItemFilter) ([]PurchaseItem, error)
	// CountForTenant counts purchase items for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PurchaseItemFilter) (int64, error)
	// Save creates or updates a purchase item
	Save(ctx context.Context, i *PurchaseItem) error
	// DeleteForTenant deletes a purchase item within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
