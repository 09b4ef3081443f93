package partner

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VendorFilter defines filtering options for vendor queries
type VendorFilter struct {
	shared.Filter
	Active *bool
}

// ClientFilter defines filtering options for client queries
type ClientFilter struct {
	shared.Filter
}

// VendorRepository defines the interface for vendor persistence
type VendorRepository interface {
	// FindByIDForTenant finds a vendor by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Vendor, error)
	// FindAllForTenant finds all vendors for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter VendorFilter) ([]Vendor, error)
	// CountForTenant counts vendors for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter VendorFilter) (int64, error)
	// Save creates or updates a vendor
	Save(ctx context.Context, v *Vendor) error
	// DeleteForTenant deletes a vendor within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByIDForTenant finds a client by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	// FindAllForTenant finds all clients for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ClientFilter) ([]Client, error)
	// CountForTenant counts clients for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ClientFilter) (int64, error)
	// Save creates or updates a client
	Save(ctx context.Context, c *Client) error
	// DeleteForTenant deletes a client within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
