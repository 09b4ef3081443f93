// Package tenant provides the tenant-scoped database handle every
// repository goes through. A query cannot be built without a company id.
package tenant

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrMissingTenant is returned when a query is attempted without a tenant
var ErrMissingTenant = shared.NewDomainError("TENANT_REQUIRED", "Tenant ID is required")

// DB wraps a gorm handle (or transaction) and hands out tenant-filtered sessions
type DB struct {
	db *gorm.DB
}

// New creates a tenant-scoped handle over db
func New(db *gorm.DB) *DB {
	return &DB{db: db}
}

// ForTenant returns a fresh session filtered by tenant_id. Use it for
// reads, updates and deletes.
func (t *DB) ForTenant(ctx context.Context, tenantID uuid.UUID) (*gorm.DB, error) {
	if tenantID == uuid.Nil {
		return nil, ErrMissingTenant
	}
	return t.db.WithContext(ctx).Where("tenant_id = ?", tenantID), nil
}

// Writer returns an unfiltered session for inserts and upserts of records
// that already carry tenantID. The tenant is still checked.
func (t *DB) Writer(ctx context.Context, tenantID uuid.UUID) (*gorm.DB, error) {
	if tenantID == uuid.Nil {
		return nil, ErrMissingTenant
	}
	return t.db.WithContext(ctx), nil
}

// Global returns an unscoped session. Only identity lookups that resolve
// the tenant itself (login by email, company sweeps) may use it.
func (t *DB) Global(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx)
}

// Transaction runs fn inside a database transaction with a scoped handle
// bound to it
func (t *DB) Transaction(ctx context.Context, fn func(tx *DB) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
