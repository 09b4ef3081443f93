package persistence

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/models"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *tenant.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: tenant.New(db)}
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var model models.InvoiceModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds invoices for a tenant
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	q = applyPagination(r.applyFilter(q.Model(&models.InvoiceModel{}), filter), filter.Filter, InvoiceSortFields, "issue_date", "DESC")

	var rows []models.InvoiceModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]finance.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// CountForTenant counts invoices for a tenant
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) (int64, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.applyFilter(q.Model(&models.InvoiceModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, i *finance.Invoice) error {
	w, err := r.db.Writer(ctx, i.TenantID)
	if err != nil {
		return err
	}
	return w.Save(models.InvoiceModelFromDomain(i)).Error
}

// DeleteForTenant deletes an invoice within a tenant
func (r *GormInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return deleteResult(q.Where("id = ?", id).Delete(&models.InvoiceModel{}))
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter finance.InvoiceFilter) *gorm.DB {
	query = applySearch(query, filter.Search, "number")
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.EntryID != nil {
		query = query.Where("entry_id = ?", *filter.EntryID)
	}
	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
