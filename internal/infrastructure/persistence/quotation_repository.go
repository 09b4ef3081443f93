package persistence

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/models"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *tenant.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return newQuotationRepository(tenant.New(db))
}

func newQuotationRepository(db *tenant.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByIDForTenant finds a quotation by ID within a tenant
func (r *GormQuotationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.Quotation, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var model models.QuotationModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds quotations for a tenant
func (r *GormQuotationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter procurement.QuotationFilter) ([]procurement.Quotation, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	q = applyPagination(r.applyFilter(q.Model(&models.QuotationModel{}), filter), filter.Filter, QuotationSortFields, "created_at", "DESC")

	var rows []models.QuotationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	quotations := make([]procurement.Quotation, len(rows))
	for i := range rows {
		quotations[i] = *rows[i].ToDomain()
	}
	return quotations, nil
}

// CountForTenant counts quotations for a tenant
func (r *GormQuotationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter procurement.QuotationFilter) (int64, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.applyFilter(q.Model(&models.QuotationModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a quotation
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *procurement.Quotation) error {
	w, err := r.db.Writer(ctx, quotation.TenantID)
	if err != nil {
		return err
	}
	return w.Save(models.QuotationModelFromDomain(quotation)).Error
}

// DeleteForTenant deletes a quotation within a tenant
func (r *GormQuotationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return deleteResult(q.Where("id = ?", id).Delete(&models.QuotationModel{}))
}

func (r *GormQuotationRepository) applyFilter(query *gorm.DB, filter procurement.QuotationFilter) *gorm.DB {
	query = applySearch(query, filter.Search, "description")
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// Ensure GormQuotationRepository implements QuotationRepository
var _ procurement.QuotationRepository = (*GormQuotationRepository)(nil)
