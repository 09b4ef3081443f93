package persistence

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/models"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseItemRepository implements PurchaseItemRepository using GORM
type GormPurchaseItemRepository struct {
	db *tenant.DB
}

// NewGormPurchaseItemRepository creates a new GormPurchaseItemRepository
func NewGormPurchaseItemRepository(db *gorm.DB) *GormPurchaseItemRepository {
	return newPurchaseItemRepository(tenant.New(db))
}

func newPurchaseItemRepository(db *tenant.DB) *GormPurchaseItemRepository {
	return &GormPurchaseItemRepository{db: db}
}

// FindByIDForTenant finds a purchase item by ID within a tenant
func (r *GormPurchaseItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseItem, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var model models.PurchaseItemModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByProjectForTenant returns the purchase items of a project by planned date
func (r *GormPurchaseItemRepository) FindByProjectForTenant(ctx context.Context, tenantID, projectID uuid.UUID) ([]procurement.PurchaseItem, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var rows []models.PurchaseItemModel
	if err := q.Where("project_id = ?", projectID).Order("planned_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return purchaseItemsToDomain(rows), nil
}

// FindAllForTenant finds purchase items for a tenant
func (r *GormPurchaseItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter procurement.PurchaseItemFilter) ([]procurement.PurchaseItem, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	q = applyPagination(r.applyFilter(q.Model(&models.PurchaseItemModel{}), filter), filter.Filter, PurchaseItemSortFields, "planned_date", "ASC")

	var rows []models.PurchaseItemModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return purchaseItemsToDomain(rows), nil
}

// CountForTenant counts purchase items for a tenant
func (r *GormPurchaseItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter procurement.PurchaseItemFilter) (int64, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.applyFilter(q.Model(&models.PurchaseItemModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a purchase item
func (r *GormPurchaseItemRepository) Save(ctx context.Context, item *procurement.PurchaseItem) error {
	w, err := r.db.Writer(ctx, item.TenantID)
	if err != nil {
		return err
	}
	return w.Save(models.PurchaseItemModelFromDomain(item)).Error
}

// DeleteForTenant deletes a purchase item within a tenant
func (r *GormPurchaseItemRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return deleteResult(q.Where("id = ?", id).Delete(&models.PurchaseItemModel{}))
}

func (r *GormPurchaseItemRepository) applyFilter(query *gorm.DB, filter procurement.PurchaseItemFilter) *gorm.DB {
	query = applySearch(query, filter.Search, "description")
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

func purchaseItemsToDomain(rows []models.PurchaseItemModel) []procurement.PurchaseItem {
	out := make([]procurement.PurchaseItem, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormPurchaseItemRepository implements PurchaseItemRepository
var _ procurement.PurchaseItemRepository = (*GormPurchaseItemRepository)(nil)
