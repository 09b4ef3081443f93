package persistence

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/partner"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/models"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *tenant.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: tenant.New(db)}
}

// FindByIDForTenant finds a client by ID within a tenant
func (r *GormClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var model models.ClientModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all clients for a tenant
func (r *GormClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.ClientFilter) ([]partner.Client, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	q = applySearch(q.Model(&models.ClientModel{}), filter.Search, "name", "email", "document")
	q = applyPagination(q, filter.Filter, ClientSortFields, "name", "ASC")

	var rows []models.ClientModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	clients := make([]partner.Client, len(rows))
	for i := range rows {
		clients[i] = *rows[i].ToDomain()
	}
	return clients, nil
}

// CountForTenant counts clients for a tenant
func (r *GormClientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.ClientFilter) (int64, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	var count int64
	q = applySearch(q.Model(&models.ClientModel{}), filter.Search, "name", "email", "document")
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, c *partner.Client) error {
	w, err := r.db.Writer(ctx, c.TenantID)
	if err != nil {
		return err
	}
	return w.Save(models.ClientModelFromDomain(c)).Error
}

// DeleteForTenant deletes a client within a tenant
func (r *GormClientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return deleteResult(q.Where("id = ?", id).Delete(&models.ClientModel{}))
}

// Ensure GormClientRepository implements ClientRepository
var _ partner.ClientRepository = (*GormClientRepository)(nil)
