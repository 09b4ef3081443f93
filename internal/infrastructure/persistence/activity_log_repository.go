package persistence

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/activity"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/models"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormActivityLogRepository implements activity.Repository using GORM
type GormActivityLogRepository struct {
	db *tenant.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: tenant.New(db)}
}

// Append inserts an audit row
func (r *GormActivityLogRepository) Append(ctx context.Context, entry *activity.Entry) error {
	w, err := r.db.Writer(ctx, entry.TenantID)
	if err != nil {
		return err
	}
	model, err := models.ActivityLogModelFromDomain(entry)
	if err != nil {
		return err
	}
	return w.Create(model).Error
}

// FindByIDForTenant finds an audit row by ID within a tenant
func (r *GormActivityLogRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*activity.Entry, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var model models.ActivityLogModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// ListForTenant returns the most recent rows, capped at activity.MaxListSize
func (r *GormActivityLogRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter activity.Filter) ([]activity.Entry, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != nil {
		q = q.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}

	var rows []models.ActivityLogModel
	if err := q.Order("created_at DESC").Limit(filter.EffectiveLimit()).Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]activity.Entry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, nil
}

// Ensure GormActivityLogRepository implements activity.Repository
var _ activity.Repository = (*GormActivityLogRepository)(nil)
