package persistence

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/models"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStageRepository implements StageRepository using GORM
type GormStageRepository struct {
	db *tenant.DB
}

// NewGormStageRepository creates a new GormStageRepository
func NewGormStageRepository(db *gorm.DB) *GormStageRepository {
	return newStageRepository(tenant.New(db))
}

func newStageRepository(db *tenant.DB) *GormStageRepository {
	return &GormStageRepository{db: db}
}

// FindByIDForTenant finds a stage by ID within a tenant
func (r *GormStageRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Stage, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var model models.StageModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByProjectForTenant returns the stages of a project by display order
func (r *GormStageRepository) FindByProjectForTenant(ctx context.Context, tenantID, projectID uuid.UUID) ([]project.Stage, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var rows []models.StageModel
	if err := q.Where("project_id = ?", projectID).
		Order("sort_order ASC, start_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return stagesToDomain(rows), nil
}

// FindAllForTenant finds stages for a tenant
func (r *GormStageRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter project.StageFilter) ([]project.Stage, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	q = applyPagination(r.applyFilter(q.Model(&models.StageModel{}), filter), filter.Filter, StageSortFields, "sort_order", "ASC")

	var rows []models.StageModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return stagesToDomain(rows), nil
}

// CountForTenant counts stages for a tenant
func (r *GormStageRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter project.StageFilter) (int64, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.applyFilter(q.Model(&models.StageModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a stage
func (r *GormStageRepository) Save(ctx context.Context, s *project.Stage) error {
	w, err := r.db.Writer(ctx, s.TenantID)
	if err != nil {
		return err
	}
	return w.Save(models.StageModelFromDomain(s)).Error
}

// DeleteForTenant deletes a stage within a tenant
func (r *GormStageRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return deleteResult(q.Where("id = ?", id).Delete(&models.StageModel{}))
}

func (r *GormStageRepository) applyFilter(query *gorm.DB, filter project.StageFilter) *gorm.DB {
	query = applySearch(query, filter.Search, "name")
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	return query
}

func stagesToDomain(rows []models.StageModel) []project.Stage {
	stages := make([]project.Stage, len(rows))
	for i := range rows {
		stages[i] = *rows[i].ToDomain()
	}
	return stages
}

// Ensure GormStageRepository implements StageRepository
var _ project.StageRepository = (*GormStageRepository)(nil)
