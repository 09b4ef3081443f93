package persistence

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/models"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMeasurementRepository implements MeasurementRepository using GORM
type GormMeasurementRepository struct {
	db *tenant.DB
}

// NewGormMeasurementRepository creates a new GormMeasurementRepository
func NewGormMeasurementRepository(db *gorm.DB) *GormMeasurementRepository {
	return newMeasurementRepository(tenant.New(db))
}

func newMeasurementRepository(db *tenant.DB) *GormMeasurementRepository {
	return &GormMeasurementRepository{db: db}
}

// FindByIDForTenant finds a measurement by ID within a tenant
func (r *GormMeasurementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Measurement, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var model models.MeasurementModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByProjectForTenant returns all measurements of a project, oldest first
func (r *GormMeasurementRepository) FindByProjectForTenant(ctx context.Context, tenantID, projectID uuid.UUID) ([]project.Measurement, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var rows []models.MeasurementModel
	if err := q.Where("project_id = ?", projectID).Order("measured_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return measurementsToDomain(rows), nil
}

// FindAllForTenant finds measurements for a tenant
func (r *GormMeasurementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter project.MeasurementFilter) ([]project.Measurement, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	q = applyPagination(r.applyFilter(q.Model(&models.MeasurementModel{}), filter), filter.Filter, MeasurementSortFields, "measured_at", "DESC")

	var rows []models.MeasurementModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return measurementsToDomain(rows), nil
}

// CountForTenant counts measurements for a tenant
func (r *GormMeasurementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter project.MeasurementFilter) (int64, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.applyFilter(q.Model(&models.MeasurementModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a measurement
func (r *GormMeasurementRepository) Save(ctx context.Context, m *project.Measurement) error {
	w, err := r.db.Writer(ctx, m.TenantID)
	if err != nil {
		return err
	}
	return w.Save(models.MeasurementModelFromDomain(m)).Error
}

// DeleteForTenant deletes a measurement within a tenant
func (r *GormMeasurementRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return deleteResult(q.Where("id = ?", id).Delete(&models.MeasurementModel{}))
}

func (r *GormMeasurementRepository) applyFilter(query *gorm.DB, filter project.MeasurementFilter) *gorm.DB {
	query = applySearch(query, filter.Search, "description")
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.StageID != nil {
		query = query.Where("stage_id = ?", *filter.StageID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

func measurementsToDomain(rows []models.MeasurementModel) []project.Measurement {
	out := make([]project.Measurement, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormMeasurementRepository implements MeasurementRepository
var _ project.MeasurementRepository = (*GormMeasurementRepository)(nil)
