package persistence

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/models"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWeeklyReportRepository implements WeeklyReportRepository using GORM
type GormWeeklyReportRepository struct {
	db *tenant.DB
}

// NewGormWeeklyReportRepository creates a new GormWeeklyReportRepository
func NewGormWeeklyReportRepository(db *gorm.DB) *GormWeeklyReportRepository {
	return &GormWeeklyReportRepository{db: tenant.New(db)}
}

// FindByIDForTenant finds a weekly report by ID within a tenant
func (r *GormWeeklyReportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.WeeklyReport, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var model models.WeeklyReportModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists weekly reports, latest week first
func (r *GormWeeklyReportRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter project.WeeklyReportFilter) ([]project.WeeklyReport, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	q = q.Model(&models.WeeklyReportModel{})
	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}
	q = applyPagination(q, filter.Filter, WeeklyReportSortFields, "week_start", "DESC")

	var rows []models.WeeklyReportModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	reports := make([]project.WeeklyReport, len(rows))
	for i := range rows {
		reports[i] = *rows[i].ToDomain()
	}
	return reports, nil
}

// CountForTenant counts weekly reports for a tenant
func (r *GormWeeklyReportRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter project.WeeklyReportFilter) (int64, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	q = q.Model(&models.WeeklyReportModel{})
	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a weekly report
func (r *GormWeeklyReportRepository) Save(ctx context.Context, rep *project.WeeklyReport) error {
	w, err := r.db.Writer(ctx, rep.TenantID)
	if err != nil {
		return err
	}
	return w.Save(models.WeeklyReportModelFromDomain(rep)).Error
}

// DeleteForTenant deletes a weekly report within a tenant
func (r *GormWeeklyReportRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return deleteResult(q.Where("id = ?", id).Delete(&models.WeeklyReportModel{}))
}

// Ensure GormWeeklyReportRepository implements WeeklyReportRepository
var _ project.WeeklyReportRepository = (*GormWeeklyReportRepository)(nil)
