package persistence

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/models"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *tenant.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return newProjectRepository(tenant.New(db))
}

func newProjectRepository(db *tenant.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByIDForTenant finds a project by ID within a tenant
func (r *GormProjectRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var model models.ProjectModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all projects for a tenant
func (r *GormProjectRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter project.ProjectFilter) ([]project.Project, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	q = applyPagination(r.applyFilter(q.Model(&models.ProjectModel{}), filter), filter.Filter, ProjectSortFields, "created_at", "DESC")

	var rows []models.ProjectModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	projects := make([]project.Project, len(rows))
	for i := range rows {
		projects[i] = *rows[i].ToDomain()
	}
	return projects, nil
}

// CountForTenant counts projects for a tenant
func (r *GormProjectRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter project.ProjectFilter) (int64, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.applyFilter(q.Model(&models.ProjectModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByClientNameForTenant counts projects referencing a client name
func (r *GormProjectRepository) CountByClientNameForTenant(ctx context.Context, tenantID uuid.UUID, clientName string) (int64, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := q.Model(&models.ProjectModel{}).Where("client_name = ?", clientName).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	w, err := r.db.Writer(ctx, p.TenantID)
	if err != nil {
		return err
	}
	return w.Save(models.ProjectModelFromDomain(p)).Error
}

// DeleteForTenant deletes a project within a tenant
func (r *GormProjectRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return deleteResult(q.Where("id = ?", id).Delete(&models.ProjectModel{}))
}

func (r *GormProjectRepository) applyFilter(query *gorm.DB, filter project.ProjectFilter) *gorm.DB {
	query = applySearch(query, filter.Search, "name", "client_name", "city")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ClientName != "" {
		query = query.Where("client_name = ?", filter.ClientName)
	}
	return query
}

// Ensure GormProjectRepository implements ProjectRepository
var _ project.ProjectRepository = (*GormProjectRepository)(nil)
