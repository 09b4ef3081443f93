package persistence

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/models"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCommentRepository implements CommentRepository using GORM
type GormCommentRepository struct {
	db *tenant.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: tenant.New(db)}
}

// FindByIDForTenant finds a comment by ID within a tenant
func (r *GormCommentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Comment, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var model models.CommentModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists comments, newest first. Hidden comments are
// excluded unless requested.
func (r *GormCommentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter project.CommentFilter) ([]project.Comment, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	q = applyPagination(r.applyFilter(q.Model(&models.CommentModel{}), filter), filter.Filter, CommentSortFields, "created_at", "DESC")

	var rows []models.CommentModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	comments := make([]project.Comment, len(rows))
	for i := range rows {
		comments[i] = *rows[i].ToDomain()
	}
	return comments, nil
}

// CountForTenant counts comments for a tenant
func (r *GormCommentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter project.CommentFilter) (int64, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.applyFilter(q.Model(&models.CommentModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a comment
func (r *GormCommentRepository) Save(ctx context.Context, c *project.Comment) error {
	w, err := r.db.Writer(ctx, c.TenantID)
	if err != nil {
		return err
	}
	return w.Save(models.CommentModelFromDomain(c)).Error
}

// DeleteForTenant deletes a comment within a tenant
func (r *GormCommentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return deleteResult(q.Where("id = ?", id).Delete(&models.CommentModel{}))
}

func (r *GormCommentRepository) applyFilter(query *gorm.DB, filter project.CommentFilter) *gorm.DB {
	query = applySearch(query, filter.Search, "text", "author_name")
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if !filter.IncludeHidden {
		query = query.Where("hidden = ?", false)
	}
	return query
}

// Ensure GormCommentRepository implements CommentRepository
var _ project.CommentRepository = (*GormCommentRepository)(nil)
