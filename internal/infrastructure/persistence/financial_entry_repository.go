package persistence

import (
	"context"
	"time"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/models"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFinancialEntryRepository implements FinancialEntryRepository using GORM
type GormFinancialEntryRepository struct {
	db *tenant.DB
}

// NewGormFinancialEntryRepository creates a new GormFinancialEntryRepository
func NewGormFinancialEntryRepository(db *gorm.DB) *GormFinancialEntryRepository {
	return newFinancialEntryRepository(tenant.New(db))
}

func newFinancialEntryRepository(db *tenant.DB) *GormFinancialEntryRepository {
	return &GormFinancialEntryRepository{db: db}
}

// FindByIDForTenant finds an entry by ID within a tenant
func (r *GormFinancialEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.FinancialEntry, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var model models.FinancialEntryModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByProjectForTenant returns all entries of a project
func (r *GormFinancialEntryRepository) FindByProjectForTenant(ctx context.Context, tenantID, projectID uuid.UUID) ([]finance.FinancialEntry, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var rows []models.FinancialEntryModel
	if err := q.Where("project_id = ?", projectID).Order("due_date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return entriesToDomain(rows), nil
}

// FindAllForTenant finds entries for a tenant
func (r *GormFinancialEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.EntryFilter) ([]finance.FinancialEntry, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	q = applyPagination(r.applyFilter(q.Model(&models.FinancialEntryModel{}), filter), filter.Filter, EntrySortFields, "due_date", "DESC")

	var rows []models.FinancialEntryModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return entriesToDomain(rows), nil
}

// FindByDueDateRange returns a project's entries due within [from, to],
// latest due date first
func (r *GormFinancialEntryRepository) FindByDueDateRange(ctx context.Context, tenantID, projectID uuid.UUID, from, to time.Time) ([]finance.FinancialEntry, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var rows []models.FinancialEntryModel
	if err := q.Where("project_id = ? AND due_date >= ? AND due_date <= ?", projectID, shared.DateOf(from), shared.DateOf(to)).
		Order("due_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return entriesToDomain(rows), nil
}

// CountForTenant counts entries for a tenant
func (r *GormFinancialEntryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.EntryFilter) (int64, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.applyFilter(q.Model(&models.FinancialEntryModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkOverdueForTenant flips PENDING entries due strictly before today to
// OVERDUE in one statement. Running it again changes nothing.
func (r *GormFinancialEntryRepository) MarkOverdueForTenant(ctx context.Context, tenantID uuid.UUID, today time.Time) (int64, error) {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	result := q.Model(&models.FinancialEntryModel{}).
		Where("status = ? AND due_date < ?", finance.EntryStatusPending, shared.DateOf(today)).
		Updates(map[string]any{
			"status":     finance.EntryStatusOverdue,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Save creates or updates an entry
func (r *GormFinancialEntryRepository) Save(ctx context.Context, e *finance.FinancialEntry) error {
	w, err := r.db.Writer(ctx, e.TenantID)
	if err != nil {
		return err
	}
	return w.Save(models.FinancialEntryModelFromDomain(e)).Error
}

// DeleteForTenant deletes an entry within a tenant
func (r *GormFinancialEntryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	q, err := r.db.ForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return deleteResult(q.Where("id = ?", id).Delete(&models.FinancialEntryModel{}))
}

func (r *GormFinancialEntryRepository) applyFilter(query *gorm.DB, filter finance.EntryFilter) *gorm.DB {
	query = applySearch(query, filter.Search, "description", "category")
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", shared.DateOf(*filter.DueFrom))
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", shared.DateOf(*filter.DueTo))
	}
	return query
}

func entriesToDomain(rows []models.FinancialEntryModel) []finance.FinancialEntry {
	out := make([]finance.FinancialEntry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormFinancialEntryRepository implements FinancialEntryRepository
var _ finance.FinancialEntryRepository = (*GormFinancialEntryRepository)(nil)
