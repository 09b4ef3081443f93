package persistence

import (
	"context"

	"github.com/erp-obras/backend/internal/application/workflow"
	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *tenant.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: tenant.New(db)}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos workflow.TransactionalRepositories) error) error {
	return s.db.Transaction(ctx, func(tx *tenant.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *tenant.DB
}

// ProjectRepo returns the project repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProjectRepo() project.ProjectRepository {
	return newProjectRepository(r.tx)
}

// StageRepo returns the stage repository scoped to the current transaction.
func (r *gormTransactionalRepositories) StageRepo() project.StageRepository {
	return newStageRepository(r.tx)
}

// MeasurementRepo returns the measurement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) MeasurementRepo() project.MeasurementRepository {
	return newMeasurementRepository(r.tx)
}

// QuotationRepo returns the quotation repository scoped to the current transaction.
func (r *gormTransactionalRepositories) QuotationRepo() procurement.QuotationRepository {
	return newQuotationRepository(r.tx)
}

// PurchaseItemRepo returns the purchase item repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PurchaseItemRepo() procurement.PurchaseItemRepository {
	return newPurchaseItemRepository(r.tx)
}

// EntryRepo returns the financial entry repository scoped to the current transaction.
func (r *gormTransactionalRepositories) EntryRepo() finance.FinancialEntryRepository {
	return newFinancialEntryRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ workflow.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ workflow.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
