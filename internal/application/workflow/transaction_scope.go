package workflow

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/domain/project"
)

// TransactionScope defines the interface for executing operations within a transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories touched by
// multi-record writes. All repositories returned share the same underlying
// database transaction and keep the tenant filter.
type TransactionalRepositories interface {
	// ProjectRepo returns the project repository scoped to the current transaction
	ProjectRepo() project.ProjectRepository
	// StageRepo returns the stage repository scoped to the current transaction
	StageRepo() project.StageRepository
	// MeasurementRepo returns the measurement repository scoped to the current transaction
	MeasurementRepo() project.MeasurementRepository
	// QuotationRepo returns the quotation repository scoped to the current transaction
	QuotationRepo() procurement.QuotationRepository
	// PurchaseItemRepo returns the purchase item repository scoped to the current transaction
	PurchaseItemRepo() procurement.PurchaseItemRepository
	// EntryRepo returns the financial entry repository scoped to the current transaction
	EntryRepo() finance.FinancialEntryRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	projectRepo      project.ProjectRepository
	stageRepo        project.StageRepository
	measurementRepo  project.MeasurementRepository
	quotationRepo    procurement.QuotationRepository
	purchaseItemRepo procurement.PurchaseItemRepository
	entryRepo        finance.FinancialEntryRepository
}

// Repositories groups the repositories handed to NewNoOpTransactionScope
type Repositories struct {
	Projects      project.ProjectRepository
	Stages        project.StageRepository
	Measurements  project.MeasurementRepository
	Quotations    procurement.QuotationRepository
	PurchaseItems procurement.PurchaseItemRepository
	Entries       finance.FinancialEntryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		projectRepo:      repos.Projects,
		stageRepo:        repos.Stages,
		measurementRepo:  repos.Measurements,
		quotationRepo:    repos.Quotations,
		purchaseItemRepo: repos.PurchaseItems,
		entryRepo:        repos.Entries,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProjectRepo returns the project repository.
func (s *NoOpTransactionScope) ProjectRepo() project.ProjectRepository { return s.projectRepo }

// StageRepo returns the stage repository.
func (s *NoOpTransactionScope) StageRepo() project.StageRepository { return s.stageRepo }

// MeasurementRepo returns the measurement repository.
func (s *NoOpTransactionScope) MeasurementRepo() project.MeasurementRepository {
	return s.measurementRepo
}

// QuotationRepo returns the quotation repository.
func (s *NoOpTransactionScope) QuotationRepo() procurement.QuotationRepository {
	return s.quotationRepo
}

// PurchaseItemRepo returns the purchase item repository.
func (s *NoOpTransactionScope) PurchaseItemRepo() procurement.PurchaseItemRepository {
	return s.purchaseItemRepo
}

// EntryRepo returns the financial entry repository.
func (s *NoOpTransactionScope) EntryRepo() finance.FinancialEntryRepository { return s.entryRepo }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
