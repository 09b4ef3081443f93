package testutil

import (
	"context"
	"time"

	"github.com/erp-obras/backend/internal/domain/activity"
	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/identity"
	"github.com/erp-obras/backend/internal/domain/partner"
	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProjectRepository is a mock implementation of project.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter project.ProjectFilter) ([]project.Project, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter project.ProjectFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) CountByClientNameForTenant(ctx context.Context, tenantID uuid.UUID, clientName string) (int64, error) {
	args := m.Called(ctx, tenantID, clientName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, entity *project.Project) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockProjectRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockStageRepository is a mock implementation of project.StageRepository
type MockStageRepository struct {
	mock.Mock
}

func (m *MockStageRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Stage, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Stage), args.Error(1)
}

func (m *MockStageRepository) FindByProjectForTenant(ctx context.Context, tenantID, projectID uuid.UUID) ([]project.Stage, error) {
	args := m.Called(ctx, tenantID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Stage), args.Error(1)
}

func (m *MockStageRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter project.StageFilter) ([]project.Stage, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Stage), args.Error(1)
}

func (m *MockStageRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter project.StageFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStageRepository) Save(ctx context.Context, entity *project.Stage) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockStageRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockMeasurementRepository is a mock implementation of project.MeasurementRepository
type MockMeasurementRepository struct {
	mock.Mock
}

func (m *MockMeasurementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Measurement, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Measurement), args.Error(1)
}

func (m *MockMeasurementRepository) FindByProjectForTenant(ctx context.Context, tenantID, projectID uuid.UUID) ([]project.Measurement, error) {
	args := m.Called(ctx, tenantID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Measurement), args.Error(1)
}

func (m *MockMeasurementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter project.MeasurementFilter) ([]project.Measurement, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Measurement), args.Error(1)
}

func (m *MockMeasurementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter project.MeasurementFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMeasurementRepository) Save(ctx context.Context, entity *project.Measurement) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockMeasurementRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockCommentRepository is a mock implementation of project.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Comment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter project.CommentFilter) ([]project.Comment, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Comment), args.Error(1)
}

func (m *MockCommentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter project.CommentFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) Save(ctx context.Context, entity *project.Comment) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockCommentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockWeeklyReportRepository is a mock implementation of project.WeeklyReportRepository
type MockWeeklyReportRepository struct {
	mock.Mock
}

func (m *MockWeeklyReportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.WeeklyReport, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.WeeklyReport), args.Error(1)
}

func (m *MockWeeklyReportRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter project.WeeklyReportFilter) ([]project.WeeklyReport, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.WeeklyReport), args.Error(1)
}

func (m *MockWeeklyReportRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter project.WeeklyReportFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWeeklyReportRepository) Save(ctx context.Context, entity *project.WeeklyReport) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockWeeklyReportRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockQuotationRepository is a mock implementation of procurement.QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.Quotation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter procurement.QuotationFilter) ([]procurement.Quotation, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter procurement.QuotationFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuotationRepository) Save(ctx context.Context, entity *procurement.Quotation) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockQuotationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockPurchaseItemRepository is a mock implementation of procurement.PurchaseItemRepository
type MockPurchaseItemRepository struct {
	mock.Mock
}

func (m *MockPurchaseItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseItem, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseItem), args.Error(1)
}

func (m *MockPurchaseItemRepository) FindByProjectForTenant(ctx context.Context, tenantID, projectID uuid.UUID) ([]procurement.PurchaseItem, error) {
	args := m.Called(ctx, tenantID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseItem), args.Error(1)
}

func (m *MockPurchaseItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter procurement.PurchaseItemFilter) ([]procurement.PurchaseItem, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseItem), args.Error(1)
}

func (m *MockPurchaseItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter procurement.PurchaseItemFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseItemRepository) Save(ctx context.Context, entity *procurement.PurchaseItem) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockPurchaseItemRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockFinancialEntryRepository is a mock implementation of finance.FinancialEntryRepository
type MockFinancialEntryRepository struct {
	mock.Mock
}

func (m *MockFinancialEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.FinancialEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) FindByProjectForTenant(ctx context.Context, tenantID, projectID uuid.UUID) ([]finance.FinancialEntry, error) {
	args := m.Called(ctx, tenantID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.EntryFilter) ([]finance.FinancialEntry, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.EntryFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFinancialEntryRepository) FindByDueDateRange(ctx context.Context, tenantID, projectID uuid.UUID, from, to time.Time) ([]finance.FinancialEntry, error) {
	args := m.Called(ctx, tenantID, projectID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) MarkOverdueForTenant(ctx context.Context, tenantID uuid.UUID, today time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFinancialEntryRepository) Save(ctx context.Context, entity *finance.FinancialEntry) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockFinancialEntryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of finance.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, entity *finance.Invoice) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockVendorRepository is a mock implementation of partner.VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Vendor, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.VendorFilter) ([]partner.Vendor, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Vendor), args.Error(1)
}

func (m *MockVendorRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.VendorFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVendorRepository) Save(ctx context.Context, entity *partner.Vendor) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockVendorRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockClientRepository is a mock implementation of partner.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.ClientFilter) ([]partner.Client, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.ClientFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, entity *partner.Client) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter identity.UserFilter) ([]identity.User, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter identity.UserFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountAdminsForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockCompanyRepository is a mock implementation of identity.CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAllActive(ctx context.Context) ([]identity.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Company), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *identity.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

// MockActivityRepository is a mock implementation of activity.Repository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*activity.Entry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*activity.Entry), args.Error(1)
}

func (m *MockActivityRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter activity.Filter) ([]activity.Entry, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]activity.Entry), args.Error(1)
}

// Ensure mocks implement the repository interfaces
var (
	_ project.ProjectRepository          = (*MockProjectRepository)(nil)
	_ project.StageRepository            = (*MockStageRepository)(nil)
	_ project.MeasurementRepository      = (*MockMeasurementRepository)(nil)
	_ project.CommentRepository          = (*MockCommentRepository)(nil)
	_ project.WeeklyReportRepository     = (*MockWeeklyReportRepository)(nil)
	_ procurement.QuotationRepository    = (*MockQuotationRepository)(nil)
	_ procurement.PurchaseItemRepository = (*MockPurchaseItemRepository)(nil)
	_ finance.FinancialEntryRepository   = (*MockFinancialEntryRepository)(nil)
	_ finance.InvoiceRepository          = (*MockInvoiceRepository)(nil)
	_ partner.VendorRepository           = (*MockVendorRepository)(nil)
	_ partner.ClientRepository           = (*MockClientRepository)(nil)
	_ identity.UserRepository            = (*MockUserRepository)(nil)
	_ identity.CompanyRepository         = (*MockCompanyRepository)(nil)
	_ activity.Repository                = (*MockActivityRepository)(nil)
)

// MockRegistrationStore is a mock implementation of identity.RegistrationStore
type MockRegistrationStore struct {
	mock.Mock
}

func (m *MockRegistrationStore) Register(ctx context.Context, company *identity.Company, admin *identity.User) error {
	args := m.Called(ctx, company, admin)
	return args.Error(0)
}

var _ identity.RegistrationStore = (*MockRegistrationStore)(nil)
