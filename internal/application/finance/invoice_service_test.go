package finance

import (
	"context"
	"testing"
	"time"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/partner"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockObjectStorage struct {
	mock.Mock
}

func (m *mockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	return m.Called(ctx, storageKey).Error(0)
}

func (m *mockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

type invoiceFixture struct {
	service  *InvoiceService
	invoices *testutil.MockInvoiceRepository
	entries  *testutil.MockFinancialEntryRepository
	projects *testutil.MockProjectRepository
	vendors  *testutil.MockVendorRepository
	storage  *mockObjectStorage
}

func newInvoiceFixture() *invoiceFixture {
	f := &invoiceFixture{
		invoices: new(testutil.MockInvoiceRepository),
		entries:  new(testutil.MockFinancialEntryRepository),
		projects: new(testutil.MockProjectRepository),
		vendors:  new(testutil.MockVendorRepository),
		storage:  new(mockObjectStorage),
	}
	f.service = NewInvoiceService(f.invoices, f.entries, f.projects, f.vendors, f.storage, zap.NewNop())
	return f
}

func newTestInvoice(t *testing.T, tenantID uuid.UUID) *finance.Invoice {
	t.Helper()
	inv, err := finance.NewInvoice(tenantID, uuid.New(), finance.InvoiceDetails{
		Number:    "NF-000123",
		VendorID:  uuid.New(),
		Amount:    decimal.NewFromInt(18400),
		IssueDate: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		EntryID:   uuid.New(),
	})
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	projectID, vendorID, entryID := uuid.New(), uuid.New(), uuid.New()
	req := CreateInvoiceRequest{
		ProjectID: projectID,
		Number:    "NF-4471",
		VendorID:  vendorID,
		Amount:    decimal.NewFromInt(9200),
		IssueDate: "2024-06-04",
		EntryID:   entryID,
	}

	t.Run("entry of the company", func(t *testing.T) {
		f := newInvoiceFixture()
		f.projects.On("FindByIDForTenant", ctx, tenantID, projectID).Return(&project.Project{}, nil)
		f.vendors.On("FindByIDForTenant", ctx, tenantID, vendorID).Return(&partner.Vendor{}, nil)
		f.entries.On("FindByIDForTenant", ctx, tenantID, entryID).Return(&finance.FinancialEntry{}, nil)
		f.invoices.On("Save", ctx, mock.AnythingOfType("*finance.Invoice")).Return(nil)

		resp, err := f.service.Create(ctx, tenantID, req)

		require.NoError(t, err)
		assert.Equal(t, "NF-4471", resp.Number)
		assert.Equal(t, entryID, resp.EntryID)
		assert.False(t, resp.HasDocument)
	})

	t.Run("entry missing in the company", func(t *testing.T) {
		f := newInvoiceFixture()
		f.projects.On("FindByIDForTenant", ctx, tenantID, projectID).Return(&project.Project{}, nil)
		f.vendors.On("FindByIDForTenant", ctx, tenantID, vendorID).Return(&partner.Vendor{}, nil)
		f.entries.On("FindByIDForTenant", ctx, tenantID, entryID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, tenantID, req)

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		f.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_Documents(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	expires := time.Date(2024, 6, 10, 12, 15, 0, 0, time.UTC)

	t.Run("upload url records the key", func(t *testing.T) {
		f := newInvoiceFixture()
		inv := newTestInvoice(t, tenantID)
		key := inv.DocumentKey("nota_junho.pdf")
		f.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
		f.storage.On("GenerateUploadURL", ctx, key, "application/pdf", DocumentURLExpiry).
			Return("https://s3.local/put", expires, nil)
		f.invoices.On("Save", ctx, inv).Return(nil)

		resp, err := f.service.RequestDocumentUpload(ctx, tenantID, inv.ID, DocumentUploadRequest{
			FileName:    "../nota junho.pdf",
			ContentType: "application/pdf",
		})

		require.NoError(t, err)
		assert.Equal(t, key, resp.Key)
		assert.Equal(t, "https://s3.local/put", resp.URL)
		assert.True(t, inv.HasDocument())
	})

	t.Run("download without document", func(t *testing.T) {
		f := newInvoiceFixture()
		inv := newTestInvoice(t, tenantID)
		f.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)

		_, err := f.service.GetDocumentURL(ctx, tenantID, inv.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("download url", func(t *testing.T) {
		f := newInvoiceFixture()
		inv := newTestInvoice(t, tenantID)
		inv.AttachDocument(inv.DocumentKey("nf.pdf"))
		f.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
		f.storage.On("ObjectExists", ctx, inv.AttachmentKey).Return(true, nil)
		f.storage.On("GenerateDownloadURL", ctx, inv.AttachmentKey, DocumentURLExpiry).
			Return("https://s3.local/get", expires, nil)

		resp, err := f.service.GetDocumentURL(ctx, tenantID, inv.ID)

		require.NoError(t, err)
		assert.Equal(t, "https://s3.local/get", resp.URL)
		assert.Equal(t, expires, resp.ExpiresAt)
	})

	t.Run("storage not configured", func(t *testing.T) {
		f := newInvoiceFixture()
		f.service.storage = nil

		_, err := f.service.GetDocumentURL(ctx, tenantID, uuid.New())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STORAGE_UNAVAILABLE", domainErr.Code)
	})
}

func TestInvoiceService_Delete_RemovesDocument(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newInvoiceFixture()
	inv := newTestInvoice(t, tenantID)
	inv.AttachDocument(inv.DocumentKey("nf.pdf"))
	f.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	f.invoices.On("DeleteForTenant", ctx, tenantID, inv.ID).Return(nil)
	f.storage.On("DeleteObject", ctx, inv.AttachmentKey).Return(nil)

	require.NoError(t, f.service.Delete(ctx, tenantID, inv.ID))
	f.storage.AssertExpectations(t)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "nota_fiscal.pdf", sanitizeFileName("nota fiscal.pdf"))
	assert.Equal(t, "nf.xml", sanitizeFileName(`C:\docs\nf.xml`))
	assert.Equal(t, "a.pdf", sanitizeFileName("a?#.pdf"))
	assert.Equal(t, "", sanitizeFileName(" "))
}
