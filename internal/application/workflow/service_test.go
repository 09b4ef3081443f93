package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/procurement"
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

type workflowFixture struct {
	quotations   *testutil.MockQuotationRepository
	items        *testutil.MockPurchaseItemRepository
	entries      *testutil.MockFinancialEntryRepository
	measurements *testutil.MockMeasurementRepository
	publisher    *testutil.RecordingPublisher
	service      *Service
	now          time.Time
}

func newWorkflowFixture() *workflowFixture {
	f := &workflowFixture{
		quotations:   new(testutil.MockQuotationRepository),
		items:        new(testutil.MockPurchaseItemRepository),
		entries:      new(testutil.MockFinancialEntryRepository),
		measurements: new(testutil.MockMeasurementRepository),
		publisher:    testutil.NewRecordingPublisher(),
		now:          time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC),
	}
	scope := NewNoOpTransactionScope(Repositories{
		Quotations:    f.quotations,
		PurchaseItems: f.items,
		Entries:       f.entries,
		Measurements:  f.measurements,
	})
	f.service = NewService(scope, zap.NewNop())
	f.service.SetEventPublisher(f.publisher)
	f.service.now = func() time.Time { return f.now }
	return f
}

func newReceivedQuotation(t *testing.T, tenantID uuid.UUID) *procurement.Quotation {
	t.Helper()
	q, err := procurement.NewQuotation(tenantID, uuid.New(), procurement.QuotationDetails{
		VendorID:    uuid.New(),
		Description: "Cimento CP-II 50kg",
		Amount:      decimal.NewFromInt(12500),
	})
	require.NoError(t, err)
	require.NoError(t, q.Receive(time.Now()))
	q.ClearDomainEvents()
	return q
}

func newPendingMeasurement(t *testing.T, tenantID uuid.UUID) *project.Measurement {
	t.Helper()
	m, err := project.NewMeasurement(tenantID, uuid.New(), project.MeasurementDetails{
		Description:     "Fundação - 1ª medição",
		ExecutedPercent: decimal.NewFromInt(40),
		Amount:          decimal.NewFromInt(8000),
		MeasuredAt:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	m.ClearDomainEvents()
	return m
}

func TestService_ApproveQuotation(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates entry and purchase item and approves", func(t *testing.T) {
		f := newWorkflowFixture()
		q := newReceivedQuotation(t, tenantID)

		f.quotations.On("FindByIDForTenant", ctx, tenantID, q.ID).Return(q, nil)
		f.entries.On("Save", ctx, mock.AnythingOfType("*finance.FinancialEntry")).Return(nil)
		f.items.On("Save", ctx, mock.AnythingOfType("*procurement.PurchaseItem")).Return(nil)
		f.quotations.On("Save", ctx, q).Return(nil)

		result, err := f.service.ApproveQuotation(ctx, tenantID, q.ID)
		require.NoError(t, err)

		assert.Equal(t, procurement.QuotationStatusApproved, result.Quotation.Status)
		require.NotNil(t, result.Quotation.ApprovedAt)

		entry := result.Entry
		assert.Equal(t, finance.EntryTypeExpense, entry.Type)
		assert.Equal(t, finance.EntryStatusPending, entry.Status)
		assert.Equal(t, finance.CategoryQuotation, entry.Category)
		assert.True(t, entry.Amount.Equal(q.Amount))
		assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), entry.DueDate)
		require.NotNil(t, entry.VendorID)
		assert.Equal(t, q.VendorID, *entry.VendorID)
		assert.Equal(t, q.ProjectID, entry.ProjectID)
		assert.Contains(t, entry.Description, q.Description)

		item := result.PurchaseItem
		assert.Equal(t, procurement.PurchaseStatusPurchased, item.Status)
		require.NotNil(t, item.QuotationID)
		assert.Equal(t, q.ID, *item.QuotationID)
		assert.True(t, item.PlannedAmount.Equal(q.Amount))
		assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), item.PlannedDate)

		assert.Contains(t, f.publisher.EventTypes(), procurement.EventTypeQuotationApproved)
		assert.Contains(t, f.publisher.EventTypes(), finance.EventTypeEntryCreated)
		f.entries.AssertNumberOfCalls(t, "Save", 1)
		f.items.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("not found", func(t *testing.T) {
		f := newWorkflowFixture()
		id := uuid.New()
		f.quotations.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		result, err := f.service.ApproveQuotation(ctx, tenantID, id)
		assert.Nil(t, result)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		f.entries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("already approved writes nothing", func(t *testing.T) {
		f := newWorkflowFixture()
		q := newReceivedQuotation(t, tenantID)
		require.NoError(t, q.Approve(time.Now()))
		f.quotations.On("FindByIDForTenant", ctx, tenantID, q.ID).Return(q, nil)

		_, err := f.service.ApproveQuotation(ctx, tenantID, q.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_APPROVED", domainErr.Code)
		f.entries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.items.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.quotations.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejected quotation cannot be approved", func(t *testing.T) {
		f := newWorkflowFixture()
		q := newReceivedQuotation(t, tenantID)
		require.NoError(t, q.Reject(time.Now()))
		f.quotations.On("FindByIDForTenant", ctx, tenantID, q.ID).Return(q, nil)

		_, err := f.service.ApproveQuotation(ctx, tenantID, q.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("write failure stops the chain", func(t *testing.T) {
		f := newWorkflowFixture()
		q := newReceivedQuotation(t, tenantID)
		f.quotations.On("FindByIDForTenant", ctx, tenantID, q.ID).Return(q, nil)
		f.entries.On("Save", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := f.service.ApproveQuotation(ctx, tenantID, q.ID)
		assert.EqualError(t, err, "disk full")
		f.items.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.quotations.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.Events())
	})
}

func TestService_PayMeasurement(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates paid entry and marks measurement paid", func(t *testing.T) {
		f := newWorkflowFixture()
		m := newPendingMeasurement(t, tenantID)
		f.measurements.On("FindByIDForTenant", ctx, tenantID, m.ID).Return(m, nil)
		f.entries.On("Save", ctx, mock.AnythingOfType("*finance.FinancialEntry")).Return(nil)
		f.measurements.On("Save", ctx, m).Return(nil)

		result, err := f.service.PayMeasurement(ctx, tenantID, m.ID)
		require.NoError(t, err)
		require.True(t, result.Paid)

		entry := result.Entry
		assert.Equal(t, finance.EntryStatusPaid, entry.Status)
		assert.Equal(t, finance.CategoryMeasurement, entry.Category)
		assert.Equal(t, finance.EntryTypeExpense, entry.Type)
		assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), entry.DueDate)
		require.NotNil(t, entry.PaymentDate)
		assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), *entry.PaymentDate)
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(8000)))

		assert.Equal(t, project.MeasurementStatusPaid, result.Measurement.Status)
		require.NotNil(t, result.Measurement.EntryID)
		assert.Equal(t, entry.ID, *result.Measurement.EntryID)
		assert.Contains(t, f.publisher.EventTypes(), project.EventTypeMeasurementPaid)
	})

	t.Run("already paid is a no-op", func(t *testing.T) {
		f := newWorkflowFixture()
		m := newPendingMeasurement(t, tenantID)
		require.NoError(t, m.MarkPaid(uuid.New(), time.Now()))
		f.measurements.On("FindByIDForTenant", ctx, tenantID, m.ID).Return(m, nil)

		result, err := f.service.PayMeasurement(ctx, tenantID, m.ID)
		require.NoError(t, err)
		assert.False(t, result.Paid)
		assert.Equal(t, MeasurementNotPayableMessage, result.Message)
		f.entries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.measurements.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("not found is a no-op", func(t *testing.T) {
		f := newWorkflowFixture()
		id := uuid.New()
		f.measurements.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		result, err := f.service.PayMeasurement(ctx, tenantID, id)
		require.NoError(t, err)
		assert.False(t, result.Paid)
		assert.Nil(t, result.Entry)
	})

	t.Run("repository failure is an error", func(t *testing.T) {
		f := newWorkflowFixture()
		id := uuid.New()
		f.measurements.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, errors.New("connection reset"))

		_, err := f.service.PayMeasurement(ctx, tenantID, id)
		assert.EqualError(t, err, "connection reset")
	})
}
