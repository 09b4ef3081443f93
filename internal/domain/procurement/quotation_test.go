package procurement

import (
	"testing"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuotation(t *testing.T) *Quotation {
	t.Helper()
	q, err := NewQuotation(uuid.New(), uuid.New(), QuotationDetails{
		VendorID:    uuid.New(),
		Description: "Concreto usinado 30m3",
		Amount:      decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	return q
}

func TestQuotation_StateMachine(t *testing.T) {
	now := time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)

	t.Run("receive then approve", func(t *testing.T) {
		q := newTestQuotation(t)
		require.NoError(t, q.Receive(now))
		assert.Equal(t, QuotationStatusReceived, q.Status)
		require.NoError(t, q.Approve(now))
		assert.Equal(t, QuotationStatusApproved, q.Status)
		assert.NotNil(t, q.ApprovedAt)
	})

	t.Run("approving twice is rejected", func(t *testing.T) {
		q := newTestQuotation(t)
		require.NoError(t, q.Approve(now))
		err := q.Approve(now)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_APPROVED", domainErr.Code)
	})

	t.Run("rejected cannot be approved", func(t *testing.T) {
		q := newTestQuotation(t)
		require.NoError(t, q.Reject(now))
		assert.Equal(t, QuotationStatusRejected, q.Status)
		var domainErr *shared.DomainError
		require.ErrorAs(t, q.Approve(now), &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Nil(t, q.ApprovedAt)
		assert.Error(t, q.Update(QuotationDetails{VendorID: q.VendorID, Description: "x"}))
	})
}

func TestNewPurchaseItemFromQuotation(t *testing.T) {
	now := time.Date(2024, 4, 2, 15, 30, 0, 0, time.UTC)
	q := newTestQuotation(t)

	item := NewPurchaseItemFromQuotation(q, now)
	assert.Equal(t, PurchaseStatusPurchased, item.Status)
	assert.True(t, item.PlannedAmount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "2024-04-02", shared.FormatDate(item.PlannedDate))
	assert.Equal(t, q.ProjectID, item.ProjectID)
	require.NotNil(t, item.QuotationID)
	assert.Equal(t, q.ID, *item.QuotationID)
}

func TestPurchaseItem_DaysUntilDue(t *testing.T) {
	item, err := NewPurchaseItem(uuid.New(), uuid.New(), PurchaseItemDetails{
		Description:   "Vergalhão 10mm",
		PlannedAmount: decimal.NewFromInt(800),
		PlannedDate:   time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "un", item.Unit)
	assert.Equal(t, 3, item.DaysUntilDue(time.Date(2024, 4, 2, 22, 0, 0, 0, time.UTC)))

	require.NoError(t, item.MarkPurchased(time.Now()))
	assert.Error(t, item.MarkPurchased(time.Now()))
}
