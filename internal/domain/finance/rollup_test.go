package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func entry(amount int64, status EntryStatus) FinancialEntry {
	return FinancialEntry{Type: EntryTypeExpense, Amount: d(amount), Status: status}
}

func TestSummarize(t *testing.T) {
	t.Run("paid and pending", func(t *testing.T) {
		s := Summarize(d(100000), []FinancialEntry{
			entry(40000, EntryStatusPaid),
			entry(20000, EntryStatusPending),
		})
		assert.True(t, s.TotalPaid.Equal(d(40000)))
		assert.True(t, s.TotalPending.Equal(d(20000)))
		assert.True(t, s.RemainingBalance.Equal(d(40000)))
		assert.Equal(t, 40, s.ExecutedPercent)
	})

	t.Run("overdue counts as pending", func(t *testing.T) {
		s := Summarize(d(1000), []FinancialEntry{
			entry(100, EntryStatusOverdue),
			entry(50, EntryStatusPending),
		})
		assert.True(t, s.TotalPending.Equal(d(150)))
		assert.True(t, s.TotalPaid.IsZero())
	})

	t.Run("zero budget", func(t *testing.T) {
		s := Summarize(decimal.Zero, []FinancialEntry{entry(10, EntryStatusPaid)})
		assert.Equal(t, 0, s.ExecutedPercent)
		assert.True(t, s.RemainingBalance.Equal(d(-10)))
	})
}

func TestCalculateDeviation(t *testing.T) {
	s := Summarize(d(100000), []FinancialEntry{
		entry(90000, EntryStatusPaid),
		entry(30000, EntryStatusPending),
	})
	dev := CalculateDeviation(s)
	assert.True(t, dev.TotalRealized.Equal(d(120000)))
	assert.True(t, dev.Deviation.Equal(d(20000)))
	assert.Equal(t, 20, dev.DeviationPercent)
	assert.Equal(t, ClassificationOverBudget, dev.Classification)

	empty := CalculateDeviation(Summarize(decimal.Zero, nil))
	assert.Equal(t, 0, empty.DeviationPercent)
	assert.Equal(t, ClassificationOnBudget, empty.Classification)
}

func TestClassifyDeviation(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{-30, ClassificationUnderBudget},
		{-6, ClassificationUnderBudget},
		{-5, ClassificationOnBudget},
		{0, ClassificationOnBudget},
		{5, ClassificationOnBudget},
		{6, ClassificationOverBudget},
		{40, ClassificationOverBudget},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyDeviation(tt.percent), "percent %d", tt.percent)
	}
}

func TestCalculateCashFlow(t *testing.T) {
	entries := []FinancialEntry{
		entry(10000, EntryStatusPending),
		entry(5000, EntryStatusOverdue),
		entry(99999, EntryStatusPaid),
	}

	cf := CalculateCashFlow(d(100000), entries, d(30000), d(20000))
	assert.True(t, cf.TotalPayable.Equal(d(15000)))
	assert.True(t, cf.Projection.Equal(d(65000)))
	assert.Equal(t, RiskMedium, cf.Risk)
	assert.Equal(t, 65, cf.ProjectionPercent())

	cf = CalculateCashFlow(d(100000), entries, d(60000), d(20000))
	assert.Equal(t, RiskHigh, cf.Risk)

	cf = CalculateCashFlow(d(100000), nil, d(60000), decimal.Zero)
	assert.Equal(t, RiskLow, cf.Risk, "exactly 0.6 is low")

	cf = CalculateCashFlow(decimal.Zero, entries, d(1), d(1))
	assert.Equal(t, RiskLow, cf.Risk)
}

func TestFinancialEntry_MarkOverdue(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	e, err := NewFinancialEntry(uuid.New(), uuid.New(), EntryDetails{
		Type:        EntryTypeExpense,
		Description: "Locação de betoneira",
		Amount:      d(800),
		DueDate:     time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC),
	})
	if !assert.NoError(t, err) {
		return
	}

	assert.True(t, e.MarkOverdue(now))
	assert.Equal(t, EntryStatusOverdue, e.Status)
	assert.False(t, e.MarkOverdue(now), "second run changes nothing")

	dueToday, _ := NewFinancialEntry(uuid.New(), uuid.New(), EntryDetails{
		Type:        EntryTypeExpense,
		Description: "Areia",
		Amount:      d(100),
		DueDate:     now,
	})
	assert.False(t, dueToday.MarkOverdue(now), "due today is not overdue")
}

func TestTriggerEntries(t *testing.T) {
	now := time.Date(2024, 6, 10, 16, 45, 0, 0, time.UTC)
	tenantID, projectID := uuid.New(), uuid.New()

	q := NewQuotationExpense(tenantID, projectID, uuid.New(), nil, "Concreto", d(5000), now)
	assert.Equal(t, EntryTypeExpense, q.Type)
	assert.Equal(t, EntryStatusPending, q.Status)
	assert.Equal(t, CategoryQuotation, q.Category)
	assert.Equal(t, "2024-06-10", q.DueDate.Format("2006-01-02"))
	assert.Nil(t, q.PaymentDate)

	measuredAt := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)
	m := NewMeasurementExpense(tenantID, projectID, uuid.New(), "Alvenaria", d(12000), measuredAt, now)
	assert.Equal(t, EntryStatusPaid, m.Status)
	assert.Equal(t, CategoryMeasurement, m.Category)
	assert.Equal(t, "2024-05-30", m.DueDate.Format("2006-01-02"))
	if assert.NotNil(t, m.PaymentDate) {
		assert.Equal(t, "2024-06-10", m.PaymentDate.Format("2006-01-02"))
	}
}
