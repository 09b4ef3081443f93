package finance

import (
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Deviation classifications
const (
	ClassificationOverBudget  = "Over budget"
	ClassificationUnderBudget = "Under budget"
	ClassificationOnBudget    = "On budget"
)

// deviationTolerance is the fixed ±% band considered on budget
const deviationTolerance = 5

// Cash-flow risk levels
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"
)

var (
	highRiskRatio   = decimal.NewFromFloat(0.9)
	mediumRiskRatio = decimal.NewFromFloat(0.6)
)

// Summary is the budget summary of a project
type Summary struct {
	TotalBudget      decimal.Decimal
	TotalPaid        decimal.Decimal
	TotalPending     decimal.Decimal // PENDING + OVERDUE
	RemainingBalance decimal.Decimal
	ExecutedPercent  int
}

// Deviation compares realized spend against the budget
type Deviation struct {
	TotalBudget      decimal.Decimal
	TotalRealized    decimal.Decimal
	Deviation        decimal.Decimal
	DeviationPercent int
	Classification   string
}

// CashFlow projects the money still to leave the project
type CashFlow struct {
	TotalPayable        decimal.Decimal
	PlannedPurchases    decimal.Decimal
	PendingMeasurements decimal.Decimal
	Projection          decimal.Decimal
	Budget              decimal.Decimal
	Risk                string
}

// Summarize computes the budget summary from a project's entries
func Summarize(budget decimal.Decimal, entries []FinancialEntry) Summary {
	paid := decimal.Zero
	pending := decimal.Zero
	for _, e := range entries {
		switch {
		case e.Status == EntryStatusPaid:
			paid = paid.Add(e.Amount)
		case e.Status.IsOpen():
			pending = pending.Add(e.Amount)
		}
	}
	return Summary{
		TotalBudget:      budget,
		TotalPaid:        paid,
		TotalPending:     pending,
		RemainingBalance: budget.Sub(paid).Sub(pending),
		ExecutedPercent:  shared.PercentOf(paid, budget),
	}
}

// CalculateDeviation derives the budget deviation from a summary
func CalculateDeviation(s Summary) Deviation {
	realized := s.TotalPaid.Add(s.TotalPending)
	deviation := realized.Sub(s.TotalBudget)
	percent := shared.PercentOf(deviation, s.TotalBudget)
	return Deviation{
		TotalBudget:      s.TotalBudget,
		TotalRealized:    realized,
		Deviation:        deviation,
		DeviationPercent: percent,
		Classification:   ClassifyDeviation(percent),
	}
}

// ClassifyDeviation maps a deviation percentage to its classification.
// Exactly ±5 is on budget.
func ClassifyDeviation(percent int) string {
	switch {
	case percent > deviationTolerance:
		return ClassificationOverBudget
	case percent < -deviationTolerance:
		return ClassificationUnderBudget
	default:
		return ClassificationOnBudget
	}
}

// CalculateCashFlow projects outstanding payables, planned purchases and
// unpaid measurements against the budget
func CalculateCashFlow(budget decimal.Decimal, entries []FinancialEntry, plannedPurchases, pendingMeasurements decimal.Decimal) CashFlow {
	payable := decimal.Zero
	for _, e := range entries {
		if e.Status.IsOpen() {
			payable = payable.Add(e.Amount)
		}
	}
	projection := payable.Add(plannedPurchases).Add(pendingMeasurements)
	return CashFlow{
		TotalPayable:        payable,
		PlannedPurchases:    plannedPurchases,
		PendingMeasurements: pendingMeasurements,
		Projection:          projection,
		Budget:              budget,
		Risk:                ClassifyRisk(projection, budget),
	}
}

// ClassifyRisk returns the risk level of a projection relative to the budget
func ClassifyRisk(projection, budget decimal.Decimal) string {
	if !budget.IsPositive() {
		return RiskLow
	}
	ratio := projection.Div(budget)
	switch {
	case ratio.GreaterThan(highRiskRatio):
		return RiskHigh
	case ratio.GreaterThan(mediumRiskRatio):
		return RiskMedium
	default:
		return RiskLow
	}
}

// ProjectionPercent returns the projection as a rounded percentage of the budget
func (c CashFlow) ProjectionPercent() int {
	return shared.PercentOf(c.Projection, c.Budget)
}
