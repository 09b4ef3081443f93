package report

import (
	"testing"
	"time"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func types(alerts []Alert) []AlertType {
	out := make([]AlertType, len(alerts))
	for i, a := range alerts {
		out[i] = a.Type
	}
	return out
}

func TestGenerateAlerts_Order(t *testing.T) {
	end := day(2024, 6, 5)
	in := AlertInput{
		Project: &project.Project{Name: "Casa", EndDate: &end, Progress: 40, Status: project.ProjectStatusInProgress},
		Stages: []project.Stage{
			{Name: "Acabamento", Order: 2, StartDate: day(2024, 6, 12), EndDate: day(2024, 6, 30), PlannedPercent: dec(40)},
			{Name: "Fundação", Order: 1, StartDate: day(2024, 5, 1), EndDate: day(2024, 6, 1), PlannedPercent: dec(60), ExecutedPercent: dec(50)},
		},
		Purchases: []procurement.PurchaseItem{
			{Description: "Cimento", PlannedDate: day(2024, 6, 10), PlannedAmount: dec(1000), Status: procurement.PurchaseStatusPlanned},
		},
		Measurements: []project.Measurement{
			{Description: "Medição 1", MeasuredAt: day(2024, 5, 1), Amount: dec(5000), Status: project.MeasurementStatusApproved},
		},
		Deviation: finance.Deviation{Classification: finance.ClassificationOverBudget, DeviationPercent: 30},
		CashFlow:  finance.CashFlow{Risk: finance.RiskHigh, Projection: dec(95000), Budget: dec(100000)},
	}

	alerts := GenerateAlerts(in, now)

	assert.Equal(t, []AlertType{
		AlertTypeNextStage,
		AlertTypeStageLate,
		AlertTypeProjectLate,
		AlertTypePurchase,
		AlertTypeMeasurement,
		AlertTypeBudgetDeviation,
		AlertTypeCashFlow,
	}, types(alerts))

	assert.Equal(t, SeverityWarning, alerts[0].Severity)
	assert.Contains(t, alerts[0].Title, "Acabamento")
	assert.Contains(t, alerts[1].Description, "10 day(s) late")
	assert.Equal(t, SeverityCritical, alerts[2].Severity)
	assert.Equal(t, SeverityCritical, alerts[3].Severity)
	assert.Equal(t, SeverityCritical, alerts[4].Severity)
	assert.Equal(t, SeverityCritical, alerts[5].Severity)
	assert.Contains(t, alerts[6].Description, "95%")
}

func TestGenerateAlerts_Empty(t *testing.T) {
	alerts := GenerateAlerts(AlertInput{Project: &project.Project{Status: project.ProjectStatusInProgress}}, now)
	require.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestNextStageAlert(t *testing.T) {
	t.Run("info when more than three days away", func(t *testing.T) {
		stages := []project.Stage{{Name: "A", Order: 1, StartDate: day(2024, 6, 20), EndDate: day(2024, 7, 1)}}
		alerts := GenerateAlerts(AlertInput{Stages: stages}, now)
		require.Len(t, alerts, 1)
		assert.Equal(t, SeverityInfo, alerts[0].Severity)
	})

	t.Run("today counts as upcoming", func(t *testing.T) {
		stages := []project.Stage{{Name: "A", Order: 1, StartDate: day(2024, 6, 10), EndDate: day(2024, 7, 1)}}
		alerts := GenerateAlerts(AlertInput{Stages: stages}, now)
		require.Len(t, alerts, 1)
		assert.Equal(t, SeverityWarning, alerts[0].Severity)
	})

	t.Run("started stages are skipped", func(t *testing.T) {
		stages := []project.Stage{
			{Name: "A", Order: 1, StartDate: day(2024, 6, 11), EndDate: day(2024, 7, 1), ExecutedPercent: dec(10)},
			{Name: "B", Order: 2, StartDate: day(2024, 6, 15), EndDate: day(2024, 7, 1)},
		}
		alerts := GenerateAlerts(AlertInput{Stages: stages}, now)
		require.Len(t, alerts, 1)
		assert.Contains(t, alerts[0].Title, "B")
	})

	t.Run("only the first candidate is reported", func(t *testing.T) {
		stages := []project.Stage{
			{Name: "A", Order: 1, StartDate: day(2024, 6, 11), EndDate: day(2024, 7, 1)},
			{Name: "B", Order: 2, StartDate: day(2024, 6, 12), EndDate: day(2024, 7, 1)},
		}
		alerts := GenerateAlerts(AlertInput{Stages: stages}, now)
		require.Len(t, alerts, 1)
	})
}

func TestProjectLateAlert_SkipsHaltedProjects(t *testing.T) {
	end := day(2024, 6, 1)
	for _, status := range []project.ProjectStatus{project.ProjectStatusPaused, project.ProjectStatusCancelled} {
		p := &project.Project{EndDate: &end, Progress: 10, Status: status}
		assert.Empty(t, GenerateAlerts(AlertInput{Project: p}, now), status)
	}

	done := &project.Project{EndDate: &end, Progress: 100, Status: project.ProjectStatusCompleted}
	assert.Empty(t, GenerateAlerts(AlertInput{Project: done}, now))
}

func TestPurchaseAlerts(t *testing.T) {
	item := func(d time.Time, status procurement.PurchaseStatus) procurement.PurchaseItem {
		return procurement.PurchaseItem{Description: "Item", PlannedDate: d, PlannedAmount: dec(100), Status: status}
	}
	tests := []struct {
		name string
		item procurement.PurchaseItem
		want []Severity
	}{
		{"today is critical", item(day(2024, 6, 10), procurement.PurchaseStatusPlanned), []Severity{SeverityCritical}},
		{"tomorrow is critical", item(day(2024, 6, 11), procurement.PurchaseStatusPlanned), []Severity{SeverityCritical}},
		{"three days is warning", item(day(2024, 6, 13), procurement.PurchaseStatusPlanned), []Severity{SeverityWarning}},
		{"five days is info", item(day(2024, 6, 15), procurement.PurchaseStatusPlanned), []Severity{SeverityInfo}},
		{"seven days is info", item(day(2024, 6, 17), procurement.PurchaseStatusPlanned), []Severity{SeverityInfo}},
		{"eight days is silent", item(day(2024, 6, 18), procurement.PurchaseStatusPlanned), nil},
		{"past date is silent", item(day(2024, 6, 9), procurement.PurchaseStatusPlanned), nil},
		{"purchased is silent", item(day(2024, 6, 10), procurement.PurchaseStatusPurchased), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := GenerateAlerts(AlertInput{Purchases: []procurement.PurchaseItem{tt.item}}, now)
			var got []Severity
			for _, a := range alerts {
				got = append(got, a.Severity)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMeasurementAlerts(t *testing.T) {
	m := func(d time.Time, status project.MeasurementStatus) project.Measurement {
		return project.Measurement{Description: "M", MeasuredAt: d, Amount: dec(100), Status: status}
	}
	tests := []struct {
		name string
		m    project.Measurement
		want []Severity
	}{
		{"fifteen days is silent", m(day(2024, 5, 26), project.MeasurementStatusPending), nil},
		{"sixteen days is warning", m(day(2024, 5, 25), project.MeasurementStatusPending), []Severity{SeverityWarning}},
		{"thirty days is warning", m(day(2024, 5, 11), project.MeasurementStatusApproved), []Severity{SeverityWarning}},
		{"thirty one days is critical", m(day(2024, 5, 10), project.MeasurementStatusApproved), []Severity{SeverityCritical}},
		{"paid is silent", m(day(2024, 1, 1), project.MeasurementStatusPaid), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := GenerateAlerts(AlertInput{Measurements: []project.Measurement{tt.m}}, now)
			var got []Severity
			for _, a := range alerts {
				got = append(got, a.Severity)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeviationAlert(t *testing.T) {
	warn := GenerateAlerts(AlertInput{Deviation: finance.Deviation{Classification: finance.ClassificationOverBudget, DeviationPercent: 25}}, now)
	require.Len(t, warn, 1)
	assert.Equal(t, SeverityWarning, warn[0].Severity)

	crit := GenerateAlerts(AlertInput{Deviation: finance.Deviation{Classification: finance.ClassificationOverBudget, DeviationPercent: 26}}, now)
	require.Len(t, crit, 1)
	assert.Equal(t, SeverityCritical, crit[0].Severity)

	assert.Empty(t, GenerateAlerts(AlertInput{Deviation: finance.Deviation{Classification: finance.ClassificationUnderBudget, DeviationPercent: -40}}, now))
}

func TestCashFlowAlert_OnlyHighRisk(t *testing.T) {
	assert.Empty(t, GenerateAlerts(AlertInput{CashFlow: finance.CashFlow{Risk: finance.RiskMedium}}, now))
	assert.Len(t, GenerateAlerts(AlertInput{CashFlow: finance.CashFlow{Risk: finance.RiskHigh, Budget: dec(1)}}, now), 1)
}

func TestBuildManagementReport(t *testing.T) {
	end := day(2024, 12, 31)
	p := &project.Project{Name: "Casa", ClientName: "Maria", EndDate: &end, Progress: 55, Status: project.ProjectStatusInProgress}
	stages := []project.Stage{
		{Name: "A", EndDate: day(2024, 6, 1), ExecutedPercent: dec(50)},
		{Name: "B", EndDate: day(2024, 6, 1), ExecutedPercent: dec(100)},
		{Name: "C", EndDate: day(2024, 7, 1)},
	}
	measurements := []project.Measurement{
		{Status: project.MeasurementStatusPending},
		{Status: project.MeasurementStatusPaid},
	}
	alerts := []Alert{
		{Type: AlertTypeStageLate, Severity: SeverityCritical},
		{Type: AlertTypePurchase, Severity: SeverityInfo},
	}

	r := BuildManagementReport(ManagementInput{
		Project:               p,
		Stages:                stages,
		Measurements:          measurements,
		PlannedPurchasesTotal: dec(1500),
		Summary:               finance.Summary{ExecutedPercent: 40},
		Alerts:                alerts,
	}, now)

	assert.Equal(t, "Casa", r.ProjectName)
	assert.Equal(t, 55, r.Progress)
	assert.Equal(t, 40, r.FinancialPercent)
	assert.Equal(t, 3, r.StageCount)
	assert.Equal(t, 1, r.LateStageCount)
	assert.Equal(t, 2, r.MeasurementCount)
	assert.Equal(t, 1, r.OutstandingMeasurement)
	assert.Equal(t, 1, r.CriticalAlertCount)
	assert.Equal(t, 0, r.AlertCounts[SeverityWarning])
	assert.Equal(t, 1, r.AlertCounts[SeverityInfo])
	assert.True(t, r.PlannedPurchasesTotal.Equal(dec(1500)))
}
