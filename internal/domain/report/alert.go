package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Severity of an alert
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// AlertType identifies the condition that produced an alert
type AlertType string

const (
	AlertTypeNextStage       AlertType = "stage_next"
	AlertTypeStageLate       AlertType = "stage_late"
	AlertTypeProjectLate     AlertType = "project_late"
	AlertTypePurchase        AlertType = "purchase"
	AlertTypeMeasurement     AlertType = "measurement"
	AlertTypeBudgetDeviation AlertType = "budget_deviation"
	AlertTypeCashFlow        AlertType = "cash_flow"
)

// Thresholds
const (
	nextStageWarningDays     = 3
	purchaseUrgentDays       = 3
	purchaseCriticalDays     = 1
	purchaseUpcomingDays     = 7
	measurementStaleDays     = 15
	measurementCriticalDays  = 30
	deviationCriticalPercent = 25
)

// Alert is a derived operational warning. Alerts are never persisted.
type Alert struct {
	Type        AlertType `json:"tipo"`
	Title       string    `json:"titulo"`
	Description string    `json:"descricao"`
	Severity    Severity  `json:"severidade"`
}

// AlertInput is the data the generator evaluates for one project
type AlertInput struct {
	Project      *project.Project
	Stages       []project.Stage
	Purchases    []procurement.PurchaseItem
	Measurements []project.Measurement
	Deviation    finance.Deviation
	CashFlow     finance.CashFlow
}

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatCurrency formats an amount as Brazilian reais
func FormatCurrency(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return printer.Sprintf("R$ %.2f", f)
}

// GenerateAlerts evaluates the seven alert conditions in order: next stage,
// late stages, project lateness, purchases, stale measurements, budget
// deviation and cash-flow risk. The result keeps that insertion order.
func GenerateAlerts(in AlertInput, now time.Time) []Alert {
	alerts := make([]Alert, 0)
	today := shared.DateOf(now)

	stages := sortedStages(in.Stages)

	if a, ok := nextStageAlert(stages, today); ok {
		alerts = append(alerts, a)
	}
	alerts = append(alerts, lateStageAlerts(stages, now)...)
	if a, ok := projectLateAlert(in.Project, now); ok {
		alerts = append(alerts, a)
	}
	alerts = append(alerts, purchaseAlerts(in.Purchases, now)...)
	alerts = append(alerts, measurementAlerts(in.Measurements, now)...)
	if a, ok := deviationAlert(in.Deviation); ok {
		alerts = append(alerts, a)
	}
	if a, ok := cashFlowAlert(in.CashFlow); ok {
		alerts = append(alerts, a)
	}
	return alerts
}

// CountBySeverity returns the number of alerts of each severity
func CountBySeverity(alerts []Alert) map[Severity]int {
	counts := map[Severity]int{SeverityCritical: 0, SeverityWarning: 0, SeverityInfo: 0}
	for _, a := range alerts {
		counts[a.Severity]++
	}
	return counts
}

func sortedStages(stages []project.Stage) []project.Stage {
	out := make([]project.Stage, len(stages))
	copy(out, stages)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

func nextStageAlert(stages []project.Stage, today time.Time) (Alert, bool) {
	for _, s := range stages {
		if s.StartDate.Before(today) || !s.IsNotStarted() {
			continue
		}
		days := shared.DaysBetween(today, s.StartDate)
		severity := SeverityInfo
		if days <= nextStageWarningDays {
			severity = SeverityWarning
		}
		return Alert{
			Type:        AlertTypeNextStage,
			Title:       fmt.Sprintf("Next stage: %s", s.Name),
			Description: fmt.Sprintf("Stage %q starts on %s (%s)", s.Name, shared.FormatDate(s.StartDate), inDays(days)),
			Severity:    severity,
		}, true
	}
	return Alert{}, false
}

func lateStageAlerts(stages []project.Stage, now time.Time) []Alert {
	var alerts []Alert
	for _, s := range stages {
		if !s.IsLate(now) {
			continue
		}
		days := shared.CeilDays(s.EndDate, now)
		alerts = append(alerts, Alert{
			Type:  AlertTypeStageLate,
			Title: fmt.Sprintf("Stage late: %s", s.Name),
			Description: fmt.Sprintf("Stage %q is %d day(s) late with %s%% executed",
				s.Name, days, s.ExecutedPercent.String()),
			Severity: SeverityCritical,
		})
	}
	return alerts
}

func projectLateAlert(p *project.Project, now time.Time) (Alert, bool) {
	if p == nil || !p.IsPastEnd(now) || p.Progress >= 100 || p.Status.IsHalted() {
		return Alert{}, false
	}
	days := shared.CeilDays(*p.EndDate, now)
	return Alert{
		Type:        AlertTypeProjectLate,
		Title:       "Project late",
		Description: fmt.Sprintf("Project %q is %d day(s) past its end date at %d%% progress", p.Name, days, p.Progress),
		Severity:    SeverityCritical,
	}, true
}

func purchaseAlerts(items []procurement.PurchaseItem, now time.Time) []Alert {
	var alerts []Alert
	for _, item := range items {
		if !item.IsPlanned() {
			continue
		}
		days := item.DaysUntilDue(now)
		if days < 0 || days > purchaseUpcomingDays {
			continue
		}
		severity := SeverityInfo
		if days <= purchaseUrgentDays {
			severity = SeverityWarning
			if days <= purchaseCriticalDays {
				severity = SeverityCritical
			}
		}
		alerts = append(alerts, Alert{
			Type:  AlertTypePurchase,
			Title: fmt.Sprintf("Purchase due: %s", item.Description),
			Description: fmt.Sprintf("%s planned for %s (%s), %s",
				item.Description, shared.FormatDate(item.PlannedDate), inDays(days), FormatCurrency(item.PlannedAmount)),
			Severity: severity,
		})
	}
	return alerts
}

func measurementAlerts(measurements []project.Measurement, now time.Time) []Alert {
	var alerts []Alert
	for _, m := range measurements {
		if !m.Status.IsOutstanding() {
			continue
		}
		days := m.DaysPending(now)
		if days <= measurementStaleDays {
			continue
		}
		severity := SeverityWarning
		if days > measurementCriticalDays {
			severity = SeverityCritical
		}
		alerts = append(alerts, Alert{
			Type:  AlertTypeMeasurement,
			Title: fmt.Sprintf("Measurement pending: %s", m.Description),
			Description: fmt.Sprintf("Measurement of %s (%s) has been %s for %d days",
				shared.FormatDate(m.MeasuredAt), FormatCurrency(m.Amount), m.Status, days),
			Severity: severity,
		})
	}
	return alerts
}

func deviationAlert(dev finance.Deviation) (Alert, bool) {
	if dev.Classification != finance.ClassificationOverBudget {
		return Alert{}, false
	}
	severity := SeverityWarning
	if dev.DeviationPercent > deviationCriticalPercent {
		severity = SeverityCritical
	}
	return Alert{
		Type:  AlertTypeBudgetDeviation,
		Title: "Over budget",
		Description: fmt.Sprintf("Realized spend %s exceeds the budget %s by %d%%",
			FormatCurrency(dev.TotalRealized), FormatCurrency(dev.TotalBudget), dev.DeviationPercent),
		Severity: severity,
	}, true
}

func cashFlowAlert(cf finance.CashFlow) (Alert, bool) {
	if cf.Risk != finance.RiskHigh {
		return Alert{}, false
	}
	return Alert{
		Type:  AlertTypeCashFlow,
		Title: "High cash-flow risk",
		Description: fmt.Sprintf("Projected outflow %s is %d%% of the total budget",
			FormatCurrency(cf.Projection), cf.ProjectionPercent()),
		Severity: SeverityCritical,
	}, true
}

func inDays(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}
