package report

import (
	"time"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ManagementReport is the consolidated per-project snapshot
type ManagementReport struct {
	ProjectID              uuid.UUID
	ProjectName            string
	ClientName             string
	Status                 project.ProjectStatus
	Progress               int
	FinancialPercent       int
	Summary                finance.Summary
	Deviation              finance.Deviation
	CashFlow               finance.CashFlow
	PlannedPurchasesTotal  decimal.Decimal
	StageCount             int
	LateStageCount         int
	MeasurementCount       int
	OutstandingMeasurement int
	AlertCounts            map[Severity]int
	CriticalAlertCount     int
	Alerts                 []Alert
	GeneratedAt            time.Time
}

// ManagementInput is everything the aggregator needs for one project
type ManagementInput struct {
	Project               *project.Project
	Stages                []project.Stage
	Measurements          []project.Measurement
	PlannedPurchasesTotal decimal.Decimal
	Summary               finance.Summary
	Deviation             finance.Deviation
	CashFlow              finance.CashFlow
	Alerts                []Alert
}

// BuildManagementReport assembles the flat report record
func BuildManagementReport(in ManagementInput, now time.Time) *ManagementReport {
	p := in.Project

	lateStages := 0
	for i := range in.Stages {
		if in.Stages[i].IsLate(now) {
			lateStages++
		}
	}

	outstanding := 0
	for i := range in.Measurements {
		if in.Measurements[i].Status.IsOutstanding() {
			outstanding++
		}
	}

	counts := CountBySeverity(in.Alerts)
	alerts := in.Alerts
	if alerts == nil {
		alerts = []Alert{}
	}

	return &ManagementReport{
		ProjectID:              p.ID,
		ProjectName:            p.Name,
		ClientName:             p.ClientName,
		Status:                 p.Status,
		Progress:               p.Progress,
		FinancialPercent:       in.Summary.ExecutedPercent,
		Summary:                in.Summary,
		Deviation:              in.Deviation,
		CashFlow:               in.CashFlow,
		PlannedPurchasesTotal:  in.PlannedPurchasesTotal,
		StageCount:             len(in.Stages),
		LateStageCount:         lateStages,
		MeasurementCount:       len(in.Measurements),
		OutstandingMeasurement: outstanding,
		AlertCounts:            counts,
		CriticalAlertCount:     counts[SeverityCritical],
		Alerts:                 alerts,
		GeneratedAt:            now,
	}
}
