package report

import (
	"time"

	"github.com/erp-obras/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertResponse is one derived alert
type AlertResponse struct {
	Type        string `json:"tipo"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	Severity    string `json:"severidade"`
}

// AlertCounts counts alerts per severity
type AlertCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// AlertsResponse lists a project's alerts in evaluation order
type AlertsResponse struct {
	ProjectID uuid.UUID       `json:"obraId"`
	Alerts    []AlertResponse `json:"alertas"`
	Total     int             `json:"total"`
	Counts    AlertCounts     `json:"contagem"`
}

// ManagementReportResponse is the flat management report of a project
type ManagementReportResponse struct {
	ProjectID              uuid.UUID       `json:"obraId"`
	ProjectName            string          `json:"obraNome"`
	ClientName             string          `json:"cliente"`
	Status                 string          `json:"status"`
	StatusLabel            string          `json:"statusLabel"`
	Progress               int             `json:"progresso"`
	FinancialPercent       int             `json:"percentualFinanceiro"`
	DeviationPercent       int             `json:"desvioPercent"`
	Classification         string          `json:"classificacao"`
	Risk                   string          `json:"risco"`
	TotalBudget            decimal.Decimal `json:"totalOrcado"`
	TotalPaid              decimal.Decimal `json:"totalPago"`
	TotalPending           decimal.Decimal `json:"totalPendente"`
	RemainingBalance       decimal.Decimal `json:"saldoRestante"`
	TotalRealized          decimal.Decimal `json:"totalRealizado"`
	Deviation              decimal.Decimal `json:"desvio"`
	Projection             decimal.Decimal `json:"projecaoTotal"`
	PlannedPurchases       decimal.Decimal `json:"comprasPlanejadas"`
	PendingMeasurements    decimal.Decimal `json:"medicoesPendentes"`
	StageCount             int             `json:"totalEtapas"`
	LateStages             int             `json:"etapasAtrasadas"`
	MeasurementCount       int             `json:"totalMedicoes"`
	OutstandingMeasurement int             `json:"medicoesEmAberto"`
	AlertCounts            AlertCounts     `json:"alertas"`
	Alerts                 []AlertResponse `json:"listaAlertas"`
	GeneratedAt            time.Time       `json:"geradoEm"`
}

// FileResponse is a generated document ready to be streamed
type FileResponse struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Content types of exported files
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func toAlertResponses(alerts []report.Alert) []AlertResponse {
	responses := make([]AlertResponse, len(alerts))
	for i, a := range alerts {
		responses[i] = AlertResponse{
			Type:        string(a.Type),
			Title:       a.Title,
			Description: a.Description,
			Severity:    string(a.Severity),
		}
	}
	return responses
}

func toAlertCounts(counts map[report.Severity]int) AlertCounts {
	return AlertCounts{
		Critical: counts[report.SeverityCritical],
		Warning:  counts[report.SeverityWarning],
		Info:     counts[report.SeverityInfo],
	}
}

// ToManagementReportResponse flattens a management report
func ToManagementReportResponse(r *report.ManagementReport) ManagementReportResponse {
	return ManagementReportResponse{
		ProjectID:              r.ProjectID,
		ProjectName:            r.ProjectName,
		ClientName:             r.ClientName,
		Status:                 string(r.Status),
		StatusLabel:            r.Status.DisplayName(),
		Progress:               r.Progress,
		FinancialPercent:       r.FinancialPercent,
		DeviationPercent:       r.Deviation.DeviationPercent,
		Classification:         r.Deviation.Classification,
		Risk:                   r.CashFlow.Risk,
		TotalBudget:            r.Summary.TotalBudget,
		TotalPaid:              r.Summary.TotalPaid,
		TotalPending:           r.Summary.TotalPending,
		RemainingBalance:       r.Summary.RemainingBalance,
		TotalRealized:          r.Deviation.TotalRealized,
		Deviation:              r.Deviation.Deviation,
		Projection:             r.CashFlow.Projection,
		PlannedPurchases:       r.PlannedPurchasesTotal,
		PendingMeasurements:    r.CashFlow.PendingMeasurements,
		StageCount:             r.StageCount,
		LateStages:             r.LateStageCount,
		MeasurementCount:       r.MeasurementCount,
		OutstandingMeasurement: r.OutstandingMeasurement,
		AlertCounts:            toAlertCounts(r.AlertCounts),
		Alerts:                 toAlertResponses(r.Alerts),
		GeneratedAt:            r.GeneratedAt,
	}
}
