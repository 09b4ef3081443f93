// Package report derives alerts and the management report of a project and
// exports them as PDF and XLSX documents.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	financeapp "github.com/erp-obras/backend/internal/application/finance"
	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/report"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FinancialsLoader reads a project with its entries, purchases and measurements
type FinancialsLoader interface {
	Load(ctx context.Context, tenantID, projectID uuid.UUID) (*financeapp.ProjectFinancials, error)
}

// PeriodReader returns the period statement of a project
type PeriodReader interface {
	Period(ctx context.Context, tenantID uuid.UUID, req financeapp.PeriodRequest) (*financeapp.PeriodResponse, error)
}

// ManagementRenderer renders the management report as a PDF document
type ManagementRenderer interface {
	RenderManagementReport(ctx context.Context, r *ManagementReportResponse) ([]byte, error)
}

// PeriodWorkbookWriter writes a period statement as an XLSX workbook
type PeriodWorkbookWriter interface {
	WritePeriod(p *financeapp.PeriodResponse) ([]byte, error)
}

// Service computes alerts and management reports
type Service struct {
	financials FinancialsLoader
	periods    PeriodReader
	stageRepo  project.StageRepository
	renderer   ManagementRenderer
	workbooks  PeriodWorkbookWriter
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a new report Service. renderer and workbooks may be
// nil; the matching export then fails with EXPORT_UNAVAILABLE.
func NewService(
	financials FinancialsLoader,
	periods PeriodReader,
	stageRepo project.StageRepository,
	renderer ManagementRenderer,
	workbooks PeriodWorkbookWriter,
	logger *zap.Logger,
) *Service {
	return &Service{
		financials: financials,
		periods:    periods,
		stageRepo:  stageRepo,
		renderer:   renderer,
		workbooks:  workbooks,
		logger:     logger,
		now:        time.Now,
	}
}

var errExportUnavailable = shared.NewDomainError("EXPORT_UNAVAILABLE", "Document export is not configured")

// Alerts evaluates the alert conditions of a project
func (s *Service) Alerts(ctx context.Context, tenantID, projectID uuid.UUID) (*AlertsResponse, error) {
	in, _, err := s.alertInput(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	alerts := report.GenerateAlerts(*in, s.now())

	return &AlertsResponse{
		ProjectID: projectID,
		Alerts:    toAlertResponses(alerts),
		Total:     len(alerts),
		Counts:    toAlertCounts(report.CountBySeverity(alerts)),
	}, nil
}

// ManagementReport builds the consolidated report of a project
func (s *Service) ManagementReport(ctx context.Context, tenantID, projectID uuid.UUID) (*ManagementReportResponse, error) {
	in, f, err := s.alertInput(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	summary := f.Summary()

	r := report.BuildManagementReport(report.ManagementInput{
		Project:               f.Project,
		Stages:                in.Stages,
		Measurements:          f.Measurements,
		PlannedPurchasesTotal: f.PlannedPurchases(),
		Summary:               summary,
		Deviation:             in.Deviation,
		CashFlow:              in.CashFlow,
		Alerts:                report.GenerateAlerts(*in, now),
	}, now)

	response := ToManagementReportResponse(r)
	return &response, nil
}

// ManagementReportPDF renders the management report of a project
func (s *Service) ManagementReportPDF(ctx context.Context, tenantID, projectID uuid.UUID) (*FileResponse, error) {
	if s.renderer == nil {
		return nil, errExportUnavailable
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "management_report", "render_pdf",
		telemetry.SpanProjectID.String(projectID.String()))
	defer span.End()

	r, err := s.ManagementReport(ctx, tenantID, projectID)
	if err != nil {
		return nil, span.Fail(err)
	}
	span.SetAttributes(telemetry.SpanAlertCount.Int(len(r.Alerts)))

	var data []byte
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("render_management_report", nil), func(c context.Context) {
		data, err = s.renderer.RenderManagementReport(c, r)
	})
	if err != nil {
		return nil, span.Fail(fmt.Errorf("render management report: %w", err))
	}

	s.logger.Info("management report rendered",
		zap.String("tenant_id", tenantID.String()),
		zap.String("project_id", projectID.String()),
		zap.Int("bytes", len(data)))

	return &FileResponse{
		FileName:    fmt.Sprintf("relatorio-gerencial-%s.pdf", shared.FormatDate(r.GeneratedAt)),
		ContentType: ContentTypePDF,
		Data:        data,
	}, nil
}

// PeriodWorkbook exports the period statement of a project as XLSX
func (s *Service) PeriodWorkbook(ctx context.Context, tenantID uuid.UUID, req financeapp.PeriodRequest) (*FileResponse, error) {
	if s.workbooks == nil {
		return nil, errExportUnavailable
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "financial_period", "export_xlsx",
		telemetry.SpanProjectID.String(req.ProjectID.String()),
		telemetry.SpanPeriodStart.String(req.Start),
		telemetry.SpanPeriodEnd.String(req.End),
	)
	defer span.End()

	period, err := s.periods.Period(ctx, tenantID, req)
	if err != nil {
		return nil, span.Fail(err)
	}
	data, err := s.workbooks.WritePeriod(period)
	if err != nil {
		return nil, fmt.Errorf("write period workbook: %w", err)
	}
	return &FileResponse{
		FileName:    fmt.Sprintf("lancamentos-%s-%s.xlsx", period.Start, period.End),
		ContentType: ContentTypeXLSX,
		Data:        data,
	}, nil
}

func (s *Service) alertInput(ctx context.Context, tenantID, projectID uuid.UUID) (*report.AlertInput, *financeapp.ProjectFinancials, error) {
	f, err := s.financials.Load(ctx, tenantID, projectID)
	if err != nil {
		return nil, nil, err
	}
	stages, err := s.stageRepo.FindByProjectForTenant(ctx, tenantID, projectID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, nil, err
	}

	return &report.AlertInput{
		Project:      f.Project,
		Stages:       stages,
		Purchases:    f.PurchaseItems,
		Measurements: f.Measurements,
		Deviation:    finance.CalculateDeviation(f.Summary()),
		CashFlow:     f.CashFlow(),
	}, f, nil
}
