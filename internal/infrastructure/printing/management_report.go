package printing

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	reportapp "github.com/erp-obras/backend/internal/application/report"
	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const footerTemplate = `<div style="font-size:8px;width:100%;text-align:center;color:#888;">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`

var reportLocation = mustLoadLocation("America/Sao_Paulo")

var (
	severityLabels = map[string]string{
		string(report.SeverityCritical): "Crítico",
		string(report.SeverityWarning):  "Atenção",
		string(report.SeverityInfo):     "Info",
	}
	classificationLabels = map[string]string{
		finance.ClassificationOverBudget:  "acima do orçamento",
		finance.ClassificationUnderBudget: "abaixo do orçamento",
		finance.ClassificationOnBudget:    "dentro do orçamento",
	}
	riskLabels = map[string]string{
		finance.RiskHigh:   "Alto",
		finance.RiskMedium: "Médio",
		finance.RiskLow:    "Baixo",
	}
)

var templateFuncs = template.FuncMap{
	"money":    func(v decimal.Decimal) string { return report.FormatCurrency(v) },
	"percent":  func(v int) string { return fmt.Sprintf("%d%%", v) },
	"dateTime": func(t time.Time) string { return t.In(reportLocation).Format("02/01/2006 15:04") },
	"severity": func(s string) string { return label(severityLabels, s) },
	"risk":     func(s string) string { return label(riskLabels, s) },
	"classification": func(s string) string {
		return label(classificationLabels, s)
	},
	"deviationClass": func(s string) string {
		switch s {
		case finance.ClassificationOverBudget:
			return "over"
		case finance.ClassificationUnderBudget:
			return "under"
		}
		return ""
	},
}

// ManagementReportRenderer prints management reports as A4 PDF documents
type ManagementReportRenderer struct {
	pdf    PDFPrinter
	tmpl   *template.Template
	logger *zap.Logger
}

// NewManagementReportRenderer parses the report template and binds it to a
// PDF renderer
func NewManagementReportRenderer(pdf PDFPrinter, logger *zap.Logger) (*ManagementReportRenderer, error) {
	tmpl, err := template.New("management_report.html").Funcs(templateFuncs).
		ParseFS(templateFS, "templates/management_report.html")
	if err != nil {
		return nil, newPrintError(FailTemplate, "parse management report template", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManagementReportRenderer{pdf: pdf, tmpl: tmpl, logger: logger}, nil
}

// RenderHTML renders the report as an HTML document
func (m *ManagementReportRenderer) RenderHTML(r *reportapp.ManagementReportResponse) (string, error) {
	if r == nil {
		return "", newPrintError(FailInput, "management report is nil", nil)
	}
	var buf bytes.Buffer
	if err := m.tmpl.Execute(&buf, r); err != nil {
		return "", newPrintError(FailTemplate, "execute management report template", err)
	}
	return buf.String(), nil
}

// RenderManagementReport renders the report to PDF
func (m *ManagementReportRenderer) RenderManagementReport(ctx context.Context, r *reportapp.ManagementReportResponse) ([]byte, error) {
	html, err := m.RenderHTML(r)
	if err != nil {
		return nil, err
	}
	result, err := m.pdf.Render(ctx, &PrintJob{
		HTML:       html,
		Title:      "Relatório Gerencial - " + r.ProjectName,
		Paper:      PaperA4,
		Margins:    DefaultMargins(),
		FooterHTML: footerTemplate,
	})
	if err != nil {
		return nil, err
	}
	m.logger.Debug("management report printed",
		zap.String("project_id", r.ProjectID.String()),
		zap.Int("pages", result.Pages))
	return result.PDF, nil
}

func label(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

var _ reportapp.ManagementRenderer = (*ManagementReportRenderer)(nil)
