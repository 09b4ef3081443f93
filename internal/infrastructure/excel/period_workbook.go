// Package excel writes financial statements as XLSX workbooks.
package excel

import (
	"fmt"

	financeapp "github.com/erp-obras/backend/internal/application/finance"
	reportapp "github.com/erp-obras/backend/internal/application/report"
	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// PeriodSheet is the name of the entries sheet
const PeriodSheet = "Lancamentos"

const moneyFormat = "#,##0.00"

var (
	periodHeaders = []string{"Vencimento", "Pagamento", "Tipo", "Descrição", "Categoria", "Status", "Valor"}
	periodWidths  = []float64{13, 13, 10, 42, 18, 12, 16}

	typeLabels = map[string]string{
		string(finance.EntryTypeRevenue): "Receita",
		string(finance.EntryTypeExpense): "Despesa",
	}
	statusLabels = map[string]string{
		string(finance.EntryStatusPending): "Pendente",
		string(finance.EntryStatusPaid):    "Pago",
		string(finance.EntryStatusOverdue): "Vencido",
	}
)

// PeriodWorkbookWriter renders period statements with excelize
type PeriodWorkbookWriter struct{}

// NewPeriodWorkbookWriter creates a PeriodWorkbookWriter
func NewPeriodWorkbookWriter() *PeriodWorkbookWriter {
	return &PeriodWorkbookWriter{}
}

// WritePeriod writes the entries of a period followed by its totals
func (w *PeriodWorkbookWriter) WritePeriod(p *financeapp.PeriodResponse) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("period statement is nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PeriodSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("%s - lançamentos de %s a %s", p.ProjectName, p.Start, p.End)
	if err := f.SetCellValue(PeriodSheet, "A1", title); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(PeriodSheet, "A1", "A1", styles.title)
	_ = f.MergeCell(PeriodSheet, "A1", "G1")

	const headerRow = 3
	for i, h := range periodHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(PeriodSheet, cell, h)
	}
	_ = f.SetCellStyle(PeriodSheet, "A3", "G3", styles.header)

	row := headerRow + 1
	for _, e := range p.Entries {
		paid := ""
		if e.PaymentDate != nil {
			paid = *e.PaymentDate
		}
		values := []interface{}{
			e.DueDate, paid, label(typeLabels, e.Type), e.Description,
			e.Category, label(statusLabels, e.Status), amount(e.Amount),
		}
		if err := f.SetSheetRow(PeriodSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, fmt.Errorf("write entry row: %w", err)
		}
		_ = f.SetCellStyle(PeriodSheet, fmt.Sprintf("G%d", row), fmt.Sprintf("G%d", row), styles.money)
		row++
	}

	row++
	totals := []struct {
		label string
		value decimal.Decimal
	}{
		{"Total receitas", p.TotalRevenue},
		{"Total despesas", p.TotalExpense},
		{"Total pago", p.TotalPaid},
		{"Total em aberto", p.TotalOpen},
		{"Orçamento da obra", p.ProjectBudget},
	}
	for _, t := range totals {
		_ = f.SetCellValue(PeriodSheet, fmt.Sprintf("F%d", row), t.label)
		_ = f.SetCellValue(PeriodSheet, fmt.Sprintf("G%d", row), amount(t.value))
		_ = f.SetCellStyle(PeriodSheet, fmt.Sprintf("F%d", row), fmt.Sprintf("F%d", row), styles.bold)
		_ = f.SetCellStyle(PeriodSheet, fmt.Sprintf("G%d", row), fmt.Sprintf("G%d", row), styles.totalMoney)
		row++
	}
	_ = f.SetCellValue(PeriodSheet, fmt.Sprintf("F%d", row), "Lançamentos vencidos")
	_ = f.SetCellValue(PeriodSheet, fmt.Sprintf("G%d", row), p.OverdueCount)
	_ = f.SetCellStyle(PeriodSheet, fmt.Sprintf("F%d", row), fmt.Sprintf("F%d", row), styles.bold)

	for i, width := range periodWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(PeriodSheet, col, col, width)
	}
	_ = f.SetPanes(PeriodSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type workbookStyles struct {
	title      int
	header     int
	bold       int
	money      int
	totalMoney int
}

func newStyles(f *excelize.File) (*workbookStyles, error) {
	moneyFmt := moneyFormat
	var s workbookStyles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#8EA9DB", Style: 1},
		},
	}); err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	if s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt}); err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	if s.totalMoney, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &moneyFmt,
	}); err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	return &s, nil
}

func amount(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func label(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

var _ reportapp.PeriodWorkbookWriter = (*PeriodWorkbookWriter)(nil)
