package finance

import (
	"time"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Financial entry DTOs
// =============================================================================

// CreateEntryRequest represents a request to create a financial entry (lançamento)
type CreateEntryRequest struct {
	ProjectID   uuid.UUID       `json:"obraId" binding:"required"`
	Type        string          `json:"tipo" binding:"required,oneof=REVENUE EXPENSE"`
	VendorID    *uuid.UUID      `json:"fornecedorId"`
	Description string          `json:"descricao" binding:"required,min=1,max=500"`
	Amount      decimal.Decimal `json:"valor"`
	DueDate     string          `json:"dataVencimento" binding:"required,datetime=2006-01-02"`
	Category    string          `json:"categoria" binding:"max=100"`
	Status      string          `json:"status" binding:"omitempty,oneof=PENDING PAID"`
	PaymentDate *string         `json:"dataPagamento" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateEntryRequest represents a request to update a financial entry
type UpdateEntryRequest struct {
	Type        *string          `json:"tipo" binding:"omitempty,oneof=REVENUE EXPENSE"`
	VendorID    *uuid.UUID       `json:"fornecedorId"`
	Description *string          `json:"descricao" binding:"omitempty,min=1,max=500"`
	Amount      *decimal.Decimal `json:"valor"`
	DueDate     *string          `json:"dataVencimento" binding:"omitempty,datetime=2006-01-02"`
	Category    *string          `json:"categoria" binding:"omitempty,max=100"`
	Status      *string          `json:"status" binding:"omitempty,oneof=PENDING PAID OVERDUE"`
	PaymentDate *string          `json:"dataPagamento" binding:"omitempty,datetime=2006-01-02"`
}

// PayEntryRequest represents a request to settle an entry
type PayEntryRequest struct {
	PaymentDate *string `json:"dataPagamento" binding:"omitempty,datetime=2006-01-02"`
}

// EntryResponse represents a financial entry in API responses
type EntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   uuid.UUID       `json:"companyId"`
	ProjectID   uuid.UUID       `json:"obraId"`
	Type        string          `json:"tipo"`
	VendorID    *uuid.UUID      `json:"fornecedorId,omitempty"`
	Description string          `json:"descricao"`
	Amount      decimal.Decimal `json:"valor"`
	DueDate     string          `json:"dataVencimento"`
	PaymentDate *string         `json:"dataPagamento"`
	Status      string          `json:"status"`
	Category    string          `json:"categoria,omitempty"`
	SourceType  string          `json:"origemTipo,omitempty"`
	SourceID    *uuid.UUID      `json:"origemId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// EntryListFilter represents filter options for the entry list
type EntryListFilter struct {
	ProjectID *uuid.UUID `form:"-"`
	VendorID  *uuid.UUID `form:"-"`
	Type      string     `form:"tipo" binding:"omitempty,oneof=REVENUE EXPENSE"`
	Status    string     `form:"status" binding:"omitempty,oneof=PENDING PAID OVERDUE"`
	Search    string     `form:"search"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size" binding:"omitempty,max=100"`
}

// ToEntryResponse converts a domain FinancialEntry to EntryResponse
func ToEntryResponse(e *finance.FinancialEntry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		CompanyID:   e.TenantID,
		ProjectID:   e.ProjectID,
		Type:        e.Type.String(),
		VendorID:    e.VendorID,
		Description: e.Description,
		Amount:      e.Amount,
		DueDate:     shared.FormatDate(e.DueDate),
		PaymentDate: shared.FormatDatePtr(e.PaymentDate),
		Status:      e.Status.String(),
		Category:    e.Category,
		SourceType:  string(e.SourceType),
		SourceID:    e.SourceID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ToEntryResponses converts a slice of entries
func ToEntryResponses(entries []finance.FinancialEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}

// OverdueSweepResponse reports the outcome of an overdue update
type OverdueSweepResponse struct {
	Updated int64 `json:"atualizados"`
}

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to register an invoice (nota fiscal)
type CreateInvoiceRequest struct {
	ProjectID uuid.UUID       `json:"obraId" binding:"required"`
	Number    string          `json:"numero" binding:"required,min=1,max=50"`
	VendorID  uuid.UUID       `json:"fornecedorId" binding:"required"`
	Amount    decimal.Decimal `json:"valor"`
	IssueDate string          `json:"dataEmissao" binding:"required,datetime=2006-01-02"`
	EntryID   uuid.UUID       `json:"lancamentoId" binding:"required"`
}

// UpdateInvoiceRequest represents a request to update an invoice
type UpdateInvoiceRequest struct {
	Number    *string          `json:"numero" binding:"omitempty,min=1,max=50"`
	VendorID  *uuid.UUID       `json:"fornecedorId"`
	Amount    *decimal.Decimal `json:"valor"`
	IssueDate *string          `json:"dataEmissao" binding:"omitempty,datetime=2006-01-02"`
	EntryID   *uuid.UUID       `json:"lancamentoId"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   uuid.UUID       `json:"companyId"`
	ProjectID   uuid.UUID       `json:"obraId"`
	Number      string          `json:"numero"`
	VendorID    uuid.UUID       `json:"fornecedorId"`
	Amount      decimal.Decimal `json:"valor"`
	IssueDate   string          `json:"dataEmissao"`
	EntryID     uuid.UUID       `json:"lancamentoId"`
	HasDocument bool            `json:"possuiArquivo"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	ProjectID *uuid.UUID `form:"-"`
	VendorID  *uuid.UUID `form:"-"`
	Search    string     `form:"search"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size" binding:"omitempty,max=100"`
}

// DocumentUploadRequest represents a request for an invoice document upload URL
type DocumentUploadRequest struct {
	FileName    string `json:"fileName" binding:"required,min=1,max=200"`
	ContentType string `json:"contentType" binding:"required,oneof=application/pdf image/jpeg image/png application/xml text/xml"`
}

// DocumentURLResponse carries a presigned document URL
type DocumentURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	Key       string    `json:"key"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(i *finance.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:          i.ID,
		CompanyID:   i.TenantID,
		ProjectID:   i.ProjectID,
		Number:      i.Number,
		VendorID:    i.VendorID,
		Amount:      i.Amount,
		IssueDate:   shared.FormatDate(i.IssueDate),
		EntryID:     i.EntryID,
		HasDocument: i.HasDocument(),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// =============================================================================
// Roll-up DTOs
// =============================================================================

// SummaryResponse is the budget summary of a project
type SummaryResponse struct {
	ProjectID        uuid.UUID       `json:"obraId"`
	TotalBudget      decimal.Decimal `json:"totalOrcado"`
	TotalPaid        decimal.Decimal `json:"totalPago"`
	TotalPending     decimal.Decimal `json:"totalPendente"`
	TotalPayable     decimal.Decimal `json:"totalAPagar"`
	RemainingBalance decimal.Decimal `json:"saldoRestante"`
	ExecutedPercent  int             `json:"percentualExecutado"`
}

// DeviationResponse is the budget deviation of a project
type DeviationResponse struct {
	ProjectID        uuid.UUID       `json:"obraId"`
	TotalBudget      decimal.Decimal `json:"totalOrcado"`
	TotalRealized    decimal.Decimal `json:"totalRealizado"`
	Deviation        decimal.Decimal `json:"desvio"`
	DeviationPercent int             `json:"desvioPercent"`
	Classification   string          `json:"classificacao"`
}

// CashFlowResponse is the cash-flow projection of a project
type CashFlowResponse struct {
	ProjectID           uuid.UUID       `json:"obraId"`
	TotalPayable        decimal.Decimal `json:"totalAPagar"`
	PlannedPurchases    decimal.Decimal `json:"comprasPlanejadas"`
	PendingMeasurements decimal.Decimal `json:"medicoesPendentes"`
	Projection          decimal.Decimal `json:"projecaoTotal"`
	Budget              decimal.Decimal `json:"orcamento"`
	Risk                string          `json:"risco"`
}

// PeriodRequest selects a project's entries due within a date range
type PeriodRequest struct {
	ProjectID uuid.UUID `form:"-"`
	Start     string    `form:"inicio" binding:"required,datetime=2006-01-02"`
	End       string    `form:"fim" binding:"required,datetime=2006-01-02"`
}

// PeriodResponse lists the entries of a period with their totals
type PeriodResponse struct {
	ProjectID     uuid.UUID       `json:"obraId"`
	Start         string          `json:"inicio"`
	End           string          `json:"fim"`
	Entries       []EntryResponse `json:"lancamentos"`
	TotalRevenue  decimal.Decimal `json:"totalReceitas"`
	TotalExpense  decimal.Decimal `json:"totalDespesas"`
	TotalPaid     decimal.Decimal `json:"totalPago"`
	TotalOpen     decimal.Decimal `json:"totalEmAberto"`
	OverdueCount  int             `json:"vencidos"`
	ProjectName   string          `json:"obraNome"`
	ProjectBudget decimal.Decimal `json:"orcamento"`
}

func toSummaryResponse(projectID uuid.UUID, s finance.Summary) SummaryResponse {
	return SummaryResponse{
		ProjectID:        projectID,
		TotalBudget:      s.TotalBudget,
		TotalPaid:        s.TotalPaid,
		TotalPending:     s.TotalPending,
		TotalPayable:     s.TotalPending,
		RemainingBalance: s.RemainingBalance,
		ExecutedPercent:  s.ExecutedPercent,
	}
}

func toDeviationResponse(projectID uuid.UUID, d finance.Deviation) DeviationResponse {
	return DeviationResponse{
		ProjectID:        projectID,
		TotalBudget:      d.TotalBudget,
		TotalRealized:    d.TotalRealized,
		Deviation:        d.Deviation,
		DeviationPercent: d.DeviationPercent,
		Classification:   d.Classification,
	}
}

func toCashFlowResponse(projectID uuid.UUID, c finance.CashFlow) CashFlowResponse {
	return CashFlowResponse{
		ProjectID:           projectID,
		TotalPayable:        c.TotalPayable,
		PlannedPurchases:    c.PlannedPurchases,
		PendingMeasurements: c.PendingMeasurements,
		Projection:          c.Projection,
		Budget:              c.Budget,
		Risk:                c.Risk,
	}
}

func pageDefaults(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return page, pageSize
}
