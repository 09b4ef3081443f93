package procurement

import (
	"time"

	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Quotation DTOs
// =============================================================================

// CreateQuotationRequest represents a request to register a quotation (cotação)
type CreateQuotationRequest struct {
	ProjectID   uuid.UUID       `json:"obraId" binding:"required"`
	VendorID    uuid.UUID       `json:"fornecedorId" binding:"required"`
	Description string          `json:"descricao" binding:"required,min=1,max=500"`
	Amount      decimal.Decimal `json:"valor"`
}

// UpdateQuotationRequest represents a request to update an undecided quotation
type UpdateQuotationRequest struct {
	VendorID    *uuid.UUID       `json:"fornecedorId"`
	Description *string          `json:"descricao" binding:"omitempty,min=1,max=500"`
	Amount      *decimal.Decimal `json:"valor"`
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   uuid.UUID       `json:"companyId"`
	ProjectID   uuid.UUID       `json:"obraId"`
	VendorID    uuid.UUID       `json:"fornecedorId"`
	Description string          `json:"descricao"`
	Amount      decimal.Decimal `json:"valor"`
	Status      string          `json:"status"`
	ReceivedAt  *time.Time      `json:"recebidaEm,omitempty"`
	ApprovedAt  *time.Time      `json:"aprovadaEm,omitempty"`
	RejectedAt  *time.Time      `json:"rejeitadaEm,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// QuotationListFilter represents filter options for the quotation list
type QuotationListFilter struct {
	ProjectID *uuid.UUID `form:"-"`
	VendorID  *uuid.UUID `form:"-"`
	Status    string     `form:"status" binding:"omitempty,oneof=REQUESTED RECEIVED APPROVED REJECTED"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size" binding:"omitempty,max=100"`
}

// ToQuotationResponse converts a domain Quotation to QuotationResponse
func ToQuotationResponse(q *procurement.Quotation) QuotationResponse {
	return QuotationResponse{
		ID:          q.ID,
		CompanyID:   q.TenantID,
		ProjectID:   q.ProjectID,
		VendorID:    q.VendorID,
		Description: q.Description,
		Amount:      q.Amount,
		Status:      q.Status.String(),
		ReceivedAt:  q.ReceivedAt,
		ApprovedAt:  q.ApprovedAt,
		RejectedAt:  q.RejectedAt,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

// ToQuotationResponses converts a slice of quotations
func ToQuotationResponses(quotations []procurement.Quotation) []QuotationResponse {
	responses := make([]QuotationResponse, len(quotations))
	for i := range quotations {
		responses[i] = ToQuotationResponse(&quotations[i])
	}
	return responses
}

// =============================================================================
// Purchase list DTOs
// =============================================================================

// CreatePurchaseItemRequest represents a request to plan a purchase
type CreatePurchaseItemRequest struct {
	ProjectID     uuid.UUID       `json:"obraId" binding:"required"`
	StageID       *uuid.UUID      `json:"etapaId"`
	Description   string          `json:"descricao" binding:"required,min=1,max=500"`
	Quantity      decimal.Decimal `json:"quantidade"`
	Unit          string          `json:"unidade" binding:"max=20"`
	PlannedAmount decimal.Decimal `json:"valorPrevisto"`
	PlannedDate   string          `json:"dataPrevista" binding:"required,datetime=2006-01-02"`
}

// UpdatePurchaseItemRequest represents a request to update a purchase item
type UpdatePurchaseItemRequest struct {
	StageID       *uuid.UUID       `json:"etapaId"`
	Description   *string          `json:"descricao" binding:"omitempty,min=1,max=500"`
	Quantity      *decimal.Decimal `json:"quantidade"`
	Unit          *string          `json:"unidade" binding:"omitempty,max=20"`
	PlannedAmount *decimal.Decimal `json:"valorPrevisto"`
	PlannedDate   *string          `json:"dataPrevista" binding:"omitempty,datetime=2006-01-02"`
}

// PurchaseItemResponse represents a purchase list item in API responses
type PurchaseItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"companyId"`
	ProjectID     uuid.UUID       `json:"obraId"`
	StageID       *uuid.UUID      `json:"etapaId,omitempty"`
	QuotationID   *uuid.UUID      `json:"cotacaoId,omitempty"`
	Description   string          `json:"descricao"`
	Quantity      decimal.Decimal `json:"quantidade"`
	Unit          string          `json:"unidade"`
	PlannedAmount decimal.Decimal `json:"valorPrevisto"`
	PlannedDate   string          `json:"dataPrevista"`
	Status        string          `json:"status"`
	PurchasedAt   *time.Time      `json:"compradoEm,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// PurchaseItemListFilter represents filter options for the purchase list
type PurchaseItemListFilter struct {
	ProjectID *uuid.UUID `form:"-"`
	Status    string     `form:"status" binding:"omitempty,oneof=PLANNED PURCHASED"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size" binding:"omitempty,max=100"`
}

// ToPurchaseItemResponse converts a domain PurchaseItem to PurchaseItemResponse
func ToPurchaseItemResponse(i *procurement.PurchaseItem) PurchaseItemResponse {
	return PurchaseItemResponse{
		ID:            i.ID,
		CompanyID:     i.TenantID,
		ProjectID:     i.ProjectID,
		StageID:       i.StageID,
		QuotationID:   i.QuotationID,
		Description:   i.Description,
		Quantity:      i.Quantity,
		Unit:          i.Unit,
		PlannedAmount: i.PlannedAmount,
		PlannedDate:   shared.FormatDate(i.PlannedDate),
		Status:        i.Status.String(),
		PurchasedAt:   i.PurchasedAt,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// ToPurchaseItemResponses converts a slice of purchase items
func ToPurchaseItemResponses(items []procurement.PurchaseItem) []PurchaseItemResponse {
	responses := make([]PurchaseItemResponse, len(items))
	for i := range items {
		responses[i] = ToPurchaseItemResponse(&items[i])
	}
	return responses
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
