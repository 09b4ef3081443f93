package partner

import (
	"time"

	"github.com/erp-obras/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// =============================================================================
// Vendor DTOs
// =============================================================================

// CreateVendorRequest represents a request to create a vendor
type CreateVendorRequest struct {
	Name        string `json:"nome" binding:"required,min=1,max=200"`
	TaxID       string `json:"cnpj" binding:"max=20"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Phone       string `json:"telefone" binding:"max=50"`
	ContactName string `json:"contato" binding:"max=100"`
	Category    string `json:"categoria" binding:"max=100"`
	Active      *bool  `json:"ativo"`
}

// UpdateVendorRequest represents a request to update a vendor
type UpdateVendorRequest struct {
	Name        *string `json:"nome" binding:"omitempty,min=1,max=200"`
	TaxID       *string `json:"cnpj" binding:"omitempty,max=20"`
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	Phone       *string `json:"telefone" binding:"omitempty,max=50"`
	ContactName *string `json:"contato" binding:"omitempty,max=100"`
	Category    *string `json:"categoria" binding:"omitempty,max=100"`
	Active      *bool   `json:"ativo"`
}

// VendorResponse represents a vendor in API responses
type VendorResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"companyId"`
	Name        string    `json:"nome"`
	TaxID       string    `json:"cnpj"`
	Email       string    `json:"email"`
	Phone       string    `json:"telefone"`
	ContactName string    `json:"contato"`
	Category    string    `json:"categoria"`
	Active      bool      `json:"ativo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VendorListFilter represents filter options for vendor list
type VendorListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"ativo"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

// ToVendorResponse converts a domain Vendor to VendorResponse
func ToVendorResponse(v *partner.Vendor) VendorResponse {
	return VendorResponse{
		ID:          v.ID,
		CompanyID:   v.TenantID,
		Name:        v.Name,
		TaxID:       v.TaxID,
		Email:       v.Email,
		Phone:       v.Phone,
		ContactName: v.ContactName,
		Category:    v.Category,
		Active:      v.Active,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// ToVendorResponses converts a slice of vendors
func ToVendorResponses(vendors []partner.Vendor) []VendorResponse {
	responses := make([]VendorResponse, len(vendors))
	for i := range vendors {
		responses[i] = ToVendorResponse(&vendors[i])
	}
	return responses
}

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	Name       string `json:"nome" binding:"required,min=1,max=200"`
	Document   string `json:"documento" binding:"max=20"`
	Email      string `json:"email" binding:"omitempty,email,max=200"`
	Phone      string `json:"telefone" binding:"max=50"`
	Street     string `json:"endereco" binding:"max=500"`
	City       string `json:"cidade" binding:"max=100"`
	State      string `json:"estado" binding:"omitempty,len=2"`
	PostalCode string `json:"cep" binding:"max=10"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name       *string `json:"nome" binding:"omitempty,min=1,max=200"`
	Document   *string `json:"documento" binding:"omitempty,max=20"`
	Email      *string `json:"email" binding:"omitempty,email,max=200"`
	Phone      *string `json:"telefone" binding:"omitempty,max=50"`
	Street     *string `json:"endereco" binding:"omitempty,max=500"`
	City       *string `json:"cidade" binding:"omitempty,max=100"`
	State      *string `json:"estado" binding:"omitempty,len=2"`
	PostalCode *string `json:"cep" binding:"omitempty,max=10"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID         uuid.UUID `json:"id"`
	CompanyID  uuid.UUID `json:"companyId"`
	Name       string    `json:"nome"`
	Document   string    `json:"documento"`
	Email      string    `json:"email"`
	Phone      string    `json:"telefone"`
	Street     string    `json:"endereco"`
	City       string    `json:"cidade"`
	State      string    `json:"estado"`
	PostalCode string    `json:"cep"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ClientListFilter represents filter options for client list
type ClientListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ID,
		CompanyID:  c.TenantID,
		Name:       c.Name,
		Document:   c.Document,
		Email:      c.Email,
		Phone:      c.Phone,
		Street:     c.Address.Street(),
		City:       c.Address.City(),
		State:      c.Address.State(),
		PostalCode: c.Address.PostalCode(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ToClientResponses converts a slice of clients
func ToClientResponses(clients []partner.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses
}
