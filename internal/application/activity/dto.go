package activity

import (
	"time"

	"github.com/erp-obras/backend/internal/domain/activity"
	"github.com/google/uuid"
)

// AppendRequest represents a client-submitted activity record
type AppendRequest struct {
	Action      string         `json:"acao" binding:"required,min=1,max=100"`
	EntityType  string         `json:"entidade" binding:"max=100"`
	EntityID    *uuid.UUID     `json:"entidadeId"`
	Description string         `json:"descricao" binding:"max=1000"`
	Details     map[string]any `json:"detalhes"`
}

// EntryResponse represents an activity record in API responses
type EntryResponse struct {
	ID          uuid.UUID      `json:"id"`
	CompanyID   uuid.UUID      `json:"companyId"`
	UserID      *uuid.UUID     `json:"userId"`
	Action      string         `json:"acao"`
	EntityType  string         `json:"entidade"`
	EntityID    *uuid.UUID     `json:"entidadeId"`
	Description string         `json:"descricao"`
	Details     map[string]any `json:"detalhes"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ListFilter represents filter options for the activity list
type ListFilter struct {
	EntityType string     `form:"entidade"`
	EntityID   *uuid.UUID `form:"-"`
	UserID     *uuid.UUID `form:"-"`
	Limit      int        `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ToEntryResponse converts a domain Entry to EntryResponse
func ToEntryResponse(e *activity.Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		CompanyID:   e.TenantID,
		UserID:      e.UserID,
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Description: e.Description,
		Details:     e.Details,
		CreatedAt:   e.CreatedAt,
	}
}
