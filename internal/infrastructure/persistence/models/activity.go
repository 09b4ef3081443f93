package models

import (
	"encoding/json"
	"time"

	"github.com/erp-obras/backend/internal/domain/activity"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityLogModel is the persistence model for audit rows
type ActivityLogModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_activity_tenant_created,priority:1"`
	UserID      *uuid.UUID     `gorm:"type:uuid"`
	Action      string         `gorm:"type:varchar(100);not null"`
	EntityType  string         `gorm:"type:varchar(50)"`
	EntityID    *uuid.UUID     `gorm:"type:uuid"`
	Description string         `gorm:"type:text"`
	Details     datatypes.JSON `gorm:"column:details"`
	CreatedAt   time.Time      `gorm:"not null;index:idx_activity_tenant_created,priority:2"`
}

// TableName returns the table name for GORM
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// ToDomain converts the persistence model to a domain activity Entry
func (m *ActivityLogModel) ToDomain() *activity.Entry {
	details := map[string]any{}
	if len(m.Details) > 0 {
		_ = json.Unmarshal(m.Details, &details)
	}
	return &activity.Entry{
		ID:          m.ID,
		TenantID:    m.TenantID,
		UserID:      m.UserID,
		Action:      m.Action,
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		Description: m.Description,
		Details:     details,
		CreatedAt:   m.CreatedAt,
	}
}

// ActivityLogModelFromDomain creates a persistence model from a domain Entry
func ActivityLogModelFromDomain(e *activity.Entry) (*ActivityLogModel, error) {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return nil, err
	}
	return &ActivityLogModel{
		ID:          e.ID,
		TenantID:    e.TenantID,
		UserID:      e.UserID,
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Description: e.Description,
		Details:     datatypes.JSON(details),
		CreatedAt:   e.CreatedAt,
	}, nil
}
