package models

import (
	"time"

	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationModel is the persistence model for the Quotation (cotação) aggregate
type QuotationModel struct {
	TenantModel
	ProjectID   uuid.UUID                   `gorm:"type:uuid;not null;index"`
	VendorID    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Description string                      `gorm:"type:text"`
	Amount      decimal.Decimal             `gorm:"type:decimal(18,2);not null;default:0"`
	Status      procurement.QuotationStatus `gorm:"type:varchar(20);not null;default:'REQUESTED'"`
	ReceivedAt  *time.Time
	ApprovedAt  *time.Time
	RejectedAt  *time.Time
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// ToDomain converts the persistence model to a domain Quotation
func (m *QuotationModel) ToDomain() *procurement.Quotation {
	return &procurement.Quotation{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		ProjectID:           m.ProjectID,
		VendorID:            m.VendorID,
		Description:         m.Description,
		Amount:              m.Amount,
		Status:              m.Status,
		ReceivedAt:          m.ReceivedAt,
		ApprovedAt:          m.ApprovedAt,
		RejectedAt:          m.RejectedAt,
	}
}

// QuotationModelFromDomain creates a persistence model from a domain Quotation
func QuotationModelFromDomain(q *procurement.Quotation) *QuotationModel {
	m := &QuotationModel{
		ProjectID:   q.ProjectID,
		VendorID:    q.VendorID,
		Description: q.Description,
		Amount:      q.Amount,
		Status:      q.Status,
		ReceivedAt:  q.ReceivedAt,
		ApprovedAt:  q.ApprovedAt,
		RejectedAt:  q.RejectedAt,
	}
	m.FromDomainTenantAggregateRoot(q.TenantAggregateRoot)
	return m
}

// PurchaseItemModel is the persistence model for purchase list items
type PurchaseItemModel struct {
	TenantModel
	ProjectID     uuid.UUID                  `gorm:"type:uuid;not null;index"`
	StageID       *uuid.UUID                 `gorm:"type:uuid"`
	QuotationID   *uuid.UUID                 `gorm:"type:uuid"`
	Description   string                     `gorm:"type:text;not null"`
	Quantity      decimal.Decimal            `gorm:"type:decimal(18,3);not null;default:1"`
	Unit          string                     `gorm:"type:varchar(20);not null;default:'un'"`
	PlannedAmount decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	PlannedDate   time.Time                  `gorm:"type:date;not null"`
	Status        procurement.PurchaseStatus `gorm:"type:varchar(20);not null;default:'PLANNED'"`
	PurchasedAt   *time.Time
}

// TableName returns the table name for GORM
func (PurchaseItemModel) TableName() string {
	return "purchase_items"
}

// ToDomain converts the persistence model to a domain PurchaseItem
func (m *PurchaseItemModel) ToDomain() *procurement.PurchaseItem {
	return &procurement.PurchaseItem{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		ProjectID:           m.ProjectID,
		StageID:             m.StageID,
		QuotationID:         m.QuotationID,
		Description:         m.Description,
		Quantity:            m.Quantity,
		Unit:                m.Unit,
		PlannedAmount:       m.PlannedAmount,
		PlannedDate:         m.PlannedDate,
		Status:              m.Status,
		PurchasedAt:         m.PurchasedAt,
	}
}

// PurchaseItemModelFromDomain creates a persistence model from a domain PurchaseItem
func PurchaseItemModelFromDomain(i *procurement.PurchaseItem) *PurchaseItemModel {
	m := &PurchaseItemModel{
		ProjectID:     i.ProjectID,
		StageID:       i.StageID,
		QuotationID:   i.QuotationID,
		Description:   i.Description,
		Quantity:      i.Quantity,
		Unit:          i.Unit,
		PlannedAmount: i.PlannedAmount,
		PlannedDate:   i.PlannedDate,
		Status:        i.Status,
		PurchasedAt:   i.PurchasedAt,
	}
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	return m
}
