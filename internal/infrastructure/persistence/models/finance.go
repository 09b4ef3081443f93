package models

import (
	"time"

	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialEntryModel is the persistence model for financial entries (lançamentos)
type FinancialEntryModel struct {
	TenantModel
	ProjectID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	Type        finance.EntryType   `gorm:"type:varchar(20);not null"`
	VendorID    *uuid.UUID          `gorm:"type:uuid;index"`
	Description string              `gorm:"type:text"`
	Amount      decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate     time.Time           `gorm:"type:date;not null;index"`
	PaymentDate *time.Time          `gorm:"type:date"`
	Status      finance.EntryStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Category    string              `gorm:"type:varchar(100)"`
	SourceType  finance.SourceType  `gorm:"type:varchar(20);not null;default:'MANUAL'"`
	SourceID    *uuid.UUID          `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (FinancialEntryModel) TableName() string {
	return "financial_entries"
}

// ToDomain converts the persistence model to a domain FinancialEntry
func (m *FinancialEntryModel) ToDomain() *finance.FinancialEntry {
	return &finance.FinancialEntry{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		ProjectID:           m.ProjectID,
		Type:                m.Type,
		VendorID:            m.VendorID,
		Description:         m.Description,
		Amount:              m.Amount,
		DueDate:             m.DueDate,
		PaymentDate:         m.PaymentDate,
		Status:              m.Status,
		Category:            m.Category,
		SourceType:          m.SourceType,
		SourceID:            m.SourceID,
	}
}

// FinancialEntryModelFromDomain creates a persistence model from a domain FinancialEntry
func FinancialEntryModelFromDomain(e *finance.FinancialEntry) *FinancialEntryModel {
	m := &FinancialEntryModel{
		ProjectID:   e.ProjectID,
		Type:        e.Type,
		VendorID:    e.VendorID,
		Description: e.Description,
		Amount:      e.Amount,
		DueDate:     e.DueDate,
		PaymentDate: e.PaymentDate,
		Status:      e.Status,
		Category:    e.Category,
		SourceType:  e.SourceType,
		SourceID:    e.SourceID,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}

// InvoiceModel is the persistence model for invoices (notas fiscais)
type InvoiceModel struct {
	TenantModel
	ProjectID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number        string          `gorm:"type:varchar(50);not null"`
	VendorID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IssueDate     time.Time       `gorm:"type:date;not null"`
	EntryID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	AttachmentKey string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	return &finance.Invoice{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		ProjectID:           m.ProjectID,
		Number:              m.Number,
		VendorID:            m.VendorID,
		Amount:              m.Amount,
		IssueDate:           m.IssueDate,
		EntryID:             m.EntryID,
		AttachmentKey:       m.AttachmentKey,
	}
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice
func InvoiceModelFromDomain(i *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		ProjectID:     i.ProjectID,
		Number:        i.Number,
		VendorID:      i.VendorID,
		Amount:        i.Amount,
		IssueDate:     i.IssueDate,
		EntryID:       i.EntryID,
		AttachmentKey: i.AttachmentKey,
	}
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	return m
}
