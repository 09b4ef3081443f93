package models

import (
	"github.com/erp-obras/backend/internal/domain/partner"
	"github.com/erp-obras/backend/internal/domain/shared/valueobject"
)

// VendorModel is the persistence model for the Vendor (fornecedor) entity
type VendorModel struct {
	TenantModel
	Name        string `gorm:"type:varchar(200);not null"`
	TaxID       string `gorm:"column:tax_id;type:varchar(14)"`
	Email       string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
	ContactName string `gorm:"type:varchar(100)"`
	Category    string `gorm:"type:varchar(100)"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (VendorModel) TableName() string {
	return "vendors"
}

// ToDomain converts the persistence model to a domain Vendor
func (m *VendorModel) ToDomain() *partner.Vendor {
	return &partner.Vendor{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		TaxID:               m.TaxID,
		Email:               m.Email,
		Phone:               m.Phone,
		ContactName:         m.ContactName,
		Category:            m.Category,
		Active:              m.Active,
	}
}

// VendorModelFromDomain creates a persistence model from a domain Vendor
func VendorModelFromDomain(v *partner.Vendor) *VendorModel {
	m := &VendorModel{
		Name:        v.Name,
		TaxID:       v.TaxID,
		Email:       v.Email,
		Phone:       v.Phone,
		ContactName: v.ContactName,
		Category:    v.Category,
		Active:      v.Active,
	}
	m.FromDomainTenantAggregateRoot(v.TenantAggregateRoot)
	return m
}

// ClientModel is the persistence model for the Client (cliente) entity
type ClientModel struct {
	TenantModel
	Name       string `gorm:"type:varchar(200);not null"`
	Document   string `gorm:"type:varchar(14)"`
	Email      string `gorm:"type:varchar(200)"`
	Phone      string `gorm:"type:varchar(50)"`
	Street     string `gorm:"type:varchar(300)"`
	City       string `gorm:"type:varchar(100)"`
	State      string `gorm:"type:varchar(2)"`
	PostalCode string `gorm:"type:varchar(8)"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		Document:            m.Document,
		Email:               m.Email,
		Phone:               m.Phone,
		Address:             valueobject.RestoreAddress(m.Street, m.City, m.State, m.PostalCode),
	}
}

// ClientModelFromDomain creates a persistence model from a domain Client
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{
		Name:       c.Name,
		Document:   c.Document,
		Email:      c.Email,
		Phone:      c.Phone,
		Street:     c.Address.Street(),
		City:       c.Address.City(),
		State:      c.Address.State(),
		PostalCode: c.Address.PostalCode(),
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}
