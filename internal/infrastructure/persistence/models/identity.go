package models

import (
	"time"

	"github.com/erp-obras/backend/internal/domain/identity"
	"github.com/erp-obras/backend/internal/domain/shared"
)

// CompanyModel is the persistence model for the Company aggregate
type CompanyModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(200);not null"`
	TaxID  string `gorm:"column:tax_id;type:varchar(14);index"`
	Email  string `gorm:"type:varchar(200)"`
	Phone  string `gorm:"type:varchar(50)"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company
func (m *CompanyModel) ToDomain() *identity.Company {
	return &identity.Company{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		Name:              m.Name,
		TaxID:             m.TaxID,
		Email:             m.Email,
		Phone:             m.Phone,
		Active:            m.Active,
	}
}

// CompanyModelFromDomain creates a persistence model from a domain Company
func CompanyModelFromDomain(c *identity.Company) *CompanyModel {
	m := &CompanyModel{
		Name:   c.Name,
		TaxID:  c.TaxID,
		Email:  c.Email,
		Phone:  c.Phone,
		Active: c.Active,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	TenantModel
	Name                  string        `gorm:"type:varchar(200);not null"`
	Email                 string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash          string        `gorm:"type:varchar(255);not null"`
	Role                  identity.Role `gorm:"type:varchar(20);not null;default:'USER'"`
	EmailVerified         bool          `gorm:"not null;default:false"`
	Active                bool          `gorm:"not null;default:true"`
	VerificationTokenHash string        `gorm:"type:varchar(255)"`
	FailedAttempts        int           `gorm:"not null;default:0"`
	LockedUntil           *time.Time
	LastLoginAt           *time.Time
	LastLoginIP           string `gorm:"column:last_login_ip;type:varchar(45)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot:   m.TenantAggregateRoot(),
		Name:                  m.Name,
		Email:                 m.Email,
		PasswordHash:          m.PasswordHash,
		Role:                  m.Role,
		EmailVerified:         m.EmailVerified,
		Active:                m.Active,
		VerificationTokenHash: m.VerificationTokenHash,
		FailedAttempts:        m.FailedAttempts,
		LockedUntil:           m.LockedUntil,
		LastLoginAt:           m.LastLoginAt,
		LastLoginIP:           m.LastLoginIP,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Name:                  u.Name,
		Email:                 u.Email,
		PasswordHash:          u.PasswordHash,
		Role:                  u.Role,
		EmailVerified:         u.EmailVerified,
		Active:                u.Active,
		VerificationTokenHash: u.VerificationTokenHash,
		FailedAttempts:        u.FailedAttempts,
		LockedUntil:           u.LockedUntil,
		LastLoginAt:           u.LastLoginAt,
		LastLoginIP:           u.LastLoginIP,
	}
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	return m
}
