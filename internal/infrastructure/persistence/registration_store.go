package persistence

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/identity"
	"github.com/erp-obras/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRegistrationStore writes a company and its admin together
type GormRegistrationStore struct {
	db *gorm.DB
}

// NewGormRegistrationStore creates a new GormRegistrationStore
func NewGormRegistrationStore(db *gorm.DB) *GormRegistrationStore {
	return &GormRegistrationStore{db: db}
}

// Register inserts both rows or neither
func (s *GormRegistrationStore) Register(ctx context.Context, company *identity.Company, admin *identity.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.CompanyModelFromDomain(company)).Error; err != nil {
			return err
		}
		return tx.Create(models.UserModelFromDomain(admin)).Error
	})
}

var _ identity.RegistrationStore = (*GormRegistrationStore)(nil)
