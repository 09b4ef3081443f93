package identity

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyRepository defines persistence for companies
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	// FindAllActive lists active companies; used by cross-tenant sweeps
	FindAllActive(ctx context.Context) ([]Company, error)
	Save(ctx context.Context, company *Company) error
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	shared.Filter
	Role   *Role
	Active *bool
}

// UserRepository defines persistence for users
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter UserFilter) ([]User, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter UserFilter) (int64, error)

	// FindByEmail looks a user up across companies. Emails are globally
	// unique, which is what lets login resolve the tenant.
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	CountAdminsForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, user *User) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// RegistrationStore persists a new company and its first administrator in
// one transaction
type RegistrationStore interface {
	Register(ctx context.Context, company *Company, admin *User) error
}
