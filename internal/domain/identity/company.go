package identity

import (
	"fmt"
	"strings"

	"github.com/erp-obras/backend/internal/domain/shared"
)

// AggregateTypeCompany is the aggregate type name for companies
const AggregateTypeCompany = "Company"

// Company is the tenant of the system. Its ID is the tenant id carried by
// every other record.
type Company struct {
	shared.BaseAggregateRoot
	Name   string
	TaxID  string // CNPJ, digits only
	Email  string
	Phone  string
	Active bool
}

// NewCompany creates a new active company
func NewCompany(name, taxID, email, phone string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}
	taxID = digitsOnly(taxID)
	if taxID != "" && len(taxID) != 14 {
		return nil, shared.NewDomainError("INVALID_TAX_ID", "CNPJ must have 14 digits")
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	c := &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		TaxID:             taxID,
		Email:             normalizeEmail(email),
		Phone:             strings.TrimSpace(phone),
		Active:            true,
	}
	c.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeCompany, shared.ActionCreated, c.ID, c.ID,
		fmt.Sprintf("Company %q registered", c.Name)))
	return c, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
