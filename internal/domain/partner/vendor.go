package partner

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeVendor is the aggregate type name of Vendor
const AggregateTypeVendor = "Vendor"

// Vendor (fornecedor) supplies materials or services to projects
type Vendor struct {
	shared.TenantAggregateRoot
	Name        string
	TaxID       string // CNPJ or CPF digits
	Email       string
	Phone       string
	ContactName string
	Category    string
	Active      bool
}

// NewVendor creates an active vendor
func NewVendor(tenantID uuid.UUID, name string) (*Vendor, error) {
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}
	v := &Vendor{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Active:              true,
	}
	v.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeVendor, shared.ActionCreated, v.ID, tenantID,
		fmt.Sprintf("Vendor %q created", v.Name)))
	return v, nil
}

// Rename changes the vendor name
func (v *Vendor) Rename(name string) error {
	if err := validatePartnerName(name); err != nil {
		return err
	}
	v.Name = strings.TrimSpace(name)
	v.Touch()
	return nil
}

// SetContact sets the vendor's contact information
func (v *Vendor) SetContact(contactName, phone, email string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	v.ContactName = strings.TrimSpace(contactName)
	v.Phone = strings.TrimSpace(phone)
	v.Email = email
	v.Touch()
	return nil
}

// SetTaxID sets the CNPJ/CPF, keeping digits only
func (v *Vendor) SetTaxID(taxID string) error {
	digits, err := normalizeTaxID(taxID)
	if err != nil {
		return err
	}
	v.TaxID = digits
	v.Touch()
	return nil
}

// SetCategory sets the supply category (e.g. "Concreto", "Elétrica")
func (v *Vendor) SetCategory(category string) {
	v.Category = strings.TrimSpace(category)
	v.Touch()
}

// SetActive activates or deactivates the vendor
func (v *Vendor) SetActive(active bool) {
	v.Active = active
	v.Touch()
}

// MarkUpdated raises the update event
func (v *Vendor) MarkUpdated() {
	v.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeVendor, shared.ActionUpdated, v.ID, v.TenantID,
		fmt.Sprintf("Vendor %q updated", v.Name)))
}

// MarkDeleted raises the deletion event
func (v *Vendor) MarkDeleted() {
	v.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeVendor, shared.ActionDeleted, v.ID, v.TenantID,
		fmt.Sprintf("Vendor %q deleted", v.Name)))
}

func validatePartnerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// normalizeTaxID strips punctuation and accepts CPF (11) or CNPJ (14) digits
func normalizeTaxID(taxID string) (string, error) {
	var b strings.Builder
	for _, r := range taxID {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", nil
	}
	if len(digits) != 11 && len(digits) != 14 {
		return "", shared.NewDomainError("INVALID_TAX_ID", "Document must be a CPF (11 digits) or CNPJ (14 digits)")
	}
	return digits, nil
}
