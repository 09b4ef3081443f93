package partner

import (
	"fmt"
	"strings"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AggregateTypeClient is the aggregate type name of Client
const AggregateTypeClient = "Client"

// Client (cliente) is the owner of one or more projects
type Client struct {
	shared.TenantAggregateRoot
	Name     string
	Document string // CPF or CNPJ digits
	Email    string
	Phone    string
	Address  valueobject.Address
}

// NewClient creates a client
func NewClient(tenantID uuid.UUID, name string) (*Client, error) {
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}
	c := &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
	}
	c.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeClient, shared.ActionCreated, c.ID, tenantID,
		fmt.Sprintf("Client %q created", c.Name)))
	return c, nil
}

// Rename changes the client name
func (c *Client) Rename(name string) error {
	if err := validatePartnerName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Touch()
	return nil
}

// SetContact sets phone and email
func (c *Client) SetContact(phone, email string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	c.Phone = strings.TrimSpace(phone)
	c.Email = email
	c.Touch()
	return nil
}

// SetDocument sets the CPF/CNPJ, keeping digits only
func (c *Client) SetDocument(document string) error {
	digits, err := normalizeTaxID(document)
	if err != nil {
		return err
	}
	c.Document = digits
	c.Touch()
	return nil
}

// SetAddress sets the client address
func (c *Client) SetAddress(addr valueobject.Address) {
	c.Address = addr
	c.Touch()
}

// MarkUpdated raises the update event
func (c *Client) MarkUpdated() {
	c.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeClient, shared.ActionUpdated, c.ID, c.TenantID,
		fmt.Sprintf("Client %q updated", c.Name)))
}

// MarkDeleted raises the deletion event
func (c *Client) MarkDeleted() {
	c.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeClient, shared.ActionDeleted, c.ID, c.TenantID,
		fmt.Sprintf("Client %q deleted", c.Name)))
}
