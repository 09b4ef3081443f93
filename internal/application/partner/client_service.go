package partner

import (
	"context"
	"errors"

	appevent "github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/domain/partner"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientService handles client (cliente) operations
type ClientService struct {
	clientRepo     partner.ClientRepository
	projectRepo    project.ProjectRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(
	clientRepo partner.ClientRepository,
	projectRepo project.ProjectRepository,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ClientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, tenantID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := client.SetDocument(req.Document); err != nil {
		return nil, err
	}
	if err := client.SetContact(req.Phone, req.Email); err != nil {
		return nil, err
	}
	addr, err := valueobject.NewAddress(req.Street, req.City, req.State, req.PostalCode)
	if err != nil {
		return nil, shared.NewValidationError("%s", err.Error())
	}
	client.SetAddress(addr)

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, client)

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.find(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves clients with pagination
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, filter ClientListFilter) ([]ClientResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := partner.ClientFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "name",
			OrderDir: "asc",
			Search:   filter.Search,
		},
	}

	clients, err := s.clientRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToClientResponses(clients), total, nil
}

// Update updates a client
func (s *ClientService) Update(ctx context.Context, tenantID, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.find(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := client.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Document != nil {
		if err := client.SetDocument(*req.Document); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil || req.Email != nil {
		phone, email := client.Phone, client.Email
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := client.SetContact(phone, email); err != nil {
			return nil, err
		}
	}
	if req.Street != nil || req.City != nil || req.State != nil || req.PostalCode != nil {
		street, city, state, cep := client.Address.Street(), client.Address.City(), client.Address.State(), client.Address.PostalCode()
		if req.Street != nil {
			street = *req.Street
		}
		if req.City != nil {
			city = *req.City
		}
		if req.State != nil {
			state = *req.State
		}
		if req.PostalCode != nil {
			cep = *req.PostalCode
		}
		addr, err := valueobject.NewAddress(street, city, state, cep)
		if err != nil {
			return nil, shared.NewValidationError("%s", err.Error())
		}
		client.SetAddress(addr)
	}
	client.MarkUpdated()

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, client)

	response := ToClientResponse(client)
	return &response, nil
}

// Delete deletes a client. Projects reference clients by name, so a
// client whose name is used by any project cannot be deleted.
func (s *ClientService) Delete(ctx context.Context, tenantID, clientID uuid.UUID) error {
	client, err := s.find(ctx, tenantID, clientID)
	if err != nil {
		return err
	}

	projects, err := s.projectRepo.CountByClientNameForTenant(ctx, tenantID, client.Name)
	if err != nil {
		return err
	}
	if projects > 0 {
		return shared.NewDependencyError("Cannot delete client: %d project(s) reference it", projects)
	}

	if err := s.clientRepo.DeleteForTenant(ctx, tenantID, clientID); err != nil {
		return err
	}

	s.logger.Info("Client deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("client_id", clientID.String()))

	client.MarkDeleted()
	appevent.PublishPending(ctx, s.eventPublisher, s.logger, client)
	return nil
}

func (s *ClientService) find(ctx context.Context, tenantID, clientID uuid.UUID) (*partner.Client, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Client")
		}
		return nil, err
	}
	return client, nil
}
