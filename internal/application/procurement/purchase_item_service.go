package procurement

import (
	"context"
	"errors"
	"time"

	appevent "github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseItemService handles the purchase list (lista de compras)
type PurchaseItemService struct {
	itemRepo       procurement.PurchaseItemRepository
	projectRepo    project.ProjectRepository
	stageRepo      project.StageRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewPurchaseItemService creates a new PurchaseItemService
func NewPurchaseItemService(
	itemRepo procurement.PurchaseItemRepository,
	projectRepo project.ProjectRepository,
	stageRepo project.StageRepository,
	logger *zap.Logger,
) *PurchaseItemService {
	return &PurchaseItemService{
		itemRepo:    itemRepo,
		projectRepo: projectRepo,
		stageRepo:   stageRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *PurchaseItemService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create plans a purchase
func (s *PurchaseItemService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseItemRequest) (*PurchaseItemResponse, error) {
	plannedDate, err := shared.ParseDateField("dataPrevista", req.PlannedDate)
	if err != nil {
		return nil, err
	}
	if err := checkProject(ctx, s.projectRepo, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	if err := s.checkStage(ctx, tenantID, req.ProjectID, req.StageID); err != nil {
		return nil, err
	}

	item, err := procurement.NewPurchaseItem(tenantID, req.ProjectID, procurement.PurchaseItemDetails{
		StageID:       req.StageID,
		Description:   req.Description,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		PlannedAmount: req.PlannedAmount,
		PlannedDate:   plannedDate,
	})
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, item)

	response := ToPurchaseItemResponse(item)
	return &response, nil
}

// GetByID retrieves a purchase item by ID
func (s *PurchaseItemService) GetByID(ctx context.Context, tenantID, itemID uuid.UUID) (*PurchaseItemResponse, error) {
	item, err := s.find(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseItemResponse(item)
	return &response, nil
}

// List retrieves purchase items ordered by planned date
func (s *PurchaseItemService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseItemListFilter) ([]PurchaseItemResponse, int64, error) {
	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	domainFilter := procurement.PurchaseItemFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  "planned_date",
			OrderDir: "asc",
		},
		ProjectID: filter.ProjectID,
	}
	if filter.Status != "" {
		status := procurement.PurchaseStatus(filter.Status)
		domainFilter.Status = &status
	}

	items, err := s.itemRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPurchaseItemResponses(items), total, nil
}

// Update changes a purchase item
func (s *PurchaseItemService) Update(ctx context.Context, tenantID, itemID uuid.UUID, req UpdatePurchaseItemRequest) (*PurchaseItemResponse, error) {
	item, err := s.find(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	details := procurement.PurchaseItemDetails{
		StageID:       item.StageID,
		Description:   item.Description,
		Quantity:      item.Quantity,
		Unit:          item.Unit,
		PlannedAmount: item.PlannedAmount,
		PlannedDate:   item.PlannedDate,
	}
	if req.StageID != nil {
		if err := s.checkStage(ctx, tenantID, item.ProjectID, req.StageID); err != nil {
			return nil, err
		}
		details.StageID = req.StageID
	}
	if req.Description != nil {
		details.Description = *req.Description
	}
	if req.Quantity != nil {
		details.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		details.Unit = *req.Unit
	}
	if req.PlannedAmount != nil {
		details.PlannedAmount = *req.PlannedAmount
	}
	if req.PlannedDate != nil {
		if details.PlannedDate, err = shared.ParseDateField("dataPrevista", *req.PlannedDate); err != nil {
			return nil, err
		}
	}

	if err := item.Update(details); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := ToPurchaseItemResponse(item)
	return &response, nil
}

// MarkPurchased moves a PLANNED item to PURCHASED
func (s *PurchaseItemService) MarkPurchased(ctx context.Context, tenantID, itemID uuid.UUID) (*PurchaseItemResponse, error) {
	item, err := s.find(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.MarkPurchased(s.now()); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, item)

	response := ToPurchaseItemResponse(item)
	return &response, nil
}

// Delete removes a purchase item
func (s *PurchaseItemService) Delete(ctx context.Context, tenantID, itemID uuid.UUID) error {
	item, err := s.find(ctx, tenantID, itemID)
	if err != nil {
		return err
	}
	if err := s.itemRepo.DeleteForTenant(ctx, tenantID, itemID); err != nil {
		return err
	}

	item.MarkDeleted()
	appevent.PublishPending(ctx, s.eventPublisher, s.logger, item)
	return nil
}

func (s *PurchaseItemService) checkStage(ctx context.Context, tenantID, projectID uuid.UUID, stageID *uuid.UUID) error {
	if stageID == nil {
		return nil
	}
	stage, err := s.stageRepo.FindByIDForTenant(ctx, tenantID, *stageID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Stage")
		}
		return err
	}
	if stage.ProjectID != projectID {
		return shared.NewValidationError("Stage does not belong to the project")
	}
	return nil
}

func (s *PurchaseItemService) find(ctx context.Context, tenantID, itemID uuid.UUID) (*procurement.PurchaseItem, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Purchase item")
		}
		return nil, err
	}
	return item, nil
}
