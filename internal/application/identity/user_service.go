package identity

import (
	"context"
	"errors"
	"time"

	appevent "github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/domain/identity"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management inside a company
type UserService struct {
	userRepo       identity.UserRepository
	revocations    auth.RevocationStore
	tokenTTL       time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new user service. tokenTTL is the refresh token
// lifetime; it bounds how long a user-wide invalidation has to be kept.
func NewUserService(
	userRepo identity.UserRepository,
	revocations auth.RevocationStore,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		revocations: revocations,
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List retrieves the users of a company
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := identity.UserFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "name",
			OrderDir: "asc",
			Search:   filter.Search,
		},
	}
	if filter.Role != "" {
		role := identity.Role(filter.Role)
		domainFilter.Role = &role
	}

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses, total, nil
}

// GetByID retrieves a user of the company
func (s *UserService) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.find(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Create adds a user to the company
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_ALREADY_EXISTS", "Email is already registered")
	}

	user, err := identity.NewUser(tenantID, req.Name, req.Email, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, user)

	response := ToUserResponse(user)
	return &response, nil
}

// Update changes a user. Demoting or deactivating the last active admin is
// refused, and so is changing the email to one already in use.
func (s *UserService) Update(ctx context.Context, tenantID, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.find(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	name, email, role := user.Name, user.Email, user.Role
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Role != nil {
		role = identity.Role(*req.Role)
	}

	if email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("EMAIL_ALREADY_EXISTS", "Email is already registered")
		}
	}

	losesAdmin := user.Role == identity.RoleAdmin && user.Active &&
		(role != identity.RoleAdmin || (req.Active != nil && !*req.Active))
	if losesAdmin {
		if err := s.ensureAnotherAdmin(ctx, tenantID); err != nil {
			return nil, err
		}
	}

	roleChanged := role != user.Role
	if err := user.Update(name, email, role); err != nil {
		return nil, err
	}
	deactivated := false
	if req.Active != nil && *req.Active != user.Active {
		deactivated = !*req.Active
		user.SetActive(*req.Active)
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	if roleChanged || deactivated || req.Password != nil {
		s.invalidateSessions(ctx, user.ID)
	}

	s.logger.Info("User updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", user.ID.String()))

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, user)

	response := ToUserResponse(user)
	return &response, nil
}

// Delete removes a user. Users cannot delete themselves, and the last
// admin of a company cannot be removed.
func (s *UserService) Delete(ctx context.Context, tenantID, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return shared.NewDomainError("CANNOT_DELETE_SELF", "You cannot delete your own user")
	}

	user, err := s.find(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if user.Role == identity.RoleAdmin && user.Active {
		if err := s.ensureAnotherAdmin(ctx, tenantID); err != nil {
			return err
		}
	}

	if err := s.userRepo.DeleteForTenant(ctx, tenantID, userID); err != nil {
		return err
	}
	s.invalidateSessions(ctx, userID)

	s.logger.Info("User deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", userID.String()))

	user.MarkDeleted()
	appevent.PublishPending(ctx, s.eventPublisher, s.logger, user)
	return nil
}

func (s *UserService) find(ctx context.Context, tenantID, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("User")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ensureAnotherAdmin(ctx context.Context, tenantID uuid.UUID) error {
	admins, err := s.userRepo.CountAdminsForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return shared.NewDomainError("LAST_ADMIN", "The company must keep at least one active administrator")
	}
	return nil
}

// invalidateSessions revokes every token issued to the user so far
func (s *UserService) invalidateSessions(ctx context.Context, userID uuid.UUID) {
	if s.revocations == nil {
		return
	}
	if err := s.revocations.RevokeUserTokens(ctx, userID.String(), s.tokenTTL); err != nil {
		s.logger.Error("Failed to invalidate user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
