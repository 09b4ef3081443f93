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

// AuthServiceConfig sets the lockout policy. An account is locked for
// LockDuration after MaxLoginAttempts consecutive bad passwords.
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// VerificationNotifier delivers the email verification token to a new user
type VerificationNotifier interface {
	SendVerification(ctx context.Context, user *identity.User, token string) error
}

// LogVerificationNotifier writes the token to the log. There is no mail
// transport; operators forward the token by hand.
type LogVerificationNotifier struct {
	logger *zap.Logger
}

// NewLogVerificationNotifier creates a notifier that logs tokens
func NewLogVerificationNotifier(logger *zap.Logger) *LogVerificationNotifier {
	return &LogVerificationNotifier{logger: logger}
}

// SendVerification implements VerificationNotifier
func (n *LogVerificationNotifier) SendVerification(_ context.Context, user *identity.User, token string) error {
	n.logger.Info("Email verification token issued",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("token", token))
	return nil
}

// AuthService handles registration and authentication
type AuthService struct {
	companyRepo    identity.CompanyRepository
	userRepo       identity.UserRepository
	registrations  identity.RegistrationStore
	jwtService     *auth.JWTService
	revocations    auth.RevocationStore
	notifier       VerificationNotifier
	eventPublisher shared.EventPublisher
	config         AuthServiceConfig
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	companyRepo identity.CompanyRepository,
	userRepo identity.UserRepository,
	registrations identity.RegistrationStore,
	jwtService *auth.JWTService,
	revocations auth.RevocationStore,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		companyRepo:   companyRepo,
		userRepo:      userRepo,
		registrations: registrations,
		jwtService:    jwtService,
		revocations:   revocations,
		notifier:      NewLogVerificationNotifier(logger),
		config:        config,
		logger:        logger,
	}
}

// SetNotifier replaces the verification notifier
func (s *AuthService) SetNotifier(notifier VerificationNotifier) {
	s.notifier = notifier
}

// SetEventPublisher sets the event publisher for domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates a company and its first ADMIN user, issues the email
// verification token and signs the admin in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_ALREADY_EXISTS", "Email is already registered")
	}

	company, err := identity.NewCompany(input.CompanyName, input.CompanyTaxID, input.Email, input.CompanyPhone)
	if err != nil {
		return nil, err
	}
	admin, err := identity.NewUser(company.ID, input.Name, input.Email, input.Password, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	token, err := admin.IssueVerificationToken()
	if err != nil {
		s.logger.Error("Failed to issue verification token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to issue verification token")
	}
	admin.RecordLoginSuccess(input.IP)

	if err := s.registrations.Register(ctx, company, admin); err != nil {
		return nil, err
	}

	if err := s.notifier.SendVerification(ctx, admin, token); err != nil {
		s.logger.Warn("Failed to deliver verification token", zap.String("user_id", admin.ID.String()), zap.Error(err))
	}

	s.logger.Info("Company registered",
		zap.String("company_id", company.ID.String()),
		zap.String("admin_id", admin.ID.String()))

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, company, admin)

	return s.issue(admin, company.Name)
}

// Login authenticates a user by email and password and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		s.logger.Warn("Login for unknown email", zap.String("email", input.Email))
		return nil, invalidCredentials()
	case err != nil:
		return nil, err
	case user.IsLocked():
		s.logger.Warn("Login refused, account locked", zap.String("email", input.Email))
		return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
	case !user.CanLogin():
		s.logger.Warn("Login refused, account inactive", zap.String("email", input.Email))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	case !user.VerifyPassword(input.Password):
		return nil, s.passwordMismatch(ctx, user)
	}

	companyName := s.companyName(ctx, user.TenantID)
	result, err := s.issue(user, companyName)
	if err != nil {
		return nil, err
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the tokens are already valid
		s.logger.Error("Could not record successful login", zap.Stringer("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("User logged in", zap.Stringer("user_id", user.ID), zap.Stringer("tenant_id", user.TenantID))
	return result, nil
}

// passwordMismatch counts the failure and locks the account once the
// attempts run out.
func (s *AuthService) passwordMismatch(ctx context.Context, user *identity.User) error {
	locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Could not record failed login", zap.Stringer("user_id", user.ID), zap.Error(err))
	}
	if locked {
		s.logger.Warn("Account locked", zap.String("email", user.Email), zap.Duration("for", s.config.LockDuration))
		return shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
	}
	s.logger.Warn("Wrong password", zap.String("email", user.Email), zap.Int("failed_attempts", user.FailedAttempts))
	return invalidCredentials()
}

func invalidCredentials() error {
	return shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
}

// RefreshToken exchanges a refresh token for a new pair, reloading the
// user's role so permission changes take effect
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token rejected", zap.Error(err))
		return nil, mapTokenError(err)
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid tenant in token")
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user in token")
	}

	if s.revocations != nil {
		invalidated, err := s.revocations.UserTokensRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			s.logger.Error("Session revocation check failed", zap.Error(err))
		} else if invalidated {
			return nil, shared.NewDomainError("TOKEN_REVOKED", "Session has been revoked")
		}
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return nil, shared.NewDomainError("TOKEN_INVALID", "User no longer exists")
	case err != nil:
		return nil, err
	case !user.CanLogin():
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account is no longer active")
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, tokenInput(user))
	if err != nil {
		s.logger.Warn("Token pair not refreshed", zap.Stringer("user_id", userID), zap.Error(err))
		return nil, mapTokenError(err)
	}
	return loginResult(pair, user, s.companyName(ctx, tenantID)), nil
}

// Logout revokes the presented access token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logged out", zap.Stringer("user_id", input.UserID), zap.Stringer("tenant_id", input.TenantID))

	if s.revocations == nil || input.TokenJTI == "" || input.TokenTTL <= 0 {
		return nil
	}
	if err := s.revocations.RevokeToken(ctx, input.TokenJTI, input.TokenTTL); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke token")
	}
	return nil
}

// VerifyEmail confirms a user's email with the token issued at registration
func (s *AuthService) VerifyEmail(ctx context.Context, input VerifyEmailInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid verification token")
	}
	if err != nil {
		return nil, err
	}
	if err := user.VerifyEmail(input.Token); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Email verified", zap.String("user_id", user.ID.String()))
	info := ToUserInfo(user, s.companyName(ctx, user.TenantID))
	return &info, nil
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewNotFoundError("User")
	}
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user, s.companyName(ctx, tenantID))
	return &info, nil
}

func (s *AuthService) issue(user *identity.User, companyName string) (*LoginResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(tokenInput(user))
	if err != nil {
		s.logger.Error("Token pair not signed", zap.Stringer("user_id", user.ID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	return loginResult(pair, user, companyName), nil
}

func loginResult(pair *auth.TokenPair, user *identity.User, companyName string) *LoginResult {
	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserInfo(user, companyName),
	}
}

// companyName is best effort; a missing company only blanks the label
func (s *AuthService) companyName(ctx context.Context, tenantID uuid.UUID) string {
	company, err := s.companyRepo.FindByID(ctx, tenantID)
	if err != nil {
		s.logger.Warn("Failed to load company", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return ""
	}
	return company.Name
}

func tokenInput(user *identity.User) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		TenantID:    user.TenantID,
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role.String(),
		Permissions: user.Permissions(),
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
