package identity

import (
	"time"

	"github.com/erp-obras/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput creates a company together with its first administrator
type RegisterInput struct {
	CompanyName  string `json:"empresaNome" binding:"required,min=1,max=200"`
	CompanyTaxID string `json:"cnpj" binding:"max=20"`
	CompanyPhone string `json:"telefone" binding:"max=30"`
	Name         string `json:"nome" binding:"required,min=1,max=200"`
	Email        string `json:"email" binding:"required,email,max=200"`
	Password     string `json:"senha" binding:"required,min=8,max=72"`
	IP           string `json:"-"`
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required"`
	IP       string `json:"-"` // Client IP for login tracking
}

// LoginResult contains the result of a successful login or registration
type LoginResult struct {
	AccessToken           string    `json:"token"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"expiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshExpiresAt"`
	TokenType             string    `json:"tokenType"`
	User                  UserInfo  `json:"user"`
}

// UserInfo is the authenticated user as seen by the SPA
type UserInfo struct {
	ID            uuid.UUID `json:"id"`
	CompanyID     uuid.UUID `json:"companyId"`
	CompanyName   string    `json:"empresaNome,omitempty"`
	Name          string    `json:"nome"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"emailVerificado"`
	Permissions   []string  `json:"permissions"`
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutInput identifies the access token being revoked
type LogoutInput struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

// VerifyEmailInput carries the token sent at registration
type VerifyEmailInput struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required"`
}

// CreateUserRequest is the admin request to add a user to the company
type CreateUserRequest struct {
	Name     string `json:"nome" binding:"required,min=1,max=200"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"senha" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=ADMIN MANAGER USER"`
}

// UpdateUserRequest changes a user. Nil fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"nome" binding:"omitempty,min=1,max=200"`
	Email    *string `json:"email" binding:"omitempty,email,max=200"`
	Role     *string `json:"role" binding:"omitempty,oneof=ADMIN MANAGER USER"`
	Active   *bool   `json:"ativo"`
	Password *string `json:"senha" binding:"omitempty,min=8,max=72"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	CompanyID     uuid.UUID  `json:"companyId"`
	Name          string     `json:"nome"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	EmailVerified bool       `json:"emailVerificado"`
	Active        bool       `json:"ativo"`
	LastLoginAt   *time.Time `json:"ultimoLogin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=ADMIN MANAGER USER"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		CompanyID:     u.TenantID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role.String(),
		EmailVerified: u.EmailVerified,
		Active:        u.Active,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// ToUserInfo converts a domain User to the session view
func ToUserInfo(u *identity.User, companyName string) UserInfo {
	return UserInfo{
		ID:            u.ID,
		CompanyID:     u.TenantID,
		CompanyName:   companyName,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role.String(),
		EmailVerified: u.EmailVerified,
		Permissions:   u.Permissions(),
	}
}
