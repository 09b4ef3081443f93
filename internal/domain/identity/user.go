package identity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AggregateTypeUser is the aggregate type name for users
const AggregateTypeUser = "User"

// Password cost for bcrypt
var bcryptCost = bcrypt.DefaultCost

var (
	hasLetter = regexp.MustCompile(`[a-zA-Z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

// User is a member of a company
type User struct {
	shared.TenantAggregateRoot
	Name                  string
	Email                 string
	PasswordHash          string
	Role                  Role
	EmailVerified         bool
	Active                bool
	VerificationTokenHash string
	FailedAttempts        int
	LockedUntil           *time.Time
	LastLoginAt           *time.Time
	LastLoginIP           string
}

// NewUser creates a new active user with an unverified email
func NewUser(tenantID uuid.UUID, name, email, password string, role Role) (*User, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", fmt.Sprintf("Invalid role: %s", role))
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashSecret(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Email:               normalizeEmail(email),
		PasswordHash:        passwordHash,
		Role:                role,
		Active:              true,
	}
	u.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeUser, shared.ActionCreated, u.ID, tenantID,
		fmt.Sprintf("User %s created with role %s", u.Email, u.Role)))
	return u, nil
}

// Update changes the profile and role of the user
func (u *User) Update(name, email string, role Role) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", fmt.Sprintf("Invalid role: %s", role))
	}

	email = normalizeEmail(email)
	if email != u.Email {
		u.EmailVerified = false
	}
	u.Name = strings.TrimSpace(name)
	u.Email = email
	u.Role = role
	u.Touch()

	u.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeUser, shared.ActionUpdated, u.ID, u.TenantID,
		fmt.Sprintf("User %s updated", u.Email)))
	return nil
}

// SetActive enables or disables the account
func (u *User) SetActive(active bool) {
	u.Active = active
	u.Touch()
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashSecret(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IssueVerificationToken creates a new email verification token. Only its
// hash is kept on the user; the plain token is returned to the caller.
func (u *User) IssueVerificationToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	hash, err := hashSecret(token)
	if err != nil {
		return "", err
	}
	u.VerificationTokenHash = hash
	u.Touch()
	return token, nil
}

// VerifyEmail marks the email as verified when the token matches
func (u *User) VerifyEmail(token string) error {
	if u.EmailVerified {
		return shared.NewDomainError("ALREADY_VERIFIED", "Email is already verified")
	}
	if u.VerificationTokenHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(u.VerificationTokenHash), []byte(token)) != nil {
		return shared.NewDomainError("INVALID_TOKEN", "Invalid verification token")
	}
	u.EmailVerified = true
	u.VerificationTokenHash = ""
	u.Touch()
	return nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = now
}

// RecordLoginFailure records a failed login attempt.
// Returns true if the account got locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.UpdatedAt = time.Now()

	if u.FailedAttempts >= maxAttempts {
		lockedUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockedUntil
		u.FailedAttempts = 0
		return true
	}
	return false
}

// IsLocked returns true while a lockout is in effect
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// CanLogin returns true if user can login
func (u *User) CanLogin() bool {
	return u.Active && !u.IsLocked()
}

// Permissions returns the permission codes of the user's role
func (u *User) Permissions() []string {
	return u.Role.Permissions()
}

// MarkDeleted raises the deletion event
func (u *User) MarkDeleted() {
	u.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeUser, shared.ActionDeleted, u.ID, u.TenantID,
		fmt.Sprintf("User %s deleted", u.Email)))
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !hasLetter.MatchString(password) || !hasNumber.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
