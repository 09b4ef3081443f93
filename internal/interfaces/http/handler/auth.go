package handler

import (
	"github.com/erp-obras/backend/internal/application/identity"
	"github.com/erp-obras/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler serves the public /auth routes plus logout and /auth/me.
type AuthHandler struct {
	BaseHandler
	auth *identity.AuthService
}

func NewAuthHandler(svc *identity.AuthService) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// SignedOut is the body returned by logout.
type SignedOut struct {
	Message string `json:"message" example:"Sessão encerrada"`
}

// Register godoc
// @Summary      Register a company
// @Description  Create a company with its first administrator and sign the administrator in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RegisterInput true "Company and administrator"
// @Success      201 {object} dto.Response{data=identity.LoginResult}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response "Email already registered"
// @Failure      429 {object} dto.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var in identity.RegisterInput
	if !h.bindJSON(c, &in) {
		return
	}
	in.IP = c.ClientIP()

	if result, err := h.auth.Register(c.Request.Context(), in); err != nil {
		h.HandleError(c, err)
	} else {
		h.Created(c, result)
	}
}

// Login godoc
// @Summary      Sign in
// @Description  Exchange email and password for a token pair. Repeated failures lock the account for a while.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginInput true "Email and password"
// @Success      200 {object} dto.Response{data=identity.LoginResult}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      403 {object} dto.Response "Account locked or inactive"
// @Failure      429 {object} dto.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var in identity.LoginInput
	if !h.bindJSON(c, &in) {
		return
	}
	in.IP = c.ClientIP()

	if result, err := h.auth.Login(c.Request.Context(), in); err != nil {
		h.HandleError(c, err)
	} else {
		h.Success(c, result)
	}
}

// VerifyEmail godoc
// @Summary      Verify an email address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.VerifyEmailInput true "Email and verification token"
// @Success      200 {object} dto.Response{data=identity.UserInfo}
// @Failure      400 {object} dto.Response
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var in identity.VerifyEmailInput
	if !h.bindJSON(c, &in) {
		return
	}

	if user, err := h.auth.VerifyEmail(c.Request.Context(), in); err != nil {
		h.HandleError(c, err)
	} else {
		h.Success(c, user)
	}
}

// RefreshToken godoc
// @Summary      Rotate the token pair
// @Description  Trade a refresh token for a new pair. The old refresh token stops working.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RefreshTokenInput true "Refresh token"
// @Success      200 {object} dto.Response{data=identity.LoginResult}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var in identity.RefreshTokenInput
	if !h.bindJSON(c, &in) {
		return
	}

	if result, err := h.auth.RefreshToken(c.Request.Context(), in); err != nil {
		h.HandleError(c, err)
	} else {
		h.Success(c, result)
	}
}

// Logout godoc
// @Summary      Sign out
// @Description  Revoke the presented access token and every refresh session of the user
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=SignedOut}
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	// Logout sits outside RequireTenant, so both IDs come from the token.
	userID, errUser := uuid.Parse(claims.UserID)
	tenantID, errTenant := uuid.Parse(claims.TenantID)
	if errUser != nil || errTenant != nil {
		h.Unauthorized(c, "Token does not identify a user")
		return
	}

	err := h.auth.Logout(c.Request.Context(), identity.LogoutInput{
		UserID:   userID,
		TenantID: tenantID,
		TokenJTI: claims.ID,
		TokenTTL: claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SignedOut{Message: "Sessão encerrada"})
}

// Me godoc
// @Summary      Current user
// @Description  The signed-in user with company name and permissions
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.UserInfo}
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, tenantID, ok := h.session(c)
	if !ok {
		return
	}

	if user, err := h.auth.Me(c.Request.Context(), tenantID, userID); err != nil {
		h.HandleError(c, err)
	} else {
		h.Success(c, user)
	}
}

// session reads the user and company of the verified token, answering 401
// when either is missing.
func (h *AuthHandler) session(c *gin.Context) (userID, tenantID uuid.UUID, ok bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	tenantID, ok = h.tenant(c)
	return userID, tenantID, ok
}
