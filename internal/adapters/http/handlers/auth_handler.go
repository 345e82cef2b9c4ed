package handlers

import (
	"errors"
	"strings"
	"time"

	"condocore/internal/adapters/http/middleware"
	"condocore/internal/config"
	"condocore/internal/core/domain"
	"condocore/internal/core/services"
	"condocore/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles the authentication endpoints.
type AuthHandler struct {
	auth   *services.AuthService
	tokens *services.TokenService
	cfg    *config.Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *services.AuthService, tokens *services.TokenService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, cfg: cfg}
}

// LoginRequest is the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates credentials and starts a session. The access token is
// returned in the body; the refresh token travels only in an HTTP-only
// cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	result, err := h.auth.Login(c.Context(), &services.LoginInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, services.ErrUserInactive):
			return response.Forbidden(c, "Account is inactive")
		case errors.Is(err, domain.ErrUnavailable):
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setRefreshCookie(c, result.Pair.Refresh.Token, result.Pair.Refresh.ExpiresAt)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token": result.Pair.Access.Token,
		"expires_at":   result.Pair.Access.ExpiresAt,
		"user":         result.User,
	})
}

// Refresh rotates the session: the presented refresh token is revoked and a
// brand-new pair issued.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(middleware.RefreshCookie)
	if refreshToken == "" {
		return response.Unauthorized(c, "Authentication required")
	}

	pair, err := h.tokens.Refresh(c.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		}
		h.clearRefreshCookie(c)
		return response.Unauthorized(c, "Authentication required")
	}

	h.setRefreshCookie(c, pair.Refresh.Token, pair.Refresh.ExpiresAt)

	return response.Success(c, "Token refreshed", fiber.Map{
		"access_token": pair.Access.Token,
		"expires_at":   pair.Access.ExpiresAt,
	})
}

// Logout revokes the presented refresh token and clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if refreshToken := c.Cookies(middleware.RefreshCookie); refreshToken != "" {
		if err := h.auth.Logout(c.Context(), refreshToken); err != nil {
			if errors.Is(err, domain.ErrUnavailable) {
				return response.ServiceUnavailable(c, "Service temporarily unavailable")
			}
		}
	}

	h.clearRefreshCookie(c)
	return response.Success(c, "Logged out", nil)
}

// LogoutAll revokes every session of the authenticated user.
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	if err := h.auth.LogoutAll(c.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		}
		return response.InternalServerError(c, "Failed to revoke sessions")
	}

	h.clearRefreshCookie(c)
	return response.Success(c, "Logged out everywhere", nil)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	user, err := h.auth.UserByID(c.Context(), userID)
	if err != nil {
		return response.NotFound(c, "User not found")
	}
	return response.Success(c, "User retrieved", fiber.Map{"user": user})
}

// ForgotPasswordRequest is the forgot-password request body.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a password-reset token. Delivery (email, push) is a
// separate concern; the token is handed to the caller.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	token, err := h.auth.ForgotPassword(c.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "No account with that email")
		}
		return response.InternalServerError(c, "Failed to issue reset token")
	}

	return response.Success(c, "Reset token issued", fiber.Map{
		"reset_token": token.Token,
		"expires_at":  token.ExpiresAt,
	})
}

// ResetPasswordRequest is the reset-password request body.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword changes the password behind a valid reset token and revokes
// every refresh session of the account.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Token == "" {
		return response.BadRequest(c, "Token is required")
	}
	if len(req.NewPassword) < 8 {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	if err := h.auth.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		}
		return response.Unauthorized(c, "Invalid or expired reset token")
	}

	return response.Success(c, "Password updated", nil)
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}
