package middleware

import (
	"errors"
	"log"
	"strings"

	"condocore/internal/core/domain"
	"condocore/internal/core/services"
	"condocore/internal/pkg/response"
	"condocore/internal/pkg/rights"

	"github.com/gofiber/fiber/v2"
)

// RefreshCookie is the cookie carrying the refresh token.
const RefreshCookie = "refresh_token"

// Protected authenticates the request and stores the principal in locals.
// Credentials come from the Authorization header (access token) and the
// refresh cookie; when the access token is expired and the refresh token is
// live, a replacement access token is returned in the response Authorization
// header. No new cookie is set on that path, since nothing rotated.
func Protected(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := bearerToken(c)
		refreshToken := c.Cookies(RefreshCookie)

		if accessToken == "" && refreshToken == "" {
			return response.Unauthorized(c, "Authentication required")
		}

		result, err := auth.Authenticate(c.Context(), accessToken, refreshToken)
		if err != nil {
			var authErr *domain.AuthError
			if errors.As(err, &authErr) {
				// Precise kind stays in the logs; the body is generic so
				// callers cannot probe which check failed.
				log.Printf("auth rejected %s %s: %s", c.Method(), c.Path(), authErr.Error())
				if authErr.Kind == domain.KindUnavailable {
					return response.ServiceUnavailable(c, "Service temporarily unavailable")
				}
			}
			return response.Unauthorized(c, "Authentication required")
		}

		if result.NewAccess != nil {
			c.Set(fiber.HeaderAuthorization, "Bearer "+result.NewAccess.Token)
		}

		c.Locals("userID", result.Principal.ID)
		c.Locals("role", result.Principal.Role)
		return c.Next()
	}
}

// RequirePermissions gates a route on the caller's role holding every listed
// permission. An empty list admits any authenticated principal.
func RequirePermissions(perms ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}

		for _, perm := range perms {
			if !rights.HasPermission(role, perm) {
				return response.Forbidden(c, "You don't have permission to access this resource")
			}
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
