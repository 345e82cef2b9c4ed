package handlers

import (
	"condocore/internal/pkg/rights"
	"condocore/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RoleHandler handles role-introspection endpoints for admin tooling.
type RoleHandler struct{}

// NewRoleHandler creates a new role handler.
func NewRoleHandler() *RoleHandler {
	return &RoleHandler{}
}

// Rights lists the permission set of a role. Unknown roles are a hard 404
// here, unlike the boolean permission check.
func (h *RoleHandler) Rights(c *fiber.Ctx) error {
	role := c.Params("role")
	perms, err := rights.RightsOf(role)
	if err != nil {
		return response.NotFound(c, "Unknown role")
	}
	return response.Success(c, "Role rights", fiber.Map{
		"role":   role,
		"rights": perms,
	})
}
