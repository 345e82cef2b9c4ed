package handlers

import (
	"errors"
	"strconv"

	"condocore/internal/core/services"
	"condocore/internal/pkg/pagination"
	"condocore/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles the user-directory admin endpoints.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns a page of users.
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.FromRequest(c)

	users, total, err := h.users.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved", fiber.Map{
		"users": users,
		"meta":  params.MetaFor(total),
	})
}

// Get returns a single user.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	user, err := h.users.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}
	return response.Success(c, "User retrieved", fiber.Map{"user": user})
}

// SetActiveRequest is the activation toggle body.
type SetActiveRequest struct {
	Active *bool `json:"active"`
}

// SetActive activates or deactivates an account.
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil || req.Active == nil {
		return response.BadRequest(c, "Field 'active' is required")
	}

	user, err := h.users.SetActive(c.Context(), uint(id), *req.Active)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update user")
	}
	return response.Success(c, "User updated", fiber.Map{"user": user})
}
