package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/room-booking/internal/api/dto"
	"github.com/spec-kit/room-booking/internal/service"
	apperrors "github.com/spec-kit/room-booking/pkg/util"
)

// AdminUsersHandler exposes admin-only account management.
type AdminUsersHandler struct {
	auth *service.AuthService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(authService *service.AuthService) *AdminUsersHandler {
	return &AdminUsersHandler{auth: authService}
}

// List handles GET /api/admin/users.
func (h *AdminUsersHandler) List(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(result)
}

// Get handles GET /api/admin/users/:id.
func (h *AdminUsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.auth.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Update handles PUT /api/admin/users/:id as a partial update.
func (h *AdminUsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.UpdateUser(c.UserContext(), c.Params("id"), service.UserUpdateInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// ChangeEmail handles PATCH /api/admin/users/:id/email.
func (h *AdminUsersHandler) ChangeEmail(c *fiber.Ctx) error {
	var req dto.EmailChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.ChangeEmail(c.UserContext(), c.Params("id"), req.NewEmail)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Delete handles DELETE /api/admin/users/:id. Past reservations made by the
// account are retained under the denormalized display label.
func (h *AdminUsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.auth.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
