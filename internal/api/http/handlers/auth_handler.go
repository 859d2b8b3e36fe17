package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/room-booking/internal/api/dto"
	"github.com/spec-kit/room-booking/internal/service"
	apperrors "github.com/spec-kit/room-booking/pkg/util"
)

// AuthHandler exposes registration, login and logout.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Register(c.UserContext(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewAuthResponse(result.User, result.Token))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAuthResponse(result.User, result.Token))
}

// Logout handles POST /api/auth/logout. The presented bearer token is
// denylisted until its natural expiry.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}
	if err := h.auth.Logout(c.UserContext(), parts[1]); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
