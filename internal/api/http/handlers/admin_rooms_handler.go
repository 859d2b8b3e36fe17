package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/room-booking/internal/api/dto"
	"github.com/spec-kit/room-booking/internal/service"
	apperrors "github.com/spec-kit/room-booking/pkg/util"
)

// AdminRoomsHandler exposes admin-only room management.
type AdminRoomsHandler struct {
	rooms *service.RoomService
}

// NewAdminRoomsHandler constructs handler.
func NewAdminRoomsHandler(roomService *service.RoomService) *AdminRoomsHandler {
	return &AdminRoomsHandler{rooms: roomService}
}

// List handles GET /api/admin/rooms.
func (h *AdminRoomsHandler) List(c *fiber.Ctx) error {
	rooms, err := h.rooms.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRoomResponses(rooms))
}

// Create handles POST /api/admin/rooms.
func (h *AdminRoomsHandler) Create(c *fiber.Ctx) error {
	var req dto.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.RoomCreateInput{}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Capacity != nil {
		input.Capacity = *req.Capacity
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Location != nil {
		input.Location = *req.Location
	}

	room, err := h.rooms.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewRoomResponse(room))
}

// Update handles PUT /api/admin/rooms/:id as a partial update.
func (h *AdminRoomsHandler) Update(c *fiber.Ctx) error {
	var req dto.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	room, err := h.rooms.Update(c.UserContext(), c.Params("id"), service.RoomUpdateInput{
		Name:        req.Name,
		Capacity:    req.Capacity,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRoomResponse(room))
}

// Rename handles PATCH /api/admin/rooms/:id/name.
func (h *AdminRoomsHandler) Rename(c *fiber.Ctx) error {
	var req dto.RoomNameChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	room, err := h.rooms.Rename(c.UserContext(), c.Params("id"), req.NewName)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRoomResponse(room))
}

// ChangeCapacity handles PATCH /api/admin/rooms/:id/capacity.
func (h *AdminRoomsHandler) ChangeCapacity(c *fiber.Ctx) error {
	var req dto.RoomCapacityChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	room, err := h.rooms.ChangeCapacity(c.UserContext(), c.Params("id"), req.NewCapacity)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRoomResponse(room))
}

// Delete handles DELETE /api/admin/rooms/:id. The room is deactivated;
// reservation history is preserved.
func (h *AdminRoomsHandler) Delete(c *fiber.Ctx) error {
	if err := h.rooms.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
