package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/room-booking/internal/api/dto"
	"github.com/spec-kit/room-booking/internal/auth"
	"github.com/spec-kit/room-booking/internal/service"
	apperrors "github.com/spec-kit/room-booking/pkg/util"
)

// ReservationsHandler exposes booking endpoints.
type ReservationsHandler struct {
	reservations *service.ReservationService
	queries      *service.QueryService
}

// NewReservationsHandler constructs handler.
func NewReservationsHandler(reservations *service.ReservationService, queries *service.QueryService) *ReservationsHandler {
	return &ReservationsHandler{reservations: reservations, queries: queries}
}

// ListByRoom handles GET /api/reservations/:roomId.
func (h *ReservationsHandler) ListByRoom(c *fiber.Ctx) error {
	roomID := c.Params("roomId")
	reservations, err := h.reservations.ListByRoom(c.UserContext(), roomID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReservationResponses(reservations))
}

// ListAll handles GET /api/reservations. The projection carries room names
// and derived display fields.
func (h *ReservationsHandler) ListAll(c *fiber.Ctx) error {
	views, err := h.queries.AllReservations(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReservationViewResponses(views))
}

// Create handles POST /api/reservations.
func (h *ReservationsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	userLabel := req.User
	if userLabel == "" {
		if principal, ok := auth.PrincipalFromContext(c); ok {
			userLabel = principal.User.DisplayName
		}
	}

	reservation, err := h.reservations.Create(c.UserContext(), service.ReservationCreateInput{
		RoomID:    req.RoomID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		UserLabel: userLabel,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewReservationResponse(reservation))
}

// Delete handles DELETE /api/reservations/:id.
func (h *ReservationsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.reservations.Delete(c.UserContext(), c.Params("id"), principal.User); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
