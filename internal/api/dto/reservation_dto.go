package dto

import (
	"time"

	"github.com/spec-kit/room-booking/internal/domain"
	"github.com/spec-kit/room-booking/internal/service"
)

// CreateReservationRequest is the booking payload. Timestamps arrive as
// ISO-8601 instants.
type CreateReservationRequest struct {
	RoomID    string    `json:"roomId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	User      string    `json:"user"`
}

// ReservationResponse mirrors the reservation shape the UI renders.
type ReservationResponse struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewReservationResponse maps a reservation onto the wire shape.
func NewReservationResponse(reservation *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:        reservation.ID,
		RoomID:    reservation.RoomID,
		StartTime: reservation.StartTime,
		EndTime:   reservation.EndTime,
		User:      reservation.UserLabel,
		CreatedAt: reservation.CreatedAt,
		UpdatedAt: reservation.UpdatedAt,
	}
}

// NewReservationResponses maps a slice preserving order.
func NewReservationResponses(reservations []domain.Reservation) []ReservationResponse {
	result := make([]ReservationResponse, 0, len(reservations))
	for i := range reservations {
		result = append(result, NewReservationResponse(&reservations[i]))
	}
	return result
}

// ReservationViewResponse extends the reservation shape with the read-side
// projection fields used by the global listing.
type ReservationViewResponse struct {
	ReservationResponse
	RoomName        string `json:"roomName"`
	DurationMinutes int    `json:"durationMinutes"`
	Upcoming        bool   `json:"upcoming"`
}

// NewReservationViewResponses maps projected views preserving order.
func NewReservationViewResponses(views []service.ReservationView) []ReservationViewResponse {
	result := make([]ReservationViewResponse, 0, len(views))
	for i := range views {
		view := &views[i]
		result = append(result, ReservationViewResponse{
			ReservationResponse: NewReservationResponse(&view.Reservation),
			RoomName:            view.RoomName,
			DurationMinutes:     view.DurationMinutes,
			Upcoming:            view.Upcoming,
		})
	}
	return result
}
