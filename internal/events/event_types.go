package events

import (
	"time"

	"github.com/spec-kit/room-booking/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReservationCreated EventType = "reservation_created"
	EventReservationDeleted EventType = "reservation_deleted"
	EventRoomCreated        EventType = "room_created"
	EventRoomDeactivated    EventType = "room_deactivated"
	EventUserRegistered     EventType = "user_registered"
	EventUserDeleted        EventType = "user_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReservationCreatedPayload payload.
type ReservationCreatedPayload struct {
	RoomID    string    `json:"room_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	UserLabel string    `json:"user"`
}

// ReservationDeletedPayload payload.
type ReservationDeletedPayload struct {
	RoomID string `json:"room_id"`
}

// RoomCreatedPayload payload.
type RoomCreatedPayload struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}
