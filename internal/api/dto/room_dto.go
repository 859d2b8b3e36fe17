package dto

import (
	"time"

	"github.com/spec-kit/room-booking/internal/domain"
)

// RoomRequest is the admin payload for creating or updating a room.
type RoomRequest struct {
	Name        *string `json:"name"`
	Capacity    *int    `json:"capacity"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

// RoomNameChangeRequest payload for PATCH .../name.
type RoomNameChangeRequest struct {
	NewName string `json:"newName"`
}

// RoomCapacityChangeRequest payload for PATCH .../capacity.
type RoomCapacityChangeRequest struct {
	NewCapacity int `json:"newCapacity"`
}

// RoomResponse mirrors the room shape the UI renders.
type RoomResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewRoomResponse maps a room onto the wire shape.
func NewRoomResponse(room *domain.Room) RoomResponse {
	return RoomResponse{
		ID:          room.ID,
		Name:        room.Name,
		Capacity:    room.Capacity,
		Description: room.Description,
		Location:    room.Location,
		IsActive:    room.IsActive,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
}

// NewRoomResponses maps a slice preserving order.
func NewRoomResponses(rooms []domain.Room) []RoomResponse {
	result := make([]RoomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, NewRoomResponse(&rooms[i]))
	}
	return result
}
