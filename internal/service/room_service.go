package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/room-booking/internal/domain"
	"github.com/spec-kit/room-booking/internal/events"
	"github.com/spec-kit/room-booking/internal/repository"
	apperrors "github.com/spec-kit/room-booking/pkg/util"
)

// RoomService is the room directory: CRUD over room metadata. Deleting a
// room deactivates it instead of removing the row, so reservation history
// stays intact.
type RoomService struct {
	rooms      repository.RoomRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// RoomDependencies bundles collaborators for the room directory.
type RoomDependencies struct {
	RoomRepo   repository.RoomRepository
	Dispatcher events.Dispatcher
	Now        func() time.Time
}

// RoomCreateInput describes a new room.
type RoomCreateInput struct {
	Name        string
	Capacity    int
	Description string
	Location    string
}

// RoomUpdateInput describes a partial room update; nil fields are left
// unchanged.
type RoomUpdateInput struct {
	Name        *string
	Capacity    *int
	Description *string
	Location    *string
}

// NewRoomService constructs the directory.
func NewRoomService(deps RoomDependencies) *RoomService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &RoomService{rooms: deps.RoomRepo, dispatcher: deps.Dispatcher, now: now}
}

// Create adds a room with a generated "room-" prefixed identifier.
func (s *RoomService) Create(ctx context.Context, input RoomCreateInput) (*domain.Room, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("room name required", nil)
	}
	if input.Capacity < 1 {
		return nil, apperrors.NewValidationError("capacity must be at least 1", map[string]any{"capacity": input.Capacity})
	}

	createdAt := s.now()
	room := &domain.Room{
		ID:          generateRoomID(),
		Name:        name,
		Capacity:    input.Capacity,
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		IsActive:    true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("room id already exists", nil)
		}
		return nil, apperrors.NewStorageFault(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventRoomCreated,
		SubjectID: room.ID,
		Payload:   events.RoomCreatedPayload{Name: room.Name, Capacity: room.Capacity},
	})
	return room, nil
}

// List returns active rooms only; deactivated rooms are hidden from
// booking.
func (s *RoomService) List(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.rooms.ListActive(ctx)
	if err != nil {
		return nil, apperrors.NewStorageFault(err)
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}
	return rooms, nil
}

// Get fetches a room regardless of active state.
func (s *RoomService) Get(ctx context.Context, id string) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("room", map[string]any{"id": id})
		}
		return nil, apperrors.NewStorageFault(err)
	}
	return room, nil
}

// Update applies a partial update over room metadata.
func (s *RoomService) Update(ctx context.Context, id string, input RoomUpdateInput) (*domain.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("room name cannot be empty", nil)
		}
		room.Name = name
	}
	if input.Capacity != nil {
		if *input.Capacity < 1 {
			return nil, apperrors.NewValidationError("capacity must be at least 1", map[string]any{"capacity": *input.Capacity})
		}
		room.Capacity = *input.Capacity
	}
	if input.Description != nil {
		room.Description = strings.TrimSpace(*input.Description)
	}
	if input.Location != nil {
		room.Location = strings.TrimSpace(*input.Location)
	}

	room.UpdatedAt = s.now()
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, apperrors.NewStorageFault(err)
	}
	return room, nil
}

// Rename updates only the room's name, matching the PATCH contract exposed
// to admins.
func (s *RoomService) Rename(ctx context.Context, id, newName string) (*domain.Room, error) {
	return s.Update(ctx, id, RoomUpdateInput{Name: &newName})
}

// ChangeCapacity updates only the room's capacity.
func (s *RoomService) ChangeCapacity(ctx context.Context, id string, newCapacity int) (*domain.Room, error) {
	return s.Update(ctx, id, RoomUpdateInput{Capacity: &newCapacity})
}

// Delete deactivates the room. Existing reservations, past or future, are
// never cascaded; they keep referencing the room id.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	room, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	room.IsActive = false
	room.UpdatedAt = s.now()
	if err := s.rooms.Update(ctx, room); err != nil {
		return apperrors.NewStorageFault(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventRoomDeactivated,
		SubjectID: room.ID,
	})
	return nil
}

func generateRoomID() string {
	return "room-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *RoomService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
