package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/room-booking/internal/domain"
	"github.com/spec-kit/room-booking/internal/repository"
	apperrors "github.com/spec-kit/room-booking/pkg/util"
)

// fallbackRoomName labels reservations whose room has since been deleted
// from the directory entirely. The listing must still render.
const fallbackRoomName = "unknown room"

// ReservationView is the read-side projection of a reservation: the raw
// record joined with its room name plus derived display fields.
type ReservationView struct {
	domain.Reservation
	RoomName        string
	DurationMinutes int
	Upcoming        bool
}

// QueryService is a read-only composition layer over the ledger and the
// room directory. It never mutates anything.
type QueryService struct {
	reservations repository.ReservationRepository
	rooms        repository.RoomRepository
	now          func() time.Time
}

// NewQueryService constructs the read side.
func NewQueryService(reservations repository.ReservationRepository, rooms repository.RoomRepository, now func() time.Time) *QueryService {
	if now == nil {
		now = time.Now
	}
	return &QueryService{reservations: reservations, rooms: rooms, now: now}
}

// RoomSchedule returns the projected reservations for one room, ordered by
// start time ascending.
func (s *QueryService) RoomSchedule(ctx context.Context, roomID string) ([]ReservationView, error) {
	reservations, err := s.reservations.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, apperrors.NewStorageFault(err)
	}
	return s.project(ctx, reservations)
}

// AllReservations returns the projected global listing, most recent start
// first.
func (s *QueryService) AllReservations(ctx context.Context) ([]ReservationView, error) {
	reservations, err := s.reservations.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageFault(err)
	}
	return s.project(ctx, reservations)
}

func (s *QueryService) project(ctx context.Context, reservations []domain.Reservation) ([]ReservationView, error) {
	now := s.now()
	names := make(map[string]string)
	views := make([]ReservationView, 0, len(reservations))

	for _, reservation := range reservations {
		name, ok := names[reservation.RoomID]
		if !ok {
			name = s.roomName(ctx, reservation.RoomID)
			names[reservation.RoomID] = name
		}
		views = append(views, ReservationView{
			Reservation:     reservation,
			RoomName:        name,
			DurationMinutes: int(reservation.EndTime.Sub(reservation.StartTime) / time.Minute),
			Upcoming:        reservation.StartTime.After(now),
		})
	}
	return views, nil
}

func (s *QueryService) roomName(ctx context.Context, roomID string) string {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fallbackRoomName
		}
		// Storage hiccups degrade to the fallback label rather than
		// failing the whole listing.
		return fallbackRoomName
	}
	return room.Name
}
