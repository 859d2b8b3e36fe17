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

// storageRetries bounds how often the ledger retries a failed persistence
// call. Only storage faults are retried; conflicts and validation failures
// never are.
const storageRetries = 3

// ReservationService is the booking ledger: it owns the reservation
// lifecycle and runs the conflict-checking admission algorithm under
// per-room mutual exclusion.
type ReservationService struct {
	reservations repository.ReservationRepository
	rooms        repository.RoomRepository
	locks        *roomLocks
	dispatcher   events.Dispatcher
	now          func() time.Time
}

// ReservationDependencies bundles collaborators for the ledger.
type ReservationDependencies struct {
	ReservationRepo repository.ReservationRepository
	RoomRepo        repository.RoomRepository
	Dispatcher      events.Dispatcher
	Now             func() time.Time
}

// ReservationCreateInput describes a booking request.
type ReservationCreateInput struct {
	RoomID    string
	StartTime time.Time
	EndTime   time.Time
	UserLabel string
}

// NewReservationService constructs the ledger.
func NewReservationService(deps ReservationDependencies) *ReservationService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: deps.ReservationRepo,
		rooms:        deps.RoomRepo,
		locks:        newRoomLocks(),
		dispatcher:   deps.Dispatcher,
		now:          now,
	}
}

// Create admits a reservation if its half-open interval does not intersect
// any existing reservation for the same room. Touching endpoints do not
// conflict. The check and the insert run inside the room's critical
// section, so two concurrent requests for the same slot cannot both commit.
func (s *ReservationService) Create(ctx context.Context, input ReservationCreateInput) (*domain.Reservation, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, input.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("room", map[string]any{"roomId": input.RoomID})
		}
		return nil, apperrors.NewStorageFault(err)
	}
	if !room.IsActive {
		// Deactivated rooms are hidden from booking; attempts are
		// rejected rather than silently allowed.
		return nil, apperrors.NewValidationError("room is not active", map[string]any{"roomId": room.ID})
	}

	lock := s.locks.forRoom(input.RoomID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.listByRoomRetry(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.Overlaps(input.StartTime, input.EndTime) {
			return nil, apperrors.NewConflict("room is already booked for the requested time", map[string]any{
				"roomId":        input.RoomID,
				"conflictStart": r.StartTime,
				"conflictEnd":   r.EndTime,
			})
		}
	}

	createdAt := s.now()
	reservation := &domain.Reservation{
		ID:        uuid.NewString(),
		RoomID:    input.RoomID,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		UserLabel: strings.TrimSpace(input.UserLabel),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	if err := s.createRetry(ctx, reservation); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventReservationCreated,
		SubjectID: reservation.ID,
		Actor:     reservation.UserLabel,
		Payload: events.ReservationCreatedPayload{
			RoomID:    reservation.RoomID,
			StartTime: reservation.StartTime,
			EndTime:   reservation.EndTime,
			UserLabel: reservation.UserLabel,
		},
	})
	return reservation, nil
}

// ListByRoom returns the room's reservations ordered by start time
// ascending. A room with no reservations yields an empty slice.
func (s *ReservationService) ListByRoom(ctx context.Context, roomID string) ([]domain.Reservation, error) {
	result, err := s.reservations.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, apperrors.NewStorageFault(err)
	}
	if result == nil {
		result = []domain.Reservation{}
	}
	return result, nil
}

// ListAll returns every reservation ordered by start time descending, most
// recent activity first.
func (s *ReservationService) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	result, err := s.reservations.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageFault(err)
	}
	if result == nil {
		result = []domain.Reservation{}
	}
	return result, nil
}

// Delete removes a reservation. Only the original booker (matched by the
// denormalized display label) or an admin may delete.
func (s *ReservationService) Delete(ctx context.Context, id string, requester *domain.User) error {
	reservation, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("reservation", map[string]any{"id": id})
		}
		return apperrors.NewStorageFault(err)
	}

	if requester == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !requester.IsAdmin() && !strings.EqualFold(requester.DisplayName, reservation.UserLabel) {
		return apperrors.NewForbidden("only the booker or an admin may delete a reservation")
	}

	if err := s.reservations.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("reservation", map[string]any{"id": id})
		}
		return apperrors.NewStorageFault(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventReservationDeleted,
		SubjectID: reservation.ID,
		Actor:     requester.DisplayName,
		Payload:   events.ReservationDeletedPayload{RoomID: reservation.RoomID},
	})
	return nil
}

func (s *ReservationService) validateInput(input ReservationCreateInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.RoomID) == "" {
		details["roomId"] = "required"
	}
	if strings.TrimSpace(input.UserLabel) == "" {
		details["user"] = "required"
	}
	if input.StartTime.IsZero() {
		details["startTime"] = "required"
	}
	if input.EndTime.IsZero() {
		details["endTime"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("missing required fields", details)
	}
	if !input.EndTime.After(input.StartTime) {
		return apperrors.NewValidationError("end time must be after start time", map[string]any{
			"startTime": input.StartTime,
			"endTime":   input.EndTime,
		})
	}
	if input.StartTime.Before(s.now()) {
		return apperrors.NewValidationError("reservation cannot start in the past", map[string]any{
			"startTime": input.StartTime,
		})
	}
	return nil
}

func (s *ReservationService) listByRoomRetry(ctx context.Context, roomID string) ([]domain.Reservation, error) {
	var lastErr error
	for attempt := 0; attempt < storageRetries; attempt++ {
		existing, err := s.reservations.ListByRoom(ctx, roomID)
		if err == nil {
			return existing, nil
		}
		lastErr = err
	}
	return nil, apperrors.NewStorageFault(lastErr)
}

func (s *ReservationService) createRetry(ctx context.Context, reservation *domain.Reservation) error {
	var lastErr error
	for attempt := 0; attempt < storageRetries; attempt++ {
		err := s.reservations.Create(ctx, reservation)
		if err == nil {
			return nil
		}
		// The exclusion constraint firing means another writer won the
		// slot; that is a business conflict, not a fault.
		if errors.Is(err, repository.ErrOverlap) {
			return apperrors.NewConflict("room is already booked for the requested time", map[string]any{
				"roomId": reservation.RoomID,
			})
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.NewInternalError(err)
		}
		lastErr = err
	}
	return apperrors.NewStorageFault(lastErr)
}

func (s *ReservationService) publish(ctx context.Context, event events.Event) {
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
