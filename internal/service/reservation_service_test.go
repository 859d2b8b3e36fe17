package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/room-booking/internal/domain"
	"github.com/spec-kit/room-booking/internal/repository"
	apperrors "github.com/spec-kit/room-booking/pkg/util"
)

var testClock = time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time {
	return testClock
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 1, 2, hour, minute, 0, 0, time.UTC)
}

type ledgerFixture struct {
	service      *ReservationService
	reservations *repository.MemoryReservationRepository
	rooms        *repository.MemoryRoomRepository
}

func newLedgerFixture(t *testing.T, roomIDs ...string) *ledgerFixture {
	t.Helper()
	rooms := repository.NewMemoryRoomRepository()
	for _, id := range roomIDs {
		room := &domain.Room{ID: id, Name: "Room " + id, Capacity: 4, IsActive: true, CreatedAt: testClock, UpdatedAt: testClock}
		if err := rooms.Create(context.Background(), room); err != nil {
			t.Fatalf("seed room %s: %v", id, err)
		}
	}
	reservations := repository.NewMemoryReservationRepository()
	svc := NewReservationService(ReservationDependencies{
		ReservationRepo: reservations,
		RoomRepo:        rooms,
		Now:             fixedNow,
	})
	return &ledgerFixture{service: svc, reservations: reservations, rooms: rooms}
}

func (f *ledgerFixture) book(t *testing.T, roomID string, start, end time.Time) *domain.Reservation {
	t.Helper()
	reservation, err := f.service.Create(context.Background(), ReservationCreateInput{
		RoomID:    roomID,
		StartTime: start,
		EndTime:   end,
		UserLabel: "Alice",
	})
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return reservation
}

func TestReservationService_Create(t *testing.T) {
	t.Run("rejects overlapping interval and keeps first booking", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1")
		first := f.book(t, "room-1", at(10, 0), at(11, 0))

		_, err := f.service.Create(context.Background(), ReservationCreateInput{
			RoomID:    "room-1",
			StartTime: at(10, 30),
			EndTime:   at(11, 30),
			UserLabel: "Bob",
		})
		if !apperrors.IsConflict(err) {
			t.Fatalf("expected conflict, got %v", err)
		}

		stored, err := f.service.ListByRoom(context.Background(), "room-1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(stored) != 1 || stored[0].ID != first.ID {
			t.Fatalf("expected only the first reservation to remain, got %v", stored)
		}
	})

	t.Run("allows touching endpoints", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1")
		f.book(t, "room-1", at(10, 0), at(11, 0))
		f.book(t, "room-1", at(11, 0), at(12, 0))

		stored, _ := f.service.ListByRoom(context.Background(), "room-1")
		if len(stored) != 2 {
			t.Fatalf("expected back-to-back bookings to coexist, got %d", len(stored))
		}
	})

	t.Run("rejects containment and identical intervals", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1")
		f.book(t, "room-1", at(10, 0), at(12, 0))

		for _, interval := range [][2]time.Time{
			{at(10, 30), at(11, 0)},  // inside
			{at(9, 0), at(13, 0)},    // surrounding
			{at(10, 0), at(12, 0)},   // identical
			{at(11, 59), at(13, 0)},  // overlapping tail
		} {
			_, err := f.service.Create(context.Background(), ReservationCreateInput{
				RoomID:    "room-1",
				StartTime: interval[0],
				EndTime:   interval[1],
				UserLabel: "Bob",
			})
			if !apperrors.IsConflict(err) {
				t.Fatalf("interval %v-%v: expected conflict, got %v", interval[0], interval[1], err)
			}
		}
	})

	t.Run("cross-room bookings with identical times both succeed", func(t *testing.T) {
		f := newLedgerFixture(t, "room-a", "room-b")
		f.book(t, "room-a", at(10, 0), at(11, 0))
		f.book(t, "room-b", at(10, 0), at(11, 0))
	})

	t.Run("validates time ordering", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1")
		for _, interval := range [][2]time.Time{
			{at(11, 0), at(10, 0)}, // reversed
			{at(10, 0), at(10, 0)}, // zero length
		} {
			_, err := f.service.Create(context.Background(), ReservationCreateInput{
				RoomID:    "room-1",
				StartTime: interval[0],
				EndTime:   interval[1],
				UserLabel: "Alice",
			})
			domainErr := apperrors.ToDomainError(err)
			if domainErr == nil || domainErr.Code != apperrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		}
	})

	t.Run("rejects bookings starting in the past", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1")
		_, err := f.service.Create(context.Background(), ReservationCreateInput{
			RoomID:    "room-1",
			StartTime: testClock.Add(-time.Hour),
			EndTime:   testClock.Add(time.Hour),
			UserLabel: "Alice",
		})
		domainErr := apperrors.ToDomainError(err)
		if domainErr == nil || domainErr.Code != apperrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown room is not found", func(t *testing.T) {
		f := newLedgerFixture(t)
		_, err := f.service.Create(context.Background(), ReservationCreateInput{
			RoomID:    "room-404",
			StartTime: at(10, 0),
			EndTime:   at(11, 0),
			UserLabel: "Alice",
		})
		domainErr := apperrors.ToDomainError(err)
		if domainErr == nil || domainErr.Code != apperrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("deactivated room rejects new bookings", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1")
		room, _ := f.rooms.GetByID(context.Background(), "room-1")
		room.IsActive = false
		if err := f.rooms.Update(context.Background(), room); err != nil {
			t.Fatalf("deactivate: %v", err)
		}

		_, err := f.service.Create(context.Background(), ReservationCreateInput{
			RoomID:    "room-1",
			StartTime: at(10, 0),
			EndTime:   at(11, 0),
			UserLabel: "Alice",
		})
		domainErr := apperrors.ToDomainError(err)
		if domainErr == nil || domainErr.Code != apperrors.CodeValidation {
			t.Fatalf("expected validation error for inactive room, got %v", err)
		}
	})
}

func TestReservationService_ConcurrentAdmission(t *testing.T) {
	const attempts = 25

	f := newLedgerFixture(t, "room-1")

	start := make(chan struct{})
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)

	for i := 0; i < attempts; i++ {
		go func(offset int) {
			defer wg.Done()
			<-start
			// Pairwise-overlapping intervals: each starts inside every
			// other attempt's window.
			_, err := f.service.Create(context.Background(), ReservationCreateInput{
				RoomID:    "room-1",
				StartTime: at(10, 0).Add(time.Duration(offset) * time.Minute),
				EndTime:   at(12, 0),
				UserLabel: "Alice",
			})
			results <- err
		}(i)
	}

	close(start)
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case apperrors.IsConflict(err):
			conflicted++
		default:
			t.Fatalf("unexpected error kind: %v", err)
		}
	}

	if succeeded != 1 || conflicted != attempts-1 {
		t.Fatalf("expected exactly one winner, got %d successes and %d conflicts", succeeded, conflicted)
	}

	stored, _ := f.service.ListByRoom(context.Background(), "room-1")
	if len(stored) != 1 {
		t.Fatalf("expected one committed reservation, got %d", len(stored))
	}
}

func TestReservationService_Listing(t *testing.T) {
	t.Run("list by room orders by start ascending and is idempotent", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1", "room-2")
		f.book(t, "room-1", at(14, 0), at(15, 0))
		f.book(t, "room-1", at(10, 0), at(11, 0))
		f.book(t, "room-1", at(12, 0), at(13, 0))
		f.book(t, "room-2", at(9, 30), at(10, 30))

		first, err := f.service.ListByRoom(context.Background(), "room-1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(first) != 3 {
			t.Fatalf("expected 3 reservations, got %d", len(first))
		}
		for i := 1; i < len(first); i++ {
			if first[i].StartTime.Before(first[i-1].StartTime) {
				t.Fatalf("not ordered by start ascending: %v", first)
			}
		}

		second, _ := f.service.ListByRoom(context.Background(), "room-1")
		for i := range first {
			if first[i].ID != second[i].ID {
				t.Fatalf("ordering not stable between calls")
			}
		}
	})

	t.Run("list all orders by start descending with id tie-break", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1", "room-2")
		f.book(t, "room-1", at(10, 0), at(11, 0))
		f.book(t, "room-2", at(10, 0), at(11, 0))
		f.book(t, "room-1", at(15, 0), at(16, 0))

		all, err := f.service.ListAll(context.Background())
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 reservations, got %d", len(all))
		}
		if !all[0].StartTime.Equal(at(15, 0)) {
			t.Fatalf("expected most recent start first, got %v", all[0].StartTime)
		}
		if all[1].ID >= all[2].ID {
			t.Fatalf("equal starts must tie-break by id ascending")
		}
	})

	t.Run("empty room yields empty slice", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1")
		stored, err := f.service.ListByRoom(context.Background(), "room-1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if stored == nil || len(stored) != 0 {
			t.Fatalf("expected empty slice, got %v", stored)
		}
	})
}

func TestReservationService_Delete(t *testing.T) {
	admin := &domain.User{ID: "u-admin", DisplayName: "Root", Role: domain.RoleAdmin}
	alice := &domain.User{ID: "u-alice", DisplayName: "Alice", Role: domain.RoleMember}
	mallory := &domain.User{ID: "u-mallory", DisplayName: "Mallory", Role: domain.RoleMember}

	t.Run("booker may delete own reservation", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1")
		reservation := f.book(t, "room-1", at(10, 0), at(11, 0))

		if err := f.service.Delete(context.Background(), reservation.ID, alice); err != nil {
			t.Fatalf("delete: %v", err)
		}
		stored, _ := f.service.ListByRoom(context.Background(), "room-1")
		if len(stored) != 0 {
			t.Fatalf("expected reservation removed")
		}
	})

	t.Run("admin may delete any reservation", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1")
		reservation := f.book(t, "room-1", at(10, 0), at(11, 0))
		if err := f.service.Delete(context.Background(), reservation.ID, admin); err != nil {
			t.Fatalf("delete as admin: %v", err)
		}
	})

	t.Run("other members are forbidden", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1")
		reservation := f.book(t, "room-1", at(10, 0), at(11, 0))

		err := f.service.Delete(context.Background(), reservation.ID, mallory)
		domainErr := apperrors.ToDomainError(err)
		if domainErr == nil || domainErr.Code != apperrors.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("missing reservation is not found", func(t *testing.T) {
		f := newLedgerFixture(t, "room-1")
		err := f.service.Delete(context.Background(), "does-not-exist", admin)
		domainErr := apperrors.ToDomainError(err)
		if domainErr == nil || domainErr.Code != apperrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

// flakyReservationRepo fails a configured number of Create calls before
// delegating, to exercise the ledger's bounded retry.
type flakyReservationRepo struct {
	repository.ReservationRepository
	mu        sync.Mutex
	failures  int
	createErr error
}

func (r *flakyReservationRepo) Create(ctx context.Context, reservation *domain.Reservation) error {
	r.mu.Lock()
	if r.failures > 0 {
		r.failures--
		r.mu.Unlock()
		return r.createErr
	}
	r.mu.Unlock()
	return r.ReservationRepository.Create(ctx, reservation)
}

func TestReservationService_StorageRetry(t *testing.T) {
	t.Run("transient faults are retried", func(t *testing.T) {
		rooms := repository.NewMemoryRoomRepository()
		_ = rooms.Create(context.Background(), &domain.Room{ID: "room-1", Name: "Room", Capacity: 2, IsActive: true})
		flaky := &flakyReservationRepo{
			ReservationRepository: repository.NewMemoryReservationRepository(),
			failures:              2,
			createErr:             errors.New("connection reset"),
		}
		svc := NewReservationService(ReservationDependencies{
			ReservationRepo: flaky,
			RoomRepo:        rooms,
			Now:             fixedNow,
		})

		if _, err := svc.Create(context.Background(), ReservationCreateInput{
			RoomID:    "room-1",
			StartTime: at(10, 0),
			EndTime:   at(11, 0),
			UserLabel: "Alice",
		}); err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
	})

	t.Run("persistent faults surface as storage errors, not conflicts", func(t *testing.T) {
		rooms := repository.NewMemoryRoomRepository()
		_ = rooms.Create(context.Background(), &domain.Room{ID: "room-1", Name: "Room", Capacity: 2, IsActive: true})
		flaky := &flakyReservationRepo{
			ReservationRepository: repository.NewMemoryReservationRepository(),
			failures:              100,
			createErr:             errors.New("connection refused"),
		}
		svc := NewReservationService(ReservationDependencies{
			ReservationRepo: flaky,
			RoomRepo:        rooms,
			Now:             fixedNow,
		})

		_, err := svc.Create(context.Background(), ReservationCreateInput{
			RoomID:    "room-1",
			StartTime: at(10, 0),
			EndTime:   at(11, 0),
			UserLabel: "Alice",
		})
		if !apperrors.IsStorageFault(err) {
			t.Fatalf("expected storage fault, got %v", err)
		}
		if apperrors.IsConflict(err) {
			t.Fatalf("storage fault must not masquerade as conflict")
		}
	})

	t.Run("constraint violation maps to conflict", func(t *testing.T) {
		rooms := repository.NewMemoryRoomRepository()
		_ = rooms.Create(context.Background(), &domain.Room{ID: "room-1", Name: "Room", Capacity: 2, IsActive: true})
		flaky := &flakyReservationRepo{
			ReservationRepository: repository.NewMemoryReservationRepository(),
			failures:              1,
			createErr:             repository.ErrOverlap,
		}
		svc := NewReservationService(ReservationDependencies{
			ReservationRepo: flaky,
			RoomRepo:        rooms,
			Now:             fixedNow,
		})

		_, err := svc.Create(context.Background(), ReservationCreateInput{
			RoomID:    "room-1",
			StartTime: at(10, 0),
			EndTime:   at(11, 0),
			UserLabel: "Alice",
		})
		if !apperrors.IsConflict(err) {
			t.Fatalf("expected conflict from exclusion violation, got %v", err)
		}
	})
}
