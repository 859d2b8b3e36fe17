package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/room-booking/internal/domain"
	"github.com/spec-kit/room-booking/internal/repository"
)

func TestQueryService_Projection(t *testing.T) {
	rooms := repository.NewMemoryRoomRepository()
	_ = rooms.Create(context.Background(), &domain.Room{ID: "room-1", Name: "Neukkari 1", Capacity: 6, IsActive: true})

	reservations := repository.NewMemoryReservationRepository()
	past := domain.Reservation{
		ID:        "res-past",
		RoomID:    "room-1",
		StartTime: testClock.Add(-2 * time.Hour),
		EndTime:   testClock.Add(-90 * time.Minute),
		UserLabel: "Alice",
	}
	upcoming := domain.Reservation{
		ID:        "res-upcoming",
		RoomID:    "room-1",
		StartTime: testClock.Add(time.Hour),
		EndTime:   testClock.Add(3 * time.Hour),
		UserLabel: "Bob",
	}
	orphan := domain.Reservation{
		ID:        "res-orphan",
		RoomID:    "room-gone",
		StartTime: testClock.Add(4 * time.Hour),
		EndTime:   testClock.Add(5 * time.Hour),
		UserLabel: "Carol",
	}
	for _, r := range []domain.Reservation{past, upcoming, orphan} {
		record := r
		if err := reservations.Create(context.Background(), &record); err != nil {
			t.Fatalf("seed %s: %v", r.ID, err)
		}
	}

	svc := NewQueryService(reservations, rooms, fixedNow)

	t.Run("room schedule joins the room name and derives display fields", func(t *testing.T) {
		views, err := svc.RoomSchedule(context.Background(), "room-1")
		if err != nil {
			t.Fatalf("schedule: %v", err)
		}
		if len(views) != 2 {
			t.Fatalf("expected 2 views, got %d", len(views))
		}

		byID := map[string]ReservationView{}
		for _, v := range views {
			byID[v.ID] = v
		}

		pastView := byID["res-past"]
		if pastView.RoomName != "Neukkari 1" {
			t.Fatalf("expected joined room name, got %q", pastView.RoomName)
		}
		if pastView.DurationMinutes != 30 {
			t.Fatalf("expected 30 minute duration, got %d", pastView.DurationMinutes)
		}
		if pastView.Upcoming {
			t.Fatal("past reservation must not be flagged upcoming")
		}

		upcomingView := byID["res-upcoming"]
		if upcomingView.DurationMinutes != 120 {
			t.Fatalf("expected 120 minute duration, got %d", upcomingView.DurationMinutes)
		}
		if !upcomingView.Upcoming {
			t.Fatal("future reservation must be flagged upcoming")
		}
	})

	t.Run("missing room degrades to the fallback label", func(t *testing.T) {
		views, err := svc.AllReservations(context.Background())
		if err != nil {
			t.Fatalf("all: %v", err)
		}
		var found bool
		for _, v := range views {
			if v.ID == "res-orphan" {
				found = true
				if v.RoomName != fallbackRoomName {
					t.Fatalf("expected fallback label, got %q", v.RoomName)
				}
			}
		}
		if !found {
			t.Fatal("orphan reservation missing from global listing")
		}
	})

	t.Run("global listing keeps ledger ordering", func(t *testing.T) {
		views, _ := svc.AllReservations(context.Background())
		for i := 1; i < len(views); i++ {
			if views[i].StartTime.After(views[i-1].StartTime) {
				t.Fatalf("expected start time descending, got %v before %v", views[i-1].StartTime, views[i].StartTime)
			}
		}
	})
}
