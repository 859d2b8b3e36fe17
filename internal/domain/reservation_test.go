package domain

import (
	"testing"
	"time"
)

func TestReservationOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	hour := func(n int) time.Time { return base.Add(time.Duration(n) * time.Hour) }

	existing := Reservation{StartTime: hour(0), EndTime: hour(2)}

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical", hour(0), hour(2), true},
		{"contained", hour(0), hour(1), true},
		{"surrounding", hour(-1), hour(3), true},
		{"overlapping head", hour(-1), hour(1), true},
		{"overlapping tail", hour(1), hour(3), true},
		{"touching before", hour(-2), hour(0), false},
		{"touching after", hour(2), hour(4), false},
		{"well before", hour(-4), hour(-3), false},
		{"well after", hour(5), hour(6), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := existing.Overlaps(tc.start, tc.end); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}
