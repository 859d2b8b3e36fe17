package domain

import "time"

// Reservation holds a half-open [StartTime, EndTime) slot for one room.
// UserLabel is the booker's display name denormalized at creation time; it
// stays valid even after the account is deleted.
type Reservation struct {
	ID        string
	RoomID    string
	StartTime time.Time
	EndTime   time.Time
	UserLabel string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether two reservations intersect. Touching endpoints
// (one ending exactly when the other starts) do not overlap.
func (r Reservation) Overlaps(start, end time.Time) bool {
	return r.StartTime.Before(end) && r.EndTime.After(start)
}
