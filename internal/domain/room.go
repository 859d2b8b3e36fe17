package domain

import "time"

// Room is the aggregate for bookable meeting rooms. Deleting a room only
// flips IsActive; historical reservations keep referencing its ID.
type Room struct {
	ID          string
	Name        string
	Capacity    int
	Description string
	Location    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
