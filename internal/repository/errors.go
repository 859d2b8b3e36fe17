package repository

import "errors"

// Sentinel errors returned by all repository implementations. Services map
// these to the domain error taxonomy; anything else is treated as a storage
// fault.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrOverlap is raised by the Postgres exclusion constraint when two
	// reservations for the same room intersect. The ledger treats it the
	// same as a conflict found by its own scan.
	ErrOverlap = errors.New("overlapping reservation")
)
