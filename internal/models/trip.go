package models

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripStatusActive     TripStatus = "Active"
	TripStatusSettlement TripStatus = "Settlement"
	TripStatusArchived   TripStatus = "Archived"
)

// Valid reports whether s is a known trip status.
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusActive, TripStatusSettlement, TripStatusArchived:
		return true
	}
	return false
}

// Trip is a shared context grouping members and expenses.
// Trips are archived, never hard-deleted while expenses reference them.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name (e.g., "Goa 2026").
	Name string

	// Currency is the ISO currency code every expense in the trip is recorded in.
	Currency string

	// CreatorID is the user who created the trip. Only the creator may archive it.
	CreatorID string

	Status TripStatus

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// Membership is a user's participation record in a trip.
// Leaving a trip flips Active to false; the row itself is never deleted.
type Membership struct {
	TripID string
	UserID string

	// Nickname is an optional display name scoped to the trip.
	Nickname string

	Active bool

	// JoinedAt is the Unix timestamp of the first time the user joined.
	JoinedAt int64
}
