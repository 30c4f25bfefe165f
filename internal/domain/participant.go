package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a person invited to a trip. Exactly one participant per trip
// is the owner; owners cannot be removed through cancel or reject.
type Participant struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Name        *string
	Email       string
	IsConfirmed bool
	IsOwner     bool
	CreatedAt   time.Time

	// Trip is set only when the participant was loaded with its trip.
	Trip *Trip
}

// ParticipantPatch names the participant fields an update should change.
type ParticipantPatch struct {
	Name        *string
	IsConfirmed *bool
}
