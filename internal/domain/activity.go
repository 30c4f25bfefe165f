package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity is something planned to happen at OccursAt during its trip.
type Activity struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Title     string
	OccursAt  time.Time
	CreatedAt time.Time
}

// ActivityPatch names the activity fields an update should change.
type ActivityPatch struct {
	Title    *string
	OccursAt *time.Time
}

// ActivityDay groups the activities that fall on one calendar day of a trip.
// Days without activities are still present with an empty slice.
type ActivityDay struct {
	Date       time.Time
	Activities []Activity
}
