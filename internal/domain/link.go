package domain

import (
	"time"

	"github.com/google/uuid"
)

// Link is a titled URL saved on a trip (bookings, maps, documents).
type Link struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Title     string
	URL       string
	CreatedAt time.Time
}

// LinkPatch names the link fields an update should change.
type LinkPatch struct {
	Title *string
	URL   *string
}
