// Package domain contains the core data types for the trip planner.
// This package has no infrastructure dependencies and is imported by every
// other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the aggregate root: a planned journey with a date window.
// Participants, Activities and Links are only populated when the repo was
// asked to include them.
type Trip struct {
	ID          uuid.UUID
	Destination string
	StartsAt    time.Time
	EndsAt      time.Time
	IsConfirmed bool
	CreatedAt   time.Time

	Participants []Participant
	Activities   []Activity
	Links        []Link
}

// Owner returns the participant flagged as owner, if it was loaded.
func (t Trip) Owner() (Participant, bool) {
	for _, p := range t.Participants {
		if p.IsOwner {
			return p, true
		}
	}
	return Participant{}, false
}

// Covers reports whether at falls inside the trip window. Both bounds are inclusive.
func (t Trip) Covers(at time.Time) bool {
	return !at.Before(t.StartsAt) && !at.After(t.EndsAt)
}

// HasActivity reports whether id is among the loaded activities.
func (t Trip) HasActivity(id uuid.UUID) bool {
	for _, a := range t.Activities {
		if a.ID == id {
			return true
		}
	}
	return false
}

// HasLink reports whether id is among the loaded links.
func (t Trip) HasLink(id uuid.UUID) bool {
	for _, l := range t.Links {
		if l.ID == id {
			return true
		}
	}
	return false
}

// Invitees returns the non-owner participants.
func (t Trip) Invitees() []Participant {
	out := make([]Participant, 0, len(t.Participants))
	for _, p := range t.Participants {
		if !p.IsOwner {
			out = append(out, p)
		}
	}
	return out
}

// TripPatch names the trip fields an update should change. Nil fields are kept.
type TripPatch struct {
	Destination *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	IsConfirmed *bool
}

// Relation names related records a repo GetByID can load in the same call.
type Relation int

const (
	// WithParticipants, WithActivities and WithLinks apply to trips.
	WithParticipants Relation = iota + 1
	WithActivities
	WithLinks

	// WithTrip applies to participants.
	WithTrip
)

// Includes reports whether rel is among include.
func Includes(include []Relation, rel Relation) bool {
	for _, r := range include {
		if r == rel {
			return true
		}
	}
	return false
}
