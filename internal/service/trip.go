package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/notify"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// CreateTripInput is what a new trip is made from.
type CreateTripInput struct {
	Destination    string
	StartsAt       time.Time
	EndsAt         time.Time
	OwnerName      string
	OwnerEmail     string
	EmailsToInvite []string
}

// UpdateTripInput replaces the trip's destination and date window.
type UpdateTripInput struct {
	Destination string
	StartsAt    time.Time
	EndsAt      time.Time
}

// TripService implements business logic for Trip operations.
type TripService struct {
	trips      repo.TripRepo
	notifier   Notifier
	apiBaseURL string
	now        func() time.Time
}

// NewTripService constructs a TripService. apiBaseURL is the externally
// reachable base of this API and prefixes every confirmation link.
func NewTripService(trips repo.TripRepo, n Notifier, apiBaseURL string, opts ...Option) *TripService {
	o := buildOptions(opts)
	return &TripService{trips: trips, notifier: n, apiBaseURL: apiBaseURL, now: o.now}
}

// Create stores the trip with its owner (already confirmed) and invitees,
// then mails the owner a confirmation link. A mail failure is logged and
// does not undo the trip.
func (s *TripService) Create(ctx context.Context, in CreateTripInput) (domain.Trip, error) {
	if err := checkTripWindow(s.now(), in.StartsAt, in.EndsAt); err != nil {
		return domain.Trip{}, err
	}

	ownerName := in.OwnerName
	participants := make([]domain.Participant, 0, len(in.EmailsToInvite)+1)
	participants = append(participants, domain.Participant{
		Name:        &ownerName,
		Email:       in.OwnerEmail,
		IsOwner:     true,
		IsConfirmed: true,
	})
	for _, email := range in.EmailsToInvite {
		participants = append(participants, domain.Participant{Email: email})
	}

	trip, err := s.trips.Create(ctx, domain.Trip{
		Destination: in.Destination,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
	}, participants)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	link := tripConfirmLink(s.apiBaseURL, trip.ID)
	// The notifier logs delivery failures itself.
	_ = s.notifier.Send(context.WithoutCancel(ctx), notify.TripConfirmation, in.OwnerEmail, tripSubs(trip, link))
	return trip, nil
}

// Get returns the trip with its participants loaded, so callers can read the owner.
func (s *TripService) Get(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id, domain.WithParticipants)
	if err != nil {
		return domain.Trip{}, lookupErr("service.TripService.Get", "Trip", err)
	}
	return trip, nil
}

// Update replaces the destination and dates after applying the trip date rules.
func (s *TripService) Update(ctx context.Context, id uuid.UUID, in UpdateTripInput) (domain.Trip, error) {
	if _, err := s.trips.GetByID(ctx, id); err != nil {
		return domain.Trip{}, lookupErr("service.TripService.Update", "Trip", err)
	}

	if err := checkTripWindow(s.now(), in.StartsAt, in.EndsAt); err != nil {
		return domain.Trip{}, err
	}

	updated, err := s.trips.Update(ctx, id, domain.TripPatch{
		Destination: &in.Destination,
		StartsAt:    &in.StartsAt,
		EndsAt:      &in.EndsAt,
	})
	if err != nil {
		return domain.Trip{}, lookupErr("service.TripService.Update", "Trip", err)
	}
	return updated, nil
}

// Confirm marks the trip confirmed and invites every non-owner participant.
// Confirming an already confirmed trip changes nothing and sends nothing.
func (s *TripService) Confirm(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id, domain.WithParticipants)
	if err != nil {
		return domain.Trip{}, lookupErr("service.TripService.Confirm", "Trip", err)
	}
	if trip.IsConfirmed {
		return trip, nil
	}

	confirmed := true
	if _, err := s.trips.Update(ctx, id, domain.TripPatch{IsConfirmed: &confirmed}); err != nil {
		return domain.Trip{}, lookupErr("service.TripService.Confirm", "Trip", err)
	}
	trip.IsConfirmed = true

	invitees := trip.Invitees()
	deliveries := make([]notify.Delivery, 0, len(invitees))
	for _, p := range invitees {
		deliveries = append(deliveries, notify.Delivery{
			To:   p.Email,
			Subs: tripSubs(trip, participantConfirmLink(s.apiBaseURL, p.ID)),
		})
	}
	s.notifier.Broadcast(context.WithoutCancel(ctx), notify.Invite, deliveries)
	return trip, nil
}

// Cancel deletes the trip (its participants, activities and links go with
// it) and tells every former participant. Delivery failures are reported in
// the returned Report, never as an error.
func (s *TripService) Cancel(ctx context.Context, id uuid.UUID) (notify.Report, error) {
	trip, err := s.trips.GetByID(ctx, id, domain.WithParticipants)
	if err != nil {
		return notify.Report{}, lookupErr("service.TripService.Cancel", "Trip", err)
	}

	if err := s.trips.Delete(ctx, id); err != nil {
		return notify.Report{}, lookupErr("service.TripService.Cancel", "Trip", err)
	}

	deliveries := make([]notify.Delivery, 0, len(trip.Participants))
	for _, p := range trip.Participants {
		deliveries = append(deliveries, notify.Delivery{To: p.Email, Subs: tripSubs(trip, "")})
	}
	return s.notifier.Broadcast(context.WithoutCancel(ctx), notify.Cancellation, deliveries), nil
}
