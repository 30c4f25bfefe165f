package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/notify"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// Invitation is the outcome of inviting someone to a trip.
type Invitation struct {
	Participant domain.Participant
	MailSent    bool
}

// Removal is the outcome of cancelling or rejecting an invite.
// When OwnerRedirect is set nothing was removed: owners leave a trip by
// cancelling the trip itself.
type Removal struct {
	Participant   domain.Participant
	OwnerRedirect bool
	MailSent      bool
}

// ParticipantService implements the participant lifecycle:
// invited (pending) -> confirmed, or invited -> removed.
type ParticipantService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	notifier     Notifier
	apiBaseURL   string
}

func NewParticipantService(trips repo.TripRepo, participants repo.ParticipantRepo, n Notifier, apiBaseURL string) *ParticipantService {
	return &ParticipantService{trips: trips, participants: participants, notifier: n, apiBaseURL: apiBaseURL}
}

// Invite adds a pending participant to the trip and waits for the invite
// mail. A failed mail leaves the participant in place with MailSent false.
func (s *ParticipantService) Invite(ctx context.Context, tripID uuid.UUID, email string) (Invitation, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return Invitation{}, lookupErr("service.ParticipantService.Invite", "Trip", err)
	}

	p, err := s.participants.Create(ctx, domain.Participant{TripID: trip.ID, Email: email})
	if err != nil {
		return Invitation{}, lookupErr("service.ParticipantService.Invite", "Trip", err)
	}

	link := participantConfirmLink(s.apiBaseURL, p.ID)
	sendErr := s.notifier.Send(context.WithoutCancel(ctx), notify.Invite, p.Email, tripSubs(trip, link))
	return Invitation{Participant: p, MailSent: sendErr == nil}, nil
}

func (s *ParticipantService) Get(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, lookupErr("service.ParticipantService.Get", "Participant", err)
	}
	return p, nil
}

// List returns the trip's participants, owner first. A non-nil confirmed
// keeps only participants in that state.
func (s *ParticipantService) List(ctx context.Context, tripID uuid.UUID, confirmed *bool) ([]domain.Participant, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, lookupErr("service.ParticipantService.List", "Trip", err)
	}

	ps, err := s.participants.ListByTripID(ctx, tripID, confirmed)
	if err != nil {
		return nil, lookupErr("service.ParticipantService.List", "Trip", err)
	}
	return ps, nil
}

// Confirm moves a pending participant to confirmed. An already confirmed
// participant is returned untouched.
func (s *ParticipantService) Confirm(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, lookupErr("service.ParticipantService.Confirm", "Participant", err)
	}
	if p.IsConfirmed {
		return p, nil
	}

	confirmed := true
	updated, err := s.participants.Update(ctx, id, domain.ParticipantPatch{IsConfirmed: &confirmed})
	if err != nil {
		return domain.Participant{}, lookupErr("service.ParticipantService.Confirm", "Participant", err)
	}
	return updated, nil
}

// Cancel removes an invite and waits for the cancellation mail.
func (s *ParticipantService) Cancel(ctx context.Context, id uuid.UUID) (Removal, error) {
	p, err := s.removable(ctx, "service.ParticipantService.Cancel", id)
	if err != nil {
		return Removal{}, err
	}
	if p.IsOwner {
		return Removal{Participant: p, OwnerRedirect: true}, nil
	}

	if err := s.participants.Delete(ctx, id); err != nil {
		return Removal{}, lookupErr("service.ParticipantService.Cancel", "Participant", err)
	}

	sendErr := s.notifier.Send(context.WithoutCancel(ctx), notify.Cancellation, p.Email, tripSubs(*p.Trip, ""))
	return Removal{Participant: p, MailSent: sendErr == nil}, nil
}

// Reject removes an invite at the invitee's request. No mail is sent.
func (s *ParticipantService) Reject(ctx context.Context, id uuid.UUID) (Removal, error) {
	p, err := s.removable(ctx, "service.ParticipantService.Reject", id)
	if err != nil {
		return Removal{}, err
	}
	if p.IsOwner {
		return Removal{Participant: p, OwnerRedirect: true}, nil
	}

	if err := s.participants.Delete(ctx, id); err != nil {
		return Removal{}, lookupErr("service.ParticipantService.Reject", "Participant", err)
	}
	return Removal{Participant: p}, nil
}

// removable loads the participant with its trip for Cancel and Reject.
func (s *ParticipantService) removable(ctx context.Context, op string, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id, domain.WithTrip)
	if err != nil {
		return domain.Participant{}, lookupErr(op, "Participant", err)
	}
	return p, nil
}
