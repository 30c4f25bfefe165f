package handler

import (
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/backend/internal/validate"
)

type participantParams struct {
	ParticipantID openapi_types.UUID `param:"participantId"`
}

type inviteBody struct {
	Email string `json:"email" validate:"required,email"`
}

// participantsQuery filters by confirmation. Only the literal tokens
// "true" and "false" are accepted.
type participantsQuery struct {
	Confirmed *string `query:"confirmed" validate:"omitempty,oneof=true false"`
}

type inviteResponse struct {
	ParticipantID uuid.UUID `json:"participantId"`
	Message       string    `json:"message"`
}

type participantItem struct {
	ID          uuid.UUID `json:"id"`
	Name        *string   `json:"name"`
	Email       string    `json:"email"`
	IsConfirmed bool      `json:"is_confirmed"`
	IsOwner     bool      `json:"is_owner"`
}

type participantsResponse struct {
	Participants []participantItem `json:"participants"`
}

type participantDetail struct {
	ID          uuid.UUID `json:"id"`
	Name        *string   `json:"name"`
	Email       string    `json:"email"`
	IsConfirmed bool      `json:"is_confirmed"`
}

type participantResponse struct {
	Participant participantDetail `json:"participant"`
}

// mailNote appends the degraded-delivery suffix to a success message.
func mailNote(base string, sent bool) string {
	if sent {
		return base + "."
	}
	return base + ", but mail not sending."
}

// CreateInvite handles POST /trips/{tripId}/invites.
func (s *Server) CreateInvite(w http.ResponseWriter, r *http.Request) error {
	var (
		params tripParams
		body   inviteBody
	)
	if err := s.validator.Request(r, validate.Shape{Params: &params, Body: &body}); err != nil {
		return err
	}

	inv, err := s.participants.Invite(r.Context(), params.TripID, body.Email)
	if err != nil {
		return err
	}

	msg := "Invite sent."
	if !inv.MailSent {
		msg = mailNote("Invite created", false)
	}
	writeJSON(w, http.StatusCreated, inviteResponse{ParticipantID: inv.Participant.ID, Message: msg})
	return nil
}

// ListParticipants handles GET /trips/{tripId}/participants.
func (s *Server) ListParticipants(w http.ResponseWriter, r *http.Request) error {
	var (
		params tripParams
		query  participantsQuery
	)
	if err := s.validator.Request(r, validate.Shape{Params: &params, Query: &query}); err != nil {
		return err
	}

	var confirmed *bool
	if query.Confirmed != nil {
		v := *query.Confirmed == "true"
		confirmed = &v
	}

	ps, err := s.participants.List(r.Context(), params.TripID, confirmed)
	if err != nil {
		return err
	}

	items := make([]participantItem, len(ps))
	for i, p := range ps {
		items[i] = participantItem{ID: p.ID, Name: p.Name, Email: p.Email, IsConfirmed: p.IsConfirmed, IsOwner: p.IsOwner}
	}
	writeJSON(w, http.StatusOK, participantsResponse{Participants: items})
	return nil
}

// GetParticipant handles GET /participants/{participantId}.
func (s *Server) GetParticipant(w http.ResponseWriter, r *http.Request) error {
	var params participantParams
	if err := s.validator.Request(r, validate.Shape{Params: &params}); err != nil {
		return err
	}

	p, err := s.participants.Get(r.Context(), params.ParticipantID)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, participantResponse{Participant: participantDetail{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		IsConfirmed: p.IsConfirmed,
	}})
	return nil
}

// ConfirmParticipant handles GET /participants/{participantId}/confirm, the
// link mailed with each invite. Repeating it redirects the same way.
func (s *Server) ConfirmParticipant(w http.ResponseWriter, r *http.Request) error {
	var params participantParams
	if err := s.validator.Request(r, validate.Shape{Params: &params}); err != nil {
		return err
	}

	p, err := s.participants.Confirm(r.Context(), params.ParticipantID)
	if err != nil {
		return err
	}

	redirect(w, r, s.tripPage(p.TripID))
	return nil
}

// CancelParticipant handles DELETE /participants/{participantId}/cancel.
// The owner is redirected to the trip page instead of being removed.
func (s *Server) CancelParticipant(w http.ResponseWriter, r *http.Request) error {
	var params participantParams
	if err := s.validator.Request(r, validate.Shape{Params: &params}); err != nil {
		return err
	}

	res, err := s.participants.Cancel(r.Context(), params.ParticipantID)
	if err != nil {
		return err
	}
	if res.OwnerRedirect {
		redirect(w, r, s.tripPage(res.Participant.TripID))
		return nil
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: mailNote("Invite canceled", res.MailSent)})
	return nil
}

// RejectParticipant handles DELETE /participants/{participantId}/reject.
func (s *Server) RejectParticipant(w http.ResponseWriter, r *http.Request) error {
	var params participantParams
	if err := s.validator.Request(r, validate.Shape{Params: &params}); err != nil {
		return err
	}

	res, err := s.participants.Reject(r.Context(), params.ParticipantID)
	if err != nil {
		return err
	}
	if res.OwnerRedirect {
		redirect(w, r, s.tripPage(res.Participant.TripID))
		return nil
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Invite rejected."})
	return nil
}
