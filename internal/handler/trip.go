package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/backend/internal/service"
	"github.com/pkordes/trip-planner/backend/internal/validate"
)

type tripParams struct {
	TripID openapi_types.UUID `param:"tripId"`
}

type createTripBody struct {
	Destination    string        `json:"destination" validate:"required,min=4"`
	StartsAt       validate.Date `json:"starts_at" validate:"required"`
	EndsAt         validate.Date `json:"ends_at" validate:"required"`
	EmailsToInvite []string      `json:"emails_to_invite" validate:"dive,email"`
	OwnerName      string        `json:"owner_name" validate:"required"`
	OwnerEmail     string        `json:"owner_email" validate:"required,email"`
}

type updateTripBody struct {
	Destination string        `json:"destination" validate:"required,min=4"`
	StartsAt    validate.Date `json:"starts_at" validate:"required"`
	EndsAt      validate.Date `json:"ends_at" validate:"required"`
}

type tripIDResponse struct {
	TripID uuid.UUID `json:"tripId"`
}

type tripDetail struct {
	ID          uuid.UUID  `json:"id"`
	Destination string     `json:"destination"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      time.Time  `json:"ends_at"`
	IsConfirmed bool       `json:"is_confirmed"`
	OwnerID     *uuid.UUID `json:"owner_id"`
}

type tripResponse struct {
	Trip tripDetail `json:"trip"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) error {
	var body createTripBody
	if err := s.validator.Request(r, validate.Shape{Body: &body}); err != nil {
		return err
	}

	trip, err := s.trips.Create(r.Context(), service.CreateTripInput{
		Destination:    body.Destination,
		StartsAt:       body.StartsAt.Time,
		EndsAt:         body.EndsAt.Time,
		OwnerName:      body.OwnerName,
		OwnerEmail:     body.OwnerEmail,
		EmailsToInvite: body.EmailsToInvite,
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, tripIDResponse{TripID: trip.ID})
	return nil
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) error {
	var params tripParams
	if err := s.validator.Request(r, validate.Shape{Params: &params}); err != nil {
		return err
	}

	trip, err := s.trips.Get(r.Context(), params.TripID)
	if err != nil {
		return err
	}

	detail := tripDetail{
		ID:          trip.ID,
		Destination: trip.Destination,
		StartsAt:    trip.StartsAt,
		EndsAt:      trip.EndsAt,
		IsConfirmed: trip.IsConfirmed,
	}
	if owner, ok := trip.Owner(); ok {
		detail.OwnerID = &owner.ID
	}
	writeJSON(w, http.StatusOK, tripResponse{Trip: detail})
	return nil
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) error {
	var (
		params tripParams
		body   updateTripBody
	)
	if err := s.validator.Request(r, validate.Shape{Params: &params, Body: &body}); err != nil {
		return err
	}

	trip, err := s.trips.Update(r.Context(), params.TripID, service.UpdateTripInput{
		Destination: body.Destination,
		StartsAt:    body.StartsAt.Time,
		EndsAt:      body.EndsAt.Time,
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, tripIDResponse{TripID: trip.ID})
	return nil
}

// ConfirmTrip handles GET /trips/{tripId}/confirm, the link mailed to the
// owner. It always ends on the trip page, confirmed before or not.
func (s *Server) ConfirmTrip(w http.ResponseWriter, r *http.Request) error {
	var params tripParams
	if err := s.validator.Request(r, validate.Shape{Params: &params}); err != nil {
		return err
	}

	trip, err := s.trips.Confirm(r.Context(), params.TripID)
	if err != nil {
		return err
	}

	redirect(w, r, s.tripPage(trip.ID))
	return nil
}

// CancelTrip handles DELETE /trips/{tripId}/cancel.
func (s *Server) CancelTrip(w http.ResponseWriter, r *http.Request) error {
	var params tripParams
	if err := s.validator.Request(r, validate.Shape{Params: &params}); err != nil {
		return err
	}

	if _, err := s.trips.Cancel(r.Context(), params.TripID); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Trip canceled."})
	return nil
}
