package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/backend/internal/service"
	"github.com/pkordes/trip-planner/backend/internal/validate"
)

type activityParams struct {
	TripID     openapi_types.UUID `param:"tripId"`
	ActivityID openapi_types.UUID `param:"activityId"`
}

type activityBody struct {
	Title    string        `json:"title" validate:"required,min=4"`
	OccursAt validate.Date `json:"occurs_at" validate:"required"`
}

type activityIDResponse struct {
	ActivityID uuid.UUID `json:"activityId"`
}

type activityItem struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	OccursAt time.Time `json:"occurs_at"`
}

type activityDay struct {
	Date       time.Time      `json:"date"`
	Activities []activityItem `json:"activities"`
}

type activitiesResponse struct {
	Activities []activityDay `json:"activities"`
}

// CreateActivity handles POST /trips/{tripId}/activities.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) error {
	var (
		params tripParams
		body   activityBody
	)
	if err := s.validator.Request(r, validate.Shape{Params: &params, Body: &body}); err != nil {
		return err
	}

	a, err := s.activities.Create(r.Context(), params.TripID, service.ActivityInput{
		Title:    body.Title,
		OccursAt: body.OccursAt.Time,
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, activityIDResponse{ActivityID: a.ID})
	return nil
}

// ListActivities handles GET /trips/{tripId}/activities, grouped by day.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) error {
	var params tripParams
	if err := s.validator.Request(r, validate.Shape{Params: &params}); err != nil {
		return err
	}

	days, err := s.activities.ListByDay(r.Context(), params.TripID)
	if err != nil {
		return err
	}

	out := make([]activityDay, len(days))
	for i, d := range days {
		items := make([]activityItem, len(d.Activities))
		for j, a := range d.Activities {
			items[j] = activityItem{ID: a.ID, Title: a.Title, OccursAt: a.OccursAt}
		}
		out[i] = activityDay{Date: d.Date, Activities: items}
	}
	writeJSON(w, http.StatusOK, activitiesResponse{Activities: out})
	return nil
}

// UpdateActivity handles PUT /trips/{tripId}/activity/{activityId}.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) error {
	var (
		params activityParams
		body   activityBody
	)
	if err := s.validator.Request(r, validate.Shape{Params: &params, Body: &body}); err != nil {
		return err
	}

	a, err := s.activities.Update(r.Context(), params.TripID, params.ActivityID, service.ActivityInput{
		Title:    body.Title,
		OccursAt: body.OccursAt.Time,
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, activityIDResponse{ActivityID: a.ID})
	return nil
}

// DeleteActivity handles DELETE /trips/{tripId}/activity/{activityId}.
func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) error {
	var params activityParams
	if err := s.validator.Request(r, validate.Shape{Params: &params}); err != nil {
		return err
	}

	if err := s.activities.Delete(r.Context(), params.TripID, params.ActivityID); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Activity deleted."})
	return nil
}
