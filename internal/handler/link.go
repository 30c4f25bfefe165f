package handler

import (
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/service"
	"github.com/pkordes/trip-planner/backend/internal/validate"
)

type linkParams struct {
	TripID openapi_types.UUID `param:"tripId"`
	LinkID openapi_types.UUID `param:"linkId"`
}

type linkBody struct {
	Title string `json:"title" validate:"required,min=4"`
	URL   string `json:"url" validate:"required,url"`
}

// pageQuery carries ?page and ?limit; both are optional and coerced from strings.
// The page cap matches domain.MaxPage.
type pageQuery struct {
	Page  *int `query:"page" validate:"omitempty,min=1,max=1000000"`
	Limit *int `query:"limit" validate:"omitempty,min=1"`
}

type linkIDResponse struct {
	LinkID uuid.UUID `json:"linkId"`
}

type linkItem struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	URL    string    `json:"url"`
	TripID uuid.UUID `json:"trip_id"`
}

type paginationMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type linksResponse struct {
	Links      []linkItem     `json:"links"`
	Pagination paginationMeta `json:"pagination"`
}

// CreateLink handles POST /trips/{tripId}/links.
func (s *Server) CreateLink(w http.ResponseWriter, r *http.Request) error {
	var (
		params tripParams
		body   linkBody
	)
	if err := s.validator.Request(r, validate.Shape{Params: &params, Body: &body}); err != nil {
		return err
	}

	l, err := s.links.Create(r.Context(), params.TripID, service.LinkInput{Title: body.Title, URL: body.URL})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, linkIDResponse{LinkID: l.ID})
	return nil
}

// ListLinks handles GET /trips/{tripId}/links.
// Supports ?page= and ?limit= (defaults: page=1, limit=50, max=100).
func (s *Server) ListLinks(w http.ResponseWriter, r *http.Request) error {
	var (
		params tripParams
		query  pageQuery
	)
	if err := s.validator.Request(r, validate.Shape{Params: &params, Query: &query}); err != nil {
		return err
	}

	links, page, err := s.links.List(r.Context(), params.TripID, domain.NewPaginationParams(query.Page, query.Limit))
	if err != nil {
		return err
	}

	items := make([]linkItem, len(links))
	for i, l := range links {
		items[i] = linkItem{ID: l.ID, Title: l.Title, URL: l.URL, TripID: l.TripID}
	}
	writeJSON(w, http.StatusOK, linksResponse{
		Links:      items,
		Pagination: paginationMeta{Page: page.Page, Limit: page.Limit, Total: page.Total},
	})
	return nil
}

// UpdateLink handles PUT /trips/{tripId}/links/{linkId}.
func (s *Server) UpdateLink(w http.ResponseWriter, r *http.Request) error {
	var (
		params linkParams
		body   linkBody
	)
	if err := s.validator.Request(r, validate.Shape{Params: &params, Body: &body}); err != nil {
		return err
	}

	l, err := s.links.Update(r.Context(), params.TripID, params.LinkID, service.LinkInput{Title: body.Title, URL: body.URL})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, linkIDResponse{LinkID: l.ID})
	return nil
}

// DeleteLink handles DELETE /trips/{tripId}/links/{linkId}.
func (s *Server) DeleteLink(w http.ResponseWriter, r *http.Request) error {
	var params linkParams
	if err := s.validator.Request(r, validate.Shape{Params: &params}); err != nil {
		return err
	}

	if err := s.links.Delete(r.Context(), params.TripID, params.LinkID); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Link deleted."})
	return nil
}
