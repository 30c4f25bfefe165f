package handler

import (
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/validate"
)

// errorResponse is the body of every failed request. Errors is present only
// for input validation failures.
type errorResponse struct {
	Message string                `json:"message"`
	Errors  []validate.FieldError `json:"errors,omitempty"`
}

const internalErrorMessage = "Internal server error."

// respondError is the single place errors become responses:
//
//   - *validate.Error    -> 400 "Invalid input." with the field list
//   - *domain.ClientError -> 400 with its message
//   - anything else       -> logged, 500 with a fixed message
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid input.", Errors: verr.Fields})
		return
	}

	var cerr *domain.ClientError
	if errors.As(err, &cerr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: cerr.Message})
		return
	}

	s.logger.ErrorContext(r.Context(), "unhandled error",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimiddleware.GetReqID(r.Context()),
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Message: internalErrorMessage})
}
