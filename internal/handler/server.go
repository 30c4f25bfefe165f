// Package handler implements the HTTP handlers for the trip planner API.
// Handlers are methods on Server, split into domain-specific files
// (trip.go, activity.go, ...) that share the same dependencies. Every
// handler returns an error; Server.handle routes it to the error responder.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/notify"
	"github.com/pkordes/trip-planner/backend/internal/service"
	"github.com/pkordes/trip-planner/backend/internal/validate"
)

// The Servicer interfaces are defined here, in the consumer package, so
// handler tests can inject mocks without touching the service layer.

// TripServicer defines the trip operations the handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, in service.CreateTripInput) (domain.Trip, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Update(ctx context.Context, id uuid.UUID, in service.UpdateTripInput) (domain.Trip, error)
	Confirm(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Cancel(ctx context.Context, id uuid.UUID) (notify.Report, error)
}

// ActivityServicer defines the activity operations the handlers depend on.
type ActivityServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, in service.ActivityInput) (domain.Activity, error)
	Update(ctx context.Context, tripID, activityID uuid.UUID, in service.ActivityInput) (domain.Activity, error)
	Delete(ctx context.Context, tripID, activityID uuid.UUID) error
	ListByDay(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityDay, error)
}

// LinkServicer defines the link operations the handlers depend on.
type LinkServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, in service.LinkInput) (domain.Link, error)
	Update(ctx context.Context, tripID, linkID uuid.UUID, in service.LinkInput) (domain.Link, error)
	Delete(ctx context.Context, tripID, linkID uuid.UUID) error
	List(ctx context.Context, tripID uuid.UUID, page domain.PaginationParams) ([]domain.Link, domain.Pagination, error)
}

// ParticipantServicer defines the participant operations the handlers depend on.
type ParticipantServicer interface {
	Invite(ctx context.Context, tripID uuid.UUID, email string) (service.Invitation, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	List(ctx context.Context, tripID uuid.UUID, confirmed *bool) ([]domain.Participant, error)
	Confirm(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	Cancel(ctx context.Context, id uuid.UUID) (service.Removal, error)
	Reject(ctx context.Context, id uuid.UUID) (service.Removal, error)
}

// Services bundles the business services the Server dispatches to.
type Services struct {
	Trips        TripServicer
	Activities   ActivityServicer
	Links        LinkServicer
	Participants ParticipantServicer
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips        TripServicer
	activities   ActivityServicer
	links        LinkServicer
	participants ParticipantServicer

	validator  *validate.Validator
	webBaseURL string
	logger     *slog.Logger
}

// NewServer constructs the Server. webBaseURL is where confirmation and
// owner redirects send the browser.
func NewServer(svcs Services, webBaseURL string, logger *slog.Logger) *Server {
	return &Server{
		trips:        svcs.Trips,
		activities:   svcs.Activities,
		links:        svcs.Links,
		participants: svcs.Participants,
		validator:    validate.New(),
		webBaseURL:   webBaseURL,
		logger:       logger,
	}
}

// Routes registers every endpoint on a fresh chi router. Cross-cutting
// middleware is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Post("/trips", s.handle(s.CreateTrip))
	r.Route("/trips/{tripId}", func(r chi.Router) {
		r.Get("/", s.handle(s.GetTrip))
		r.Put("/", s.handle(s.UpdateTrip))
		r.Get("/confirm", s.handle(s.ConfirmTrip))
		r.Delete("/cancel", s.handle(s.CancelTrip))

		r.Post("/activities", s.handle(s.CreateActivity))
		r.Get("/activities", s.handle(s.ListActivities))
		r.Put("/activity/{activityId}", s.handle(s.UpdateActivity))
		r.Delete("/activity/{activityId}", s.handle(s.DeleteActivity))

		r.Post("/links", s.handle(s.CreateLink))
		r.Get("/links", s.handle(s.ListLinks))
		r.Put("/links/{linkId}", s.handle(s.UpdateLink))
		r.Delete("/links/{linkId}", s.handle(s.DeleteLink))

		r.Post("/invites", s.handle(s.CreateInvite))
		r.Get("/participants", s.handle(s.ListParticipants))
	})

	r.Route("/participants/{participantId}", func(r chi.Router) {
		r.Get("/", s.handle(s.GetParticipant))
		r.Get("/confirm", s.handle(s.ConfirmParticipant))
		r.Delete("/cancel", s.handle(s.CancelParticipant))
		r.Delete("/reject", s.handle(s.RejectParticipant))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Route not found."})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, messageResponse{Message: "Method not allowed."})
	})
	return r
}

// handlerFunc is an http.HandlerFunc that reports failure by returning it.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts h to net/http; a returned error goes to respondError.
func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.respondError(w, r, err)
		}
	}
}

// tripPage is the web app page a redirect lands on.
func (s *Server) tripPage(tripID uuid.UUID) string {
	return s.webBaseURL + "/trips/" + tripID.String()
}
