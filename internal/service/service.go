// Package service contains the business logic for the trip planner API.
// Every mutating operation runs the same steps: existence check, membership
// check, business rule, one repo mutation, then optional notification.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/notify"
)

// Notifier is the subset of *notify.Notifier the services use.
type Notifier interface {
	Send(ctx context.Context, tmpl notify.Template, to string, subs notify.Substitutions) error
	Broadcast(ctx context.Context, tmpl notify.Template, deliveries []notify.Delivery) notify.Report
}

// Option customizes a service.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, e.g. to pin "today" in tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Confirmation links point at this API, which redirects to the web app.
func tripConfirmLink(apiBaseURL string, id uuid.UUID) string {
	return apiBaseURL + "/trips/" + id.String() + "/confirm"
}

func participantConfirmLink(apiBaseURL string, id uuid.UUID) string {
	return apiBaseURL + "/participants/" + id.String() + "/confirm"
}

func tripSubs(t domain.Trip, link string) notify.Substitutions {
	return notify.Substitutions{
		Destination:      t.Destination,
		StartsAt:         t.StartsAt,
		EndsAt:           t.EndsAt,
		ConfirmationLink: link,
	}
}

// lookupErr turns repo absence into the client-facing NotFoundError for
// entity and wraps anything else with op.
func lookupErr(op, entity string, err error) error {
	if domain.IsNotFound(err) {
		return domain.NotFoundError(entity)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// checkTripWindow applies the trip date rules: the start may not be in the
// past and the end may not precede the start.
func checkTripWindow(now time.Time, startsAt, endsAt time.Time) error {
	if startsAt.Before(now) {
		return domain.NewClientError("Invalid trip start date.")
	}
	if !endsAt.After(startsAt) {
		return domain.NewClientError("Invalid trip end date.")
	}
	return nil
}
