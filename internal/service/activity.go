package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// ActivityInput carries the editable fields of an activity.
type ActivityInput struct {
	Title    string
	OccursAt time.Time
}

// ActivityService implements business logic for Activity operations.
// Activities are always addressed through their trip.
type ActivityService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
}

func NewActivityService(trips repo.TripRepo, activities repo.ActivityRepo) *ActivityService {
	return &ActivityService{trips: trips, activities: activities}
}

var errInvalidActivityDate = domain.NewClientError("Invalid activity date.")

// Create adds an activity whose time falls inside the trip window (bounds included).
func (s *ActivityService) Create(ctx context.Context, tripID uuid.UUID, in ActivityInput) (domain.Activity, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Activity{}, lookupErr("service.ActivityService.Create", "Trip", err)
	}

	if !trip.Covers(in.OccursAt) {
		return domain.Activity{}, errInvalidActivityDate
	}

	a, err := s.activities.Create(ctx, domain.Activity{TripID: trip.ID, Title: in.Title, OccursAt: in.OccursAt})
	if err != nil {
		return domain.Activity{}, lookupErr("service.ActivityService.Create", "Trip", err)
	}
	return a, nil
}

// Update rewrites an activity of the trip. The new time must stay inside the window.
func (s *ActivityService) Update(ctx context.Context, tripID, activityID uuid.UUID, in ActivityInput) (domain.Activity, error) {
	trip, err := s.trips.GetByID(ctx, tripID, domain.WithActivities)
	if err != nil {
		return domain.Activity{}, lookupErr("service.ActivityService.Update", "Trip", err)
	}
	if !trip.HasActivity(activityID) {
		return domain.Activity{}, domain.NotFoundError("Activity")
	}

	if !trip.Covers(in.OccursAt) {
		return domain.Activity{}, errInvalidActivityDate
	}

	a, err := s.activities.Update(ctx, activityID, domain.ActivityPatch{Title: &in.Title, OccursAt: &in.OccursAt})
	if err != nil {
		return domain.Activity{}, lookupErr("service.ActivityService.Update", "Activity", err)
	}
	return a, nil
}

// Delete removes an activity. An id that belongs to another trip is reported
// exactly like a missing one.
func (s *ActivityService) Delete(ctx context.Context, tripID, activityID uuid.UUID) error {
	trip, err := s.trips.GetByID(ctx, tripID, domain.WithActivities)
	if err != nil {
		return lookupErr("service.ActivityService.Delete", "Trip", err)
	}
	if !trip.HasActivity(activityID) {
		return domain.NotFoundError("Activity")
	}

	if err := s.activities.Delete(ctx, activityID); err != nil {
		return lookupErr("service.ActivityService.Delete", "Activity", err)
	}
	return nil
}

// ListByDay returns one entry per calendar day (UTC) of the trip, each with
// that day's activities in time order. Days without activities are included.
func (s *ActivityService) ListByDay(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityDay, error) {
	trip, err := s.trips.GetByID(ctx, tripID, domain.WithActivities)
	if err != nil {
		return nil, lookupErr("service.ActivityService.ListByDay", "Trip", err)
	}
	return groupByDay(trip), nil
}

func groupByDay(trip domain.Trip) []domain.ActivityDay {
	first := startOfDay(trip.StartsAt)
	last := startOfDay(trip.EndsAt)

	var days []domain.ActivityDay
	index := make(map[time.Time]int)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		index[d] = len(days)
		days = append(days, domain.ActivityDay{Date: d, Activities: []domain.Activity{}})
	}

	for _, a := range trip.Activities {
		if i, ok := index[startOfDay(a.OccursAt)]; ok {
			days[i].Activities = append(days[i].Activities, a)
		}
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
