package service_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// memStore is an in-memory stand-in for Postgres used by scenario tests that
// span several services. It honours the repo contracts: ErrNotFound for
// absent rows, partial updates, and trip deletion cascading to children.
type memStore struct {
	mu           sync.Mutex
	trips        map[uuid.UUID]domain.Trip
	participants map[uuid.UUID]domain.Participant
	activities   map[uuid.UUID]domain.Activity
	links        map[uuid.UUID]domain.Link
	seq          time.Time
}

func newMemStore() *memStore {
	return &memStore{
		trips:        map[uuid.UUID]domain.Trip{},
		participants: map[uuid.UUID]domain.Participant{},
		activities:   map[uuid.UUID]domain.Activity{},
		links:        map[uuid.UUID]domain.Link{},
		seq:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick hands out strictly increasing created_at values.
func (s *memStore) tick() time.Time {
	s.seq = s.seq.Add(time.Second)
	return s.seq
}

func (s *memStore) Trips() repo.TripRepo               { return memTrips{s} }
func (s *memStore) Participants() repo.ParticipantRepo { return memParticipants{s} }
func (s *memStore) Activities() repo.ActivityRepo      { return memActivities{s} }
func (s *memStore) Links() repo.LinkRepo               { return memLinks{s} }

type memTrips struct{ s *memStore }

func (r memTrips) Create(_ context.Context, trip domain.Trip, ps []domain.Participant) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	trip.ID = uuid.New()
	trip.CreatedAt = r.s.tick()
	r.s.trips[trip.ID] = trip
	trip.Participants = nil
	for _, p := range ps {
		p.ID = uuid.New()
		p.TripID = trip.ID
		p.CreatedAt = r.s.tick()
		r.s.participants[p.ID] = p
		trip.Participants = append(trip.Participants, p)
	}
	return trip, nil
}

func (r memTrips) GetByID(_ context.Context, id uuid.UUID, include ...domain.Relation) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	if domain.Includes(include, domain.WithParticipants) {
		t.Participants = r.s.participantsOf(id, nil)
	}
	if domain.Includes(include, domain.WithActivities) {
		t.Activities = []domain.Activity{}
		for _, a := range r.s.activities {
			if a.TripID == id {
				t.Activities = append(t.Activities, a)
			}
		}
		slices.SortFunc(t.Activities, func(a, b domain.Activity) int { return a.OccursAt.Compare(b.OccursAt) })
	}
	if domain.Includes(include, domain.WithLinks) {
		t.Links = r.s.linksOf(id)
	}
	return t, nil
}

func (r memTrips) Update(_ context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	if patch.Destination != nil {
		t.Destination = *patch.Destination
	}
	if patch.StartsAt != nil {
		t.StartsAt = *patch.StartsAt
	}
	if patch.EndsAt != nil {
		t.EndsAt = *patch.EndsAt
	}
	if patch.IsConfirmed != nil {
		t.IsConfirmed = *patch.IsConfirmed
	}
	r.s.trips[id] = t
	return t, nil
}

func (r memTrips) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trips[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.trips, id)
	for k, p := range r.s.participants {
		if p.TripID == id {
			delete(r.s.participants, k)
		}
	}
	for k, a := range r.s.activities {
		if a.TripID == id {
			delete(r.s.activities, k)
		}
	}
	for k, l := range r.s.links {
		if l.TripID == id {
			delete(r.s.links, k)
		}
	}
	return nil
}

// participantsOf must be called with mu held.
func (s *memStore) participantsOf(tripID uuid.UUID, confirmed *bool) []domain.Participant {
	out := []domain.Participant{}
	for _, p := range s.participants {
		if p.TripID == tripID && (confirmed == nil || p.IsConfirmed == *confirmed) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.Participant) int {
		if a.IsOwner != b.IsOwner {
			if a.IsOwner {
				return -1
			}
			return 1
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

// linksOf must be called with mu held.
func (s *memStore) linksOf(tripID uuid.UUID) []domain.Link {
	out := []domain.Link{}
	for _, l := range s.links {
		if l.TripID == tripID {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b domain.Link) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

type memParticipants struct{ s *memStore }

func (r memParticipants) Create(_ context.Context, p domain.Participant) (domain.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trips[p.TripID]; !ok {
		return domain.Participant{}, domain.ErrNotFound
	}
	p.ID = uuid.New()
	p.CreatedAt = r.s.tick()
	r.s.participants[p.ID] = p
	return p, nil
}

func (r memParticipants) GetByID(_ context.Context, id uuid.UUID, include ...domain.Relation) (domain.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[id]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound
	}
	if domain.Includes(include, domain.WithTrip) {
		t := r.s.trips[p.TripID]
		p.Trip = &t
	}
	return p, nil
}

func (r memParticipants) ListByTripID(_ context.Context, tripID uuid.UUID, confirmed *bool) ([]domain.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.participantsOf(tripID, confirmed), nil
}

func (r memParticipants) Update(_ context.Context, id uuid.UUID, patch domain.ParticipantPatch) (domain.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[id]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = patch.Name
	}
	if patch.IsConfirmed != nil {
		p.IsConfirmed = *patch.IsConfirmed
	}
	r.s.participants[id] = p
	return p, nil
}

func (r memParticipants) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.participants[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.participants, id)
	return nil
}

type memActivities struct{ s *memStore }

func (r memActivities) Create(_ context.Context, a domain.Activity) (domain.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = r.s.tick()
	r.s.activities[a.ID] = a
	return a, nil
}

func (r memActivities) GetByID(_ context.Context, id uuid.UUID) (domain.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.activities[id]
	if !ok {
		return domain.Activity{}, domain.ErrNotFound
	}
	return a, nil
}

func (r memActivities) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	t, err := memTrips(r).GetByID(ctx, tripID, domain.WithActivities)
	if err != nil {
		return []domain.Activity{}, nil
	}
	return t.Activities, nil
}

func (r memActivities) Update(_ context.Context, id uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.activities[id]
	if !ok {
		return domain.Activity{}, domain.ErrNotFound
	}
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.OccursAt != nil {
		a.OccursAt = *patch.OccursAt
	}
	r.s.activities[id] = a
	return a, nil
}

func (r memActivities) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.activities[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.activities, id)
	return nil
}

type memLinks struct{ s *memStore }

func (r memLinks) Create(_ context.Context, l domain.Link) (domain.Link, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = uuid.New()
	l.CreatedAt = r.s.tick()
	r.s.links[l.ID] = l
	return l, nil
}

func (r memLinks) GetByID(_ context.Context, id uuid.UUID) (domain.Link, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.links[id]
	if !ok {
		return domain.Link{}, domain.ErrNotFound
	}
	return l, nil
}

func (r memLinks) ListByTripID(_ context.Context, tripID uuid.UUID, page domain.PaginationParams) ([]domain.Link, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.s.linksOf(tripID)
	start := min(page.Offset(), len(all))
	end := min(start+page.Limit, len(all))
	return all[start:end], int64(len(all)), nil
}

func (r memLinks) Update(_ context.Context, id uuid.UUID, patch domain.LinkPatch) (domain.Link, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.links[id]
	if !ok {
		return domain.Link{}, domain.ErrNotFound
	}
	if patch.Title != nil {
		l.Title = *patch.Title
	}
	if patch.URL != nil {
		l.URL = *patch.URL
	}
	r.s.links[id] = l
	return l, nil
}

func (r memLinks) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.links[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.links, id)
	return nil
}
