package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/notify"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones your test needs. An unset field panics, which flags an unexpected call.

type mockTripRepo struct {
	create  func(ctx context.Context, trip domain.Trip, ps []domain.Participant) (domain.Trip, error)
	getByID func(ctx context.Context, id uuid.UUID, include ...domain.Relation) (domain.Trip, error)
	update  func(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip, ps []domain.Participant) (domain.Trip, error) {
	return m.create(ctx, trip, ps)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID, include ...domain.Relation) (domain.Trip, error) {
	return m.getByID(ctx, id, include...)
}
func (m *mockTripRepo) Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	return m.update(ctx, id, patch)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockActivityRepo struct {
	create       func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
	update       func(ctx context.Context, id uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return m.getByID(ctx, id)
}
func (m *mockActivityRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockActivityRepo) Update(ctx context.Context, id uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error) {
	return m.update(ctx, id, patch)
}
func (m *mockActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockLinkRepo struct {
	create       func(ctx context.Context, l domain.Link) (domain.Link, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Link, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID, page domain.PaginationParams) ([]domain.Link, int64, error)
	update       func(ctx context.Context, id uuid.UUID, patch domain.LinkPatch) (domain.Link, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockLinkRepo) Create(ctx context.Context, l domain.Link) (domain.Link, error) {
	return m.create(ctx, l)
}
func (m *mockLinkRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Link, error) {
	return m.getByID(ctx, id)
}
func (m *mockLinkRepo) ListByTripID(ctx context.Context, tripID uuid.UUID, page domain.PaginationParams) ([]domain.Link, int64, error) {
	return m.listByTripID(ctx, tripID, page)
}
func (m *mockLinkRepo) Update(ctx context.Context, id uuid.UUID, patch domain.LinkPatch) (domain.Link, error) {
	return m.update(ctx, id, patch)
}
func (m *mockLinkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockParticipantRepo struct {
	create       func(ctx context.Context, p domain.Participant) (domain.Participant, error)
	getByID      func(ctx context.Context, id uuid.UUID, include ...domain.Relation) (domain.Participant, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID, confirmed *bool) ([]domain.Participant, error)
	update       func(ctx context.Context, id uuid.UUID, patch domain.ParticipantPatch) (domain.Participant, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockParticipantRepo) Create(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	return m.create(ctx, p)
}
func (m *mockParticipantRepo) GetByID(ctx context.Context, id uuid.UUID, include ...domain.Relation) (domain.Participant, error) {
	return m.getByID(ctx, id, include...)
}
func (m *mockParticipantRepo) ListByTripID(ctx context.Context, tripID uuid.UUID, confirmed *bool) ([]domain.Participant, error) {
	return m.listByTripID(ctx, tripID, confirmed)
}
func (m *mockParticipantRepo) Update(ctx context.Context, id uuid.UUID, patch domain.ParticipantPatch) (domain.Participant, error) {
	return m.update(ctx, id, patch)
}
func (m *mockParticipantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time checks: the doubles must satisfy the repo interfaces.
var (
	_ repo.TripRepo        = (*mockTripRepo)(nil)
	_ repo.ActivityRepo    = (*mockActivityRepo)(nil)
	_ repo.LinkRepo        = (*mockLinkRepo)(nil)
	_ repo.ParticipantRepo = (*mockParticipantRepo)(nil)
)

// sentMail is one Send or Broadcast delivery seen by fakeNotifier.
type sentMail struct {
	Template notify.Template
	To       string
	Subs     notify.Substitutions
}

// fakeNotifier records deliveries. sendErr, when set, fails every delivery.
type fakeNotifier struct {
	mu      sync.Mutex
	sent    []sentMail
	sendErr error
}

func (f *fakeNotifier) Send(_ context.Context, tmpl notify.Template, to string, subs notify.Substitutions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{Template: tmpl, To: to, Subs: subs})
	return nil
}

func (f *fakeNotifier) Broadcast(ctx context.Context, tmpl notify.Template, deliveries []notify.Delivery) notify.Report {
	var report notify.Report
	for _, d := range deliveries {
		if err := f.Send(ctx, tmpl, d.To, d.Subs); err != nil {
			report.Failed++
			continue
		}
		report.Sent++
	}
	return report
}

var _ service.Notifier = (*fakeNotifier)(nil)
