package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/handler"
	"github.com/pkordes/trip-planner/backend/internal/notify"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

// The mocks below are test doubles for the handler.*Servicer interfaces.
// Set only the method fields your test needs.

type mockTripServicer struct {
	create  func(ctx context.Context, in service.CreateTripInput) (domain.Trip, error)
	get     func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	update  func(ctx context.Context, id uuid.UUID, in service.UpdateTripInput) (domain.Trip, error)
	confirm func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	cancel  func(ctx context.Context, id uuid.UUID) (notify.Report, error)
}

func (m *mockTripServicer) Create(ctx context.Context, in service.CreateTripInput) (domain.Trip, error) {
	return m.create(ctx, in)
}
func (m *mockTripServicer) Get(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.get(ctx, id)
}
func (m *mockTripServicer) Update(ctx context.Context, id uuid.UUID, in service.UpdateTripInput) (domain.Trip, error) {
	return m.update(ctx, id, in)
}
func (m *mockTripServicer) Confirm(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.confirm(ctx, id)
}
func (m *mockTripServicer) Cancel(ctx context.Context, id uuid.UUID) (notify.Report, error) {
	return m.cancel(ctx, id)
}

type mockActivityServicer struct {
	create    func(ctx context.Context, tripID uuid.UUID, in service.ActivityInput) (domain.Activity, error)
	update    func(ctx context.Context, tripID, activityID uuid.UUID, in service.ActivityInput) (domain.Activity, error)
	delete    func(ctx context.Context, tripID, activityID uuid.UUID) error
	listByDay func(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityDay, error)
}

func (m *mockActivityServicer) Create(ctx context.Context, tripID uuid.UUID, in service.ActivityInput) (domain.Activity, error) {
	return m.create(ctx, tripID, in)
}
func (m *mockActivityServicer) Update(ctx context.Context, tripID, activityID uuid.UUID, in service.ActivityInput) (domain.Activity, error) {
	return m.update(ctx, tripID, activityID, in)
}
func (m *mockActivityServicer) Delete(ctx context.Context, tripID, activityID uuid.UUID) error {
	return m.delete(ctx, tripID, activityID)
}
func (m *mockActivityServicer) ListByDay(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityDay, error) {
	return m.listByDay(ctx, tripID)
}

type mockLinkServicer struct {
	create func(ctx context.Context, tripID uuid.UUID, in service.LinkInput) (domain.Link, error)
	update func(ctx context.Context, tripID, linkID uuid.UUID, in service.LinkInput) (domain.Link, error)
	delete func(ctx context.Context, tripID, linkID uuid.UUID) error
	list   func(ctx context.Context, tripID uuid.UUID, page domain.PaginationParams) ([]domain.Link, domain.Pagination, error)
}

func (m *mockLinkServicer) Create(ctx context.Context, tripID uuid.UUID, in service.LinkInput) (domain.Link, error) {
	return m.create(ctx, tripID, in)
}
func (m *mockLinkServicer) Update(ctx context.Context, tripID, linkID uuid.UUID, in service.LinkInput) (domain.Link, error) {
	return m.update(ctx, tripID, linkID, in)
}
func (m *mockLinkServicer) Delete(ctx context.Context, tripID, linkID uuid.UUID) error {
	return m.delete(ctx, tripID, linkID)
}
func (m *mockLinkServicer) List(ctx context.Context, tripID uuid.UUID, page domain.PaginationParams) ([]domain.Link, domain.Pagination, error) {
	return m.list(ctx, tripID, page)
}

type mockParticipantServicer struct {
	invite  func(ctx context.Context, tripID uuid.UUID, email string) (service.Invitation, error)
	get     func(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	list    func(ctx context.Context, tripID uuid.UUID, confirmed *bool) ([]domain.Participant, error)
	confirm func(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	cancel  func(ctx context.Context, id uuid.UUID) (service.Removal, error)
	reject  func(ctx context.Context, id uuid.UUID) (service.Removal, error)
}

func (m *mockParticipantServicer) Invite(ctx context.Context, tripID uuid.UUID, email string) (service.Invitation, error) {
	return m.invite(ctx, tripID, email)
}
func (m *mockParticipantServicer) Get(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return m.get(ctx, id)
}
func (m *mockParticipantServicer) List(ctx context.Context, tripID uuid.UUID, confirmed *bool) ([]domain.Participant, error) {
	return m.list(ctx, tripID, confirmed)
}
func (m *mockParticipantServicer) Confirm(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return m.confirm(ctx, id)
}
func (m *mockParticipantServicer) Cancel(ctx context.Context, id uuid.UUID) (service.Removal, error) {
	return m.cancel(ctx, id)
}
func (m *mockParticipantServicer) Reject(ctx context.Context, id uuid.UUID) (service.Removal, error) {
	return m.reject(ctx, id)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer        = (*mockTripServicer)(nil)
	_ handler.ActivityServicer    = (*mockActivityServicer)(nil)
	_ handler.LinkServicer        = (*mockLinkServicer)(nil)
	_ handler.ParticipantServicer = (*mockParticipantServicer)(nil)
)

const webBase = "https://web.example.com"

// newHTTPHandler wires a Server with the given services into its router,
// the same way main.go mounts it in production.
func newHTTPHandler(svcs handler.Services) http.Handler {
	return handler.NewServer(svcs, webBase, slog.New(slog.NewTextHandler(io.Discard, nil))).Routes()
}
