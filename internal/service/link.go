package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// LinkInput carries the editable fields of a link.
type LinkInput struct {
	Title string
	URL   string
}

// LinkService implements business logic for Link operations.
type LinkService struct {
	trips repo.TripRepo
	links repo.LinkRepo
}

func NewLinkService(trips repo.TripRepo, links repo.LinkRepo) *LinkService {
	return &LinkService{trips: trips, links: links}
}

func (s *LinkService) Create(ctx context.Context, tripID uuid.UUID, in LinkInput) (domain.Link, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Link{}, lookupErr("service.LinkService.Create", "Trip", err)
	}

	l, err := s.links.Create(ctx, domain.Link{TripID: trip.ID, Title: in.Title, URL: in.URL})
	if err != nil {
		return domain.Link{}, lookupErr("service.LinkService.Create", "Trip", err)
	}
	return l, nil
}

// Update rewrites a link of the trip; links of other trips are "not found".
func (s *LinkService) Update(ctx context.Context, tripID, linkID uuid.UUID, in LinkInput) (domain.Link, error) {
	trip, err := s.trips.GetByID(ctx, tripID, domain.WithLinks)
	if err != nil {
		return domain.Link{}, lookupErr("service.LinkService.Update", "Trip", err)
	}
	if !trip.HasLink(linkID) {
		return domain.Link{}, domain.NotFoundError("Link")
	}

	l, err := s.links.Update(ctx, linkID, domain.LinkPatch{Title: &in.Title, URL: &in.URL})
	if err != nil {
		return domain.Link{}, lookupErr("service.LinkService.Update", "Link", err)
	}
	return l, nil
}

// Delete removes a link of the trip; links of other trips are "not found".
func (s *LinkService) Delete(ctx context.Context, tripID, linkID uuid.UUID) error {
	trip, err := s.trips.GetByID(ctx, tripID, domain.WithLinks)
	if err != nil {
		return lookupErr("service.LinkService.Delete", "Trip", err)
	}
	if !trip.HasLink(linkID) {
		return domain.NotFoundError("Link")
	}

	if err := s.links.Delete(ctx, linkID); err != nil {
		return lookupErr("service.LinkService.Delete", "Link", err)
	}
	return nil
}

// List returns one page of the trip's links and where that page sits.
func (s *LinkService) List(ctx context.Context, tripID uuid.UUID, page domain.PaginationParams) ([]domain.Link, domain.Pagination, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, domain.Pagination{}, lookupErr("service.LinkService.List", "Trip", err)
	}

	links, total, err := s.links.ListByTripID(ctx, tripID, page)
	if err != nil {
		return nil, domain.Pagination{}, lookupErr("service.LinkService.List", "Trip", err)
	}
	return links, page.Of(total), nil
}
