package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// LinkRepo defines the persistence operations for Links.
type LinkRepo interface {
	Create(ctx context.Context, l domain.Link) (domain.Link, error)

	// GetByID returns domain.ErrNotFound if no link with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Link, error)

	// ListByTripID returns one page of the trip's links, oldest first, and
	// the total number of links on the trip.
	ListByTripID(ctx context.Context, tripID uuid.UUID, page domain.PaginationParams) ([]domain.Link, int64, error)

	Update(ctx context.Context, id uuid.UUID, patch domain.LinkPatch) (domain.Link, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type pgLinkRepo struct {
	db db
}

// NewLinkRepo constructs a LinkRepo backed by the provided db connection.
func NewLinkRepo(db db) LinkRepo {
	return &pgLinkRepo{db: db}
}

const linkColumns = `id, trip_id, title, url, created_at`

func (r *pgLinkRepo) Create(ctx context.Context, l domain.Link) (domain.Link, error) {
	const q = `
		INSERT INTO links (trip_id, title, url)
		VALUES (@trip_id, @title, @url)
		RETURNING ` + linkColumns

	result, err := scanLink(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id": l.TripID,
		"title":   l.Title,
		"url":     l.URL,
	}))
	if err != nil {
		return domain.Link{}, fmt.Errorf("repo.LinkRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgLinkRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Link, error) {
	const q = `SELECT ` + linkColumns + ` FROM links WHERE id = @id`

	result, err := scanLink(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Link{}, fmt.Errorf("repo.LinkRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgLinkRepo) ListByTripID(ctx context.Context, tripID uuid.UUID, page domain.PaginationParams) ([]domain.Link, int64, error) {
	// COUNT(*) OVER () carries the unpaged total on every row so one round
	// trip returns both. An out-of-range page has no rows, hence the fallback.
	const q = `
		SELECT ` + linkColumns + `, COUNT(*) OVER ()
		FROM links
		WHERE trip_id = @trip_id
		ORDER BY created_at, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"trip_id": tripID,
		"limit":   page.Limit,
		"offset":  page.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.LinkRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var total int64
	links := []domain.Link{}
	for rows.Next() {
		var l domain.Link
		if err := rows.Scan(&l.ID, &l.TripID, &l.Title, &l.URL, &l.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.LinkRepo.ListByTripID: scan: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.LinkRepo.ListByTripID: rows: %w", err)
	}

	if len(links) == 0 && page.Offset() > 0 {
		const countQ = `SELECT COUNT(*) FROM links WHERE trip_id = @trip_id`
		if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"trip_id": tripID}).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("repo.LinkRepo.ListByTripID: count: %w", err)
		}
	}
	return links, total, nil
}

func (r *pgLinkRepo) Update(ctx context.Context, id uuid.UUID, patch domain.LinkPatch) (domain.Link, error) {
	const q = `
		UPDATE links
		SET title = COALESCE(@title::text, title),
		    url   = COALESCE(@url::text, url)
		WHERE id = @id
		RETURNING ` + linkColumns

	result, err := scanLink(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":    id,
		"title": patch.Title,
		"url":   patch.URL,
	}))
	if err != nil {
		return domain.Link{}, fmt.Errorf("repo.LinkRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgLinkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM links WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.LinkRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LinkRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanLink(s scanner) (domain.Link, error) {
	var l domain.Link
	if err := s.Scan(&l.ID, &l.TripID, &l.Title, &l.URL, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Link{}, domain.ErrNotFound
		}
		return domain.Link{}, err
	}
	return l, nil
}
