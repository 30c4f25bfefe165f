// Package repo contains all database access logic for the trip planner.
// Each entity has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
// Begin on a pgx.Tx opens a savepoint, so multi-statement writes nest cleanly.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// TripRepo defines the persistence operations for Trips.
type TripRepo interface {
	// Create inserts the trip and its participants (owner and invitees) in one
	// transaction and returns the trip with Participants populated.
	Create(ctx context.Context, trip domain.Trip, participants []domain.Participant) (domain.Trip, error)

	// GetByID retrieves a trip by primary key, loading the named relations in
	// the same statement so the trip and its children come from one snapshot.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID, include ...domain.Relation) (domain.Trip, error)

	// Update changes the non-nil fields of patch and returns the updated trip.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)

	// Delete removes a trip; participants, activities and links go with it.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, destination, starts_at, ends_at, is_confirmed, created_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip, participants []domain.Participant) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (destination, starts_at, ends_at)
		VALUES (@destination, @starts_at, @ends_at)
		RETURNING ` + tripColumns

	var created domain.Trip
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		created, err = scanTrip(tx.QueryRow(ctx, q, pgx.NamedArgs{
			"destination": trip.Destination,
			"starts_at":   trip.StartsAt,
			"ends_at":     trip.EndsAt,
		}))
		if err != nil {
			return err
		}

		created.Participants = make([]domain.Participant, 0, len(participants))
		for _, p := range participants {
			p.TripID = created.ID
			saved, err := insertParticipant(ctx, tx, p)
			if err != nil {
				return err
			}
			created.Participants = append(created.Participants, saved)
		}
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return created, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID, include ...domain.Relation) (domain.Trip, error) {
	const q = `
		SELECT t.id, t.destination, t.starts_at, t.ends_at, t.is_confirmed, t.created_at,
		       CASE WHEN @participants::boolean THEN (
		           SELECT COALESCE(json_agg(p ORDER BY p.is_owner DESC, p.created_at, p.id), '[]'::json)
		           FROM participants p WHERE p.trip_id = t.id
		       ) END,
		       CASE WHEN @activities::boolean THEN (
		           SELECT COALESCE(json_agg(a ORDER BY a.occurs_at, a.id), '[]'::json)
		           FROM activities a WHERE a.trip_id = t.id
		       ) END,
		       CASE WHEN @links::boolean THEN (
		           SELECT COALESCE(json_agg(l ORDER BY l.created_at, l.id), '[]'::json)
		           FROM links l WHERE l.trip_id = t.id
		       ) END
		FROM trips t
		WHERE t.id = @id`

	args := pgx.NamedArgs{
		"id":           id,
		"participants": domain.Includes(include, domain.WithParticipants),
		"activities":   domain.Includes(include, domain.WithActivities),
		"links":        domain.Includes(include, domain.WithLinks),
	}

	var (
		t                                   domain.Trip
		participants, activities, linksJSON []byte
	)
	err := r.db.QueryRow(ctx, q, args).Scan(
		&t.ID, &t.Destination, &t.StartsAt, &t.EndsAt, &t.IsConfirmed, &t.CreatedAt,
		&participants, &activities, &linksJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = domain.ErrNotFound
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}

	if t.Participants, err = decodeRows(participants, participantJSON.toDomain); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: participants: %w", err)
	}
	if t.Activities, err = decodeRows(activities, activityJSON.toDomain); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: activities: %w", err)
	}
	if t.Links, err = decodeRows(linksJSON, linkJSON.toDomain); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: links: %w", err)
	}
	return t, nil
}

func (r *pgTripRepo) Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET destination  = COALESCE(@destination::text, destination),
		    starts_at    = COALESCE(@starts_at::timestamptz, starts_at),
		    ends_at      = COALESCE(@ends_at::timestamptz, ends_at),
		    is_confirmed = COALESCE(@is_confirmed::boolean, is_confirmed)
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":           id,
		"destination":  patch.Destination, // nil becomes NULL and keeps the column
		"starts_at":    patch.StartsAt,
		"ends_at":      patch.EndsAt,
		"is_confirmed": patch.IsConfirmed,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a row selected with tripColumns into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var t domain.Trip
	err := s.Scan(&t.ID, &t.Destination, &t.StartsAt, &t.EndsAt, &t.IsConfirmed, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return t, nil
}

// decodeRows unmarshals a json_agg column. A NULL column (relation not
// requested) yields a nil slice; an empty aggregate yields an empty one.
func decodeRows[J any, T any](raw []byte, convert func(J) T) ([]T, error) {
	if raw == nil {
		return nil, nil
	}
	var rows []J
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = convert(row)
	}
	return out, nil
}

// The *JSON types mirror row_to_json output; keys are column names.

type participantJSON struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"trip_id"`
	Name        *string   `json:"name"`
	Email       string    `json:"email"`
	IsConfirmed bool      `json:"is_confirmed"`
	IsOwner     bool      `json:"is_owner"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p participantJSON) toDomain() domain.Participant {
	return domain.Participant{
		ID:          p.ID,
		TripID:      p.TripID,
		Name:        p.Name,
		Email:       p.Email,
		IsConfirmed: p.IsConfirmed,
		IsOwner:     p.IsOwner,
		CreatedAt:   p.CreatedAt,
	}
}

type activityJSON struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Title     string    `json:"title"`
	OccursAt  time.Time `json:"occurs_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (a activityJSON) toDomain() domain.Activity {
	return domain.Activity(a)
}

type linkJSON struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func (l linkJSON) toDomain() domain.Link {
	return domain.Link(l)
}
