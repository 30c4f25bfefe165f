package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ParticipantRepo defines the persistence operations for Participants.
type ParticipantRepo interface {
	// Create inserts a participant for an existing trip.
	Create(ctx context.Context, p domain.Participant) (domain.Participant, error)

	// GetByID returns the participant. With domain.WithTrip its Trip is loaded
	// in the same statement.
	// Returns domain.ErrNotFound if no participant with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID, include ...domain.Relation) (domain.Participant, error)

	// ListByTripID returns the participants of a trip, owner first.
	// A non-nil confirmed filters on is_confirmed.
	ListByTripID(ctx context.Context, tripID uuid.UUID, confirmed *bool) ([]domain.Participant, error)

	// Update changes the non-nil fields of patch.
	// Returns domain.ErrNotFound if no participant with that ID exists.
	Update(ctx context.Context, id uuid.UUID, patch domain.ParticipantPatch) (domain.Participant, error)

	// Delete removes a participant.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgParticipantRepo struct {
	db db
}

// NewParticipantRepo constructs a ParticipantRepo backed by the provided db connection.
func NewParticipantRepo(db db) ParticipantRepo {
	return &pgParticipantRepo{db: db}
}

const participantColumns = `id, trip_id, name, email, is_confirmed, is_owner, created_at`

func (r *pgParticipantRepo) Create(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	result, err := insertParticipant(ctx, r.db, p)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.Create: %w", err)
	}
	return result, nil
}

// insertParticipant is shared with TripRepo.Create, which runs it inside the
// trip's transaction.
func insertParticipant(ctx context.Context, q db, p domain.Participant) (domain.Participant, error) {
	const sql = `
		INSERT INTO participants (trip_id, name, email, is_confirmed, is_owner)
		VALUES (@trip_id, @name, @email, @is_confirmed, @is_owner)
		RETURNING ` + participantColumns

	return scanParticipant(q.QueryRow(ctx, sql, pgx.NamedArgs{
		"trip_id":      p.TripID,
		"name":         p.Name,
		"email":        p.Email,
		"is_confirmed": p.IsConfirmed,
		"is_owner":     p.IsOwner,
	}))
}

func (r *pgParticipantRepo) GetByID(ctx context.Context, id uuid.UUID, include ...domain.Relation) (domain.Participant, error) {
	if !domain.Includes(include, domain.WithTrip) {
		const q = `SELECT ` + participantColumns + ` FROM participants WHERE id = @id`

		p, err := scanParticipant(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
		if err != nil {
			return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.GetByID: %w", err)
		}
		return p, nil
	}

	const q = `
		SELECT p.id, p.trip_id, p.name, p.email, p.is_confirmed, p.is_owner, p.created_at,
		       t.id, t.destination, t.starts_at, t.ends_at, t.is_confirmed, t.created_at
		FROM participants p
		JOIN trips t ON t.id = p.trip_id
		WHERE p.id = @id`

	var (
		p    domain.Participant
		trip domain.Trip
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(
		&p.ID, &p.TripID, &p.Name, &p.Email, &p.IsConfirmed, &p.IsOwner, &p.CreatedAt,
		&trip.ID, &trip.Destination, &trip.StartsAt, &trip.EndsAt, &trip.IsConfirmed, &trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = domain.ErrNotFound
		}
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.GetByID: %w", err)
	}
	p.Trip = &trip
	return p, nil
}

func (r *pgParticipantRepo) ListByTripID(ctx context.Context, tripID uuid.UUID, confirmed *bool) ([]domain.Participant, error) {
	const q = `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE trip_id = @trip_id
		  AND (@confirmed::boolean IS NULL OR is_confirmed = @confirmed::boolean)
		ORDER BY is_owner DESC, created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "confirmed": confirmed})
	if err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	participants := []domain.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: scan: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: rows: %w", err)
	}
	return participants, nil
}

func (r *pgParticipantRepo) Update(ctx context.Context, id uuid.UUID, patch domain.ParticipantPatch) (domain.Participant, error) {
	const q = `
		UPDATE participants
		SET name         = COALESCE(@name::text, name),
		    is_confirmed = COALESCE(@is_confirmed::boolean, is_confirmed)
		WHERE id = @id
		RETURNING ` + participantColumns

	p, err := scanParticipant(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":           id,
		"name":         patch.Name,
		"is_confirmed": patch.IsConfirmed,
	}))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.Update: %w", err)
	}
	return p, nil
}

func (r *pgParticipantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM participants WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ParticipantRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ParticipantRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanParticipant(s scanner) (domain.Participant, error) {
	var p domain.Participant
	err := s.Scan(&p.ID, &p.TripID, &p.Name, &p.Email, &p.IsConfirmed, &p.IsOwner, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Participant{}, domain.ErrNotFound
		}
		return domain.Participant{}, err
	}
	return p, nil
}
