package repo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/testutil"
)

func TestLinkRepo_CRUD(t *testing.T) {
	tx := testutil.NewTx(t)
	trip := createTrip(t, repo.NewTripRepo(tx))
	r := repo.NewLinkRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, domain.Link{TripID: trip.ID, Title: "Hotel", URL: "https://hotel.example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	url := "https://hotel.example.com/booking/42"
	updated, err := r.Update(ctx, created.ID, domain.LinkPatch{URL: &url})
	require.NoError(t, err)
	assert.Equal(t, "Hotel", updated.Title, "unset fields are kept")
	assert.Equal(t, url, updated.URL)

	require.NoError(t, r.Delete(ctx, created.ID))
	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestLinkRepo_ListByTripID_Pages(t *testing.T) {
	tx := testutil.NewTx(t)
	trip := createTrip(t, repo.NewTripRepo(tx))
	r := repo.NewLinkRepo(tx)
	ctx := context.Background()

	for i := range 5 {
		_, err := r.Create(ctx, domain.Link{TripID: trip.ID, Title: fmt.Sprintf("link %d", i), URL: "https://example.com"})
		require.NoError(t, err)
	}

	first, total, err := r.ListByTripID(ctx, trip.ID, domain.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, int64(5), total)

	last, total, err := r.ListByTripID(ctx, trip.ID, domain.PaginationParams{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, last, 1)
	assert.Equal(t, int64(5), total)

	beyond, total, err := r.ListByTripID(ctx, trip.ID, domain.PaginationParams{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.Equal(t, int64(5), total, "total is reported even past the last page")
}

func TestLinkRepo_ListByTripID_Empty(t *testing.T) {
	r := repo.NewLinkRepo(testutil.NewTx(t))

	got, total, err := r.ListByTripID(context.Background(), uuid.New(), domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, total)
}
