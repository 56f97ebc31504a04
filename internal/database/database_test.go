package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helmsman/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := New(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedYacht(t *testing.T, db *DB, id string) {
	t.Helper()
	require.NoError(t, db.UpsertYacht(context.Background(), &models.Yacht{
		ID: id, Name: "Test " + id, MaxGuests: 8, IsActive: true,
	}))
}

func TestYachtCache(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedYacht(t, db, "y1")
	require.NoError(t, db.UpsertYacht(ctx, &models.Yacht{ID: "y2", Name: "Second", MaxGuests: 10, IsActive: true, SortOrder: -1}))

	y, err := db.GetYachtByID("y1")
	require.NoError(t, err)
	assert.Equal(t, "Test y1", y.Name)

	_, err = db.GetYachtByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	fleet := db.GetYachts()
	require.Len(t, fleet, 2)
	assert.Equal(t, "y2", fleet[0].ID, "sort order wins")

	// Cache survives a reload from disk.
	require.NoError(t, db.LoadYachts(ctx))
	assert.Len(t, db.GetYachts(), 2)
}

func TestReservationLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedYacht(t, db, "y1")

	r := &models.Reservation{
		YachtID:       "y1",
		Start:         time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
		End:           time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC),
		Status:        models.StatusPending,
		CustomerName:  "A. Seafarer",
		CustomerEmail: "a@example.com",
		TotalValue:    1000,
		DepositAmount: 200,
		GuestCount:    6,
	}
	require.NoError(t, db.CreateReservation(ctx, r))
	assert.NotEmpty(t, r.ID, "id assigned on create")
	assert.Equal(t, int64(1), r.Version)

	loaded, err := db.GetReservation(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, loaded.Status)
	assert.Equal(t, models.KindCharter, loaded.Kind)
	assert.True(t, loaded.Start.Equal(r.Start))

	t.Run("status update with version", func(t *testing.T) {
		require.NoError(t, db.UpdateReservationStatus(ctx, r.ID, 1, models.StatusConfirmed))

		updated, err := db.GetReservation(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, updated.Status)
		assert.Equal(t, int64(2), updated.Version)

		// Re-using the stale version is rejected.
		err = db.UpdateReservationStatus(ctx, r.ID, 1, models.StatusCancelled)
		assert.ErrorIs(t, err, ErrConcurrentModification)
	})

	t.Run("missing reservation", func(t *testing.T) {
		_, err := db.GetReservation(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)

		err = db.UpdateReservationStatus(ctx, "nope", 1, models.StatusCancelled)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListReservations(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedYacht(t, db, "y1")
	seedYacht(t, db, "y2")

	mk := func(yachtID string, startDay, endDay int) *models.Reservation {
		r := &models.Reservation{
			YachtID: yachtID,
			Start:   time.Date(2025, 6, startDay, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2025, 6, endDay, 0, 0, 0, 0, time.UTC),
			Status:  models.StatusConfirmed,
		}
		require.NoError(t, db.CreateReservation(ctx, r))
		return r
	}

	mk("y1", 10, 15)
	mk("y1", 20, 22)
	mk("y2", 10, 12)

	forY1, err := db.ListReservationsForYacht(ctx, "y1")
	require.NoError(t, err)
	assert.Len(t, forY1, 2)
	assert.True(t, forY1[0].Start.Before(forY1[1].Start), "ordered by start")

	inRange, err := db.ListReservationsInRange(ctx,
		time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, inRange, 2, "y1 first charter and y2 charter intersect the window")
}
