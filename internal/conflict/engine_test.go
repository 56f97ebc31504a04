package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helmsman/internal/models"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func confirmed(id string, start, end time.Time) *models.Reservation {
	return &models.Reservation{ID: id, YachtID: "y1", Start: start, End: end, Status: models.StatusConfirmed, Kind: models.KindCharter}
}

func TestCheck_ConfirmedOverlap(t *testing.T) {
	existing := []*models.Reservation{confirmed("r1", day(10), day(15))}
	candidate := &models.Reservation{YachtID: "y1", Start: day(12), End: day(14), Status: models.StatusPending}

	res, err := Check(candidate, existing, Options{})
	require.NoError(t, err)

	assert.True(t, res.HasConflicts)
	assert.False(t, res.Available)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, TypeBooking, res.Conflicts[0].Type)
	assert.Equal(t, SeverityHigh, res.Conflicts[0].Severity)
	assert.False(t, res.Conflicts[0].CanOverride)
	assert.Equal(t, "r1", res.Conflicts[0].With.ID)
}

func TestCheck_ShiftedCandidateIsFree(t *testing.T) {
	existing := []*models.Reservation{confirmed("r1", day(10), day(15))}
	candidate := &models.Reservation{YachtID: "y1", Start: day(16), End: day(18), Status: models.StatusPending}

	res, err := Check(candidate, existing, Options{})
	require.NoError(t, err)

	assert.False(t, res.HasConflicts)
	assert.True(t, res.Available)
}

func TestCheck_PendingOverlapIsOverridable(t *testing.T) {
	existing := []*models.Reservation{{
		ID: "r2", YachtID: "y1", Start: day(10), End: day(15), Status: models.StatusPending,
	}}
	candidate := &models.Reservation{YachtID: "y1", Start: day(12), End: day(14)}

	res, err := Check(candidate, existing, Options{})
	require.NoError(t, err)

	assert.True(t, res.HasConflicts)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, SeverityMedium, res.Conflicts[0].Severity)
	assert.True(t, res.Conflicts[0].CanOverride)
	// A medium conflict does not block availability.
	assert.True(t, res.Available)
}

func TestCheck_MaintenanceBlocks(t *testing.T) {
	existing := []*models.Reservation{{
		ID: "m1", YachtID: "y1", Start: day(10), End: day(15),
		Status: models.StatusConfirmed, Kind: models.KindMaintenance,
	}}
	candidate := &models.Reservation{YachtID: "y1", Start: day(12), End: day(14)}

	res, err := Check(candidate, existing, Options{})
	require.NoError(t, err)

	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, TypeMaintenance, res.Conflicts[0].Type)
	assert.Equal(t, SeverityHigh, res.Conflicts[0].Severity)
	assert.False(t, res.Conflicts[0].CanOverride)
	assert.False(t, res.Available)
}

func TestCheck_Exclusions(t *testing.T) {
	t.Run("self", func(t *testing.T) {
		self := confirmed("r1", day(10), day(15))
		res, err := Check(self, []*models.Reservation{confirmed("r1", day(10), day(15))}, Options{})
		require.NoError(t, err)
		assert.False(t, res.HasConflicts)
		assert.True(t, res.Available)
	})

	t.Run("cancelled and no-show", func(t *testing.T) {
		existing := []*models.Reservation{
			{ID: "c1", YachtID: "y1", Start: day(10), End: day(15), Status: models.StatusCancelled},
			{ID: "n1", YachtID: "y1", Start: day(10), End: day(15), Status: models.StatusNoShow},
		}
		candidate := &models.Reservation{YachtID: "y1", Start: day(12), End: day(14)}
		res, err := Check(candidate, existing, Options{})
		require.NoError(t, err)
		assert.False(t, res.HasConflicts)
	})

	t.Run("other yacht", func(t *testing.T) {
		other := confirmed("r1", day(10), day(15))
		other.YachtID = "y2"
		candidate := &models.Reservation{YachtID: "y1", Start: day(12), End: day(14)}
		res, err := Check(candidate, []*models.Reservation{other}, Options{})
		require.NoError(t, err)
		assert.False(t, res.HasConflicts)
	})
}

func TestCheck_ExcludeSameDay(t *testing.T) {
	// Existing charter ends midday on the 12th; candidate starts the same
	// morning, so the overlap is confined to the candidate's first day.
	existing := []*models.Reservation{confirmed("r1", day(10), time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC))}
	candidate := &models.Reservation{
		YachtID: "y1",
		Start:   time.Date(2025, 6, 12, 8, 0, 0, 0, time.UTC),
		End:     day(14),
	}

	strict, err := Check(candidate, existing, Options{})
	require.NoError(t, err)
	assert.True(t, strict.HasConflicts)

	relaxed, err := Check(candidate, existing, Options{ExcludeSameDay: true})
	require.NoError(t, err)
	assert.False(t, relaxed.HasConflicts)
	assert.True(t, relaxed.Available)

	// A multi-day overlap is never dropped by the relaxation.
	deep := &models.Reservation{YachtID: "y1", Start: day(9), End: day(12)}
	res, err := Check(deep, existing, Options{ExcludeSameDay: true})
	require.NoError(t, err)
	assert.True(t, res.HasConflicts)
}

func TestCheck_InvalidInput(t *testing.T) {
	t.Run("missing candidate dates", func(t *testing.T) {
		_, err := Check(&models.Reservation{YachtID: "y1"}, nil, Options{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("inverted candidate range", func(t *testing.T) {
		_, err := Check(&models.Reservation{YachtID: "y1", Start: day(14), End: day(12)}, nil, Options{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing yacht", func(t *testing.T) {
		_, err := Check(&models.Reservation{Start: day(12), End: day(14)}, nil, Options{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("malformed existing reservation", func(t *testing.T) {
		existing := []*models.Reservation{{ID: "bad", YachtID: "y1", Status: models.StatusConfirmed}}
		candidate := &models.Reservation{YachtID: "y1", Start: day(12), End: day(14)}
		_, err := Check(candidate, existing, Options{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("nil candidate", func(t *testing.T) {
		_, err := Check(nil, nil, Options{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRangeAvailability(t *testing.T) {
	existing := []*models.Reservation{
		confirmed("r1", day(11), day(13)),
		{ID: "p1", YachtID: "y1", Start: day(14), End: day(15), Status: models.StatusPending},
		{ID: "m1", YachtID: "y1", Start: day(16), End: day(17), Status: models.StatusConfirmed, Kind: models.KindMaintenance},
	}

	days, err := RangeAvailability(day(10), day(18), "y1", existing)
	require.NoError(t, err)
	require.Len(t, days, 8)

	want := []DayState{
		DayAvailable, // 10
		DayConfirmed, // 11
		DayConfirmed, // 12
		DayAvailable, // 13: midnight checkout frees the day
		DayPending,   // 14
		DayAvailable, // 15
		DayMaintenance,
		DayAvailable, // 17
	}
	for i, w := range want {
		assert.Equal(t, w, days[i].Status, days[i].Date.Format("2006-01-02"))
	}
}

func TestRangeAvailability_InvalidInput(t *testing.T) {
	_, err := RangeAvailability(day(10), day(18), "", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = RangeAvailability(day(18), day(10), "y1", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
