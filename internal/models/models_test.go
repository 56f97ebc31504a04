package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestStatus(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		for _, s := range []Status{StatusPending, StatusConfirmed, StatusCancelled,
			StatusCompleted, StatusNoShow, StatusDepositPending, StatusFinalPaymentPending} {
			assert.True(t, s.Valid(), string(s))
		}
		assert.False(t, Status("archived").Valid())
		assert.False(t, Status("").Valid())
	})

	t.Run("Active", func(t *testing.T) {
		assert.True(t, StatusPending.Active())
		assert.True(t, StatusConfirmed.Active())
		assert.False(t, StatusCancelled.Active())
		assert.False(t, StatusNoShow.Active())
	})

	t.Run("Tentative", func(t *testing.T) {
		assert.True(t, StatusPending.Tentative())
		assert.True(t, StatusDepositPending.Tentative())
		assert.True(t, StatusFinalPaymentPending.Tentative())
		assert.False(t, StatusConfirmed.Tentative())
		assert.False(t, StatusCompleted.Tentative())
	})
}

func TestKind_Blocking(t *testing.T) {
	assert.True(t, KindMaintenance.Blocking())
	assert.True(t, KindBlocked.Blocking())
	assert.False(t, KindCharter.Blocking())
	assert.False(t, Kind("").Blocking())
}

func TestReservation_OverlapsWith(t *testing.T) {
	a := &Reservation{Start: day(10), End: day(15)}

	tests := []struct {
		name  string
		other *Reservation
		want  bool
	}{
		{"inside", &Reservation{Start: day(12), End: day(14)}, true},
		{"after", &Reservation{Start: day(16), End: day(18)}, false},
		{"back to back", &Reservation{Start: day(15), End: day(18)}, false},
		{"straddles start", &Reservation{Start: day(8), End: day(11)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.OverlapsWith(tt.other))
			assert.Equal(t, tt.want, tt.other.OverlapsWith(a))
		})
	}
}

func TestReservation_ContainsDate(t *testing.T) {
	r := &Reservation{
		Start: time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC),
	}

	assert.True(t, r.ContainsDate(day(10)))
	assert.True(t, r.ContainsDate(day(11)))
	assert.True(t, r.ContainsDate(day(12))) // checkout morning still occupies the day
	assert.False(t, r.ContainsDate(day(13)))
	assert.False(t, r.ContainsDate(day(9)))
}

func TestReservation_Duration(t *testing.T) {
	r := &Reservation{Start: day(10), End: day(12)}
	assert.Equal(t, 48*time.Hour, r.Duration())
}
