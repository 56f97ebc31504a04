package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveMinHours(t *testing.T) {
	r := Default()
	r.MinHoursByYacht = map[string]float64{"y-luxe": 48}

	assert.Equal(t, 48.0, r.ResolveMinHours("y-luxe"))
	assert.Equal(t, 4.0, r.ResolveMinHours("y-day"))
	assert.Equal(t, 4.0, r.ResolveMinHours(""))
}

func TestResolveMaxGuests(t *testing.T) {
	r := Default()

	assert.Equal(t, 8, r.ResolveMaxGuests(8))
	assert.Equal(t, 12, r.ResolveMaxGuests(0))
}

func TestBlackoutsOverlapping(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC) }

	r := Default()
	r.Blackouts = []Blackout{
		{Start: day(1), End: day(5), Reason: "regatta week"},
		{Start: day(10), End: day(12), Reason: "haul-out"},
	}

	t.Run("no overlap", func(t *testing.T) {
		assert.Empty(t, r.BlackoutsOverlapping(day(6), day(9)))
	})

	t.Run("single overlap", func(t *testing.T) {
		hits := r.BlackoutsOverlapping(day(4), day(7))
		assert.Len(t, hits, 1)
		assert.Equal(t, "regatta week", hits[0].Reason)
	})

	t.Run("multiple overlaps keep configured order", func(t *testing.T) {
		hits := r.BlackoutsOverlapping(day(3), day(11))
		assert.Len(t, hits, 2)
		assert.Equal(t, "regatta week", hits[0].Reason)
		assert.Equal(t, "haul-out", hits[1].Reason)
	})

	t.Run("touching the boundary is free", func(t *testing.T) {
		assert.Empty(t, r.BlackoutsOverlapping(day(5), day(8)))
	})
}
