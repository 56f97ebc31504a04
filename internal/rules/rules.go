// Package rules holds the booking policy consulted by the validator and the
// suggestion engine. A Rules value is immutable once built; per-tenant
// overrides are expressed by constructing a different value, never by
// mutating a shared one.
package rules

import (
	"time"

	"helmsman/internal/interval"
)

// Blackout is a closed date range during which no booking may overlap.
type Blackout struct {
	Start  time.Time
	End    time.Time
	Reason string
}

// Overlaps reports whether the candidate range intersects the blackout.
func (b Blackout) Overlaps(start, end time.Time) bool {
	return interval.Overlap(start, end, b.Start, b.End)
}

// Rules is the charter office booking policy.
type Rules struct {
	MinBookingHours       float64
	MinHoursByYacht       map[string]float64 // overrides keyed by yacht ID
	MaxBookingDays        int
	MinAdvanceNoticeHours float64
	MaxAdvanceBookingDays int
	MinDepositPercent     float64
	MaxDepositPercent     float64
	MinTotalValue         float64
	DefaultMaxGuests      int
	Blackouts             []Blackout
}

// Default returns the stock policy used when no config overrides it.
func Default() Rules {
	return Rules{
		MinBookingHours:       4,
		MaxBookingDays:        14,
		MinAdvanceNoticeHours: 24,
		MaxAdvanceBookingDays: 365,
		MinDepositPercent:     20,
		MaxDepositPercent:     100,
		MinTotalValue:         100,
		DefaultMaxGuests:      12,
	}
}

// ResolveMinHours returns the minimum charter length for a yacht,
// preferring the per-yacht override when one is configured.
func (r Rules) ResolveMinHours(yachtID string) float64 {
	if h, ok := r.MinHoursByYacht[yachtID]; ok && h > 0 {
		return h
	}
	return r.MinBookingHours
}

// ResolveMaxGuests returns the guest capacity to validate against: the
// yacht's own limit when known, otherwise the global default.
func (r Rules) ResolveMaxGuests(yachtMax int) int {
	if yachtMax > 0 {
		return yachtMax
	}
	return r.DefaultMaxGuests
}

// BlackoutsOverlapping returns every blackout that intersects the range,
// preserving configured order.
func (r Rules) BlackoutsOverlapping(start, end time.Time) []Blackout {
	var hits []Blackout
	for _, b := range r.Blackouts {
		if b.Overlaps(start, end) {
			hits = append(hits, b)
		}
	}
	return hits
}
