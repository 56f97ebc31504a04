// Package suggest proposes conflict-free alternatives when a candidate
// reservation cannot be booked as requested.
package suggest

import (
	"time"

	"helmsman/internal/conflict"
	"helmsman/internal/interval"
	"helmsman/internal/models"
)

const (
	// HorizonDays bounds the date-shift search in either direction.
	HorizonDays = 30
	// MaxDateSuggestions caps how many shifted ranges are returned.
	MaxDateSuggestions = 4
)

// DateSlot is a free date range on the candidate's own yacht.
type DateSlot struct {
	Start          time.Time `json:"start_datetime"`
	End            time.Time `json:"end_datetime"`
	Days           int       `json:"days"`
	DaysDifference int       `json:"days_difference,omitempty"`
	IsWeekend      bool      `json:"is_weekend"`
}

// YachtOption is a different yacht free for the originally requested dates.
type YachtOption struct {
	Yacht *models.Yacht `json:"yacht"`
	Start time.Time     `json:"start_datetime"`
	End   time.Time     `json:"end_datetime"`
}

// Set bundles the three independent suggestion strategies.
type Set struct {
	AlternativeDates  []DateSlot    `json:"alternative_dates"`
	AlternativeYachts []YachtOption `json:"alternative_yachts"`
	NearbySlots       []DateSlot    `json:"nearby_slots"`
}

// Suggest runs all three strategies and merges the results. An empty Set is
// a valid answer; messaging "no alternatives found" is the caller's job.
func Suggest(candidate *models.Reservation, existing []*models.Reservation, yachts []*models.Yacht) (Set, error) {
	if candidate == nil || candidate.YachtID == "" {
		return Set{}, conflict.ErrInvalidInput
	}
	if err := interval.ValidateRange(candidate.Start, candidate.End); err != nil {
		return Set{}, conflict.ErrInvalidInput
	}

	dates, err := alternativeDates(candidate, existing)
	if err != nil {
		return Set{}, err
	}
	boats, err := alternativeYachts(candidate, existing, yachts)
	if err != nil {
		return Set{}, err
	}
	nearby, err := nearbySlots(candidate, existing)
	if err != nil {
		return Set{}, err
	}

	return Set{AlternativeDates: dates, AlternativeYachts: boats, NearbySlots: nearby}, nil
}

// alternativeDates scans outward from the requested start in day steps,
// preserving the original duration. Closest shifts come first; at equal
// distance the later date wins, since charter demand skews forward.
func alternativeDates(candidate *models.Reservation, existing []*models.Reservation) ([]DateSlot, error) {
	var slots []DateSlot
	for offset := 1; offset <= HorizonDays && len(slots) < MaxDateSuggestions; offset++ {
		for _, days := range []int{offset, -offset} {
			if len(slots) >= MaxDateSuggestions {
				break
			}
			shifted := *candidate
			shifted.Start = candidate.Start.AddDate(0, 0, days)
			shifted.End = candidate.End.AddDate(0, 0, days)

			res, err := conflict.Check(&shifted, existing, conflict.Options{})
			if err != nil {
				return nil, err
			}
			if res.HasConflicts {
				continue
			}
			slots = append(slots, DateSlot{
				Start:          shifted.Start,
				End:            shifted.End,
				Days:           interval.DurationDays(shifted.Start, shifted.End),
				DaysDifference: days,
				IsWeekend:      interval.IsWeekend(shifted.Start),
			})
		}
	}
	return slots, nil
}

// alternativeYachts tests every other yacht with enough berths for the same
// dates, preserving fleet order.
func alternativeYachts(candidate *models.Reservation, existing []*models.Reservation, yachts []*models.Yacht) ([]YachtOption, error) {
	var options []YachtOption
	for _, y := range yachts {
		if y == nil || y.ID == candidate.YachtID || !y.IsActive {
			continue
		}
		if candidate.GuestCount > 0 && y.MaxGuests > 0 && candidate.GuestCount > y.MaxGuests {
			continue
		}

		moved := *candidate
		moved.YachtID = y.ID
		res, err := conflict.Check(&moved, existing, conflict.Options{})
		if err != nil {
			return nil, err
		}
		if res.HasConflicts {
			continue
		}
		options = append(options, YachtOption{Yacht: y, Start: candidate.Start, End: candidate.End})
	}
	return options, nil
}

// nearbySlots finds the longest contiguous free window immediately before
// and immediately after the block of reservations the candidate collides
// with, reported chronologically (before, then after).
func nearbySlots(candidate *models.Reservation, existing []*models.Reservation) ([]DateSlot, error) {
	blockStart, blockEnd := conflictBlock(candidate, existing)

	var slots []DateSlot

	// Walk backward from the block.
	beforeEnd := interval.DayStart(blockStart)
	beforeStart := beforeEnd
	for i := 0; i < HorizonDays; i++ {
		day := beforeStart.AddDate(0, 0, -1)
		if dayTaken(day, candidate.YachtID, existing) {
			break
		}
		beforeStart = day
	}
	if beforeStart.Before(beforeEnd) {
		slots = append(slots, daySlot(beforeStart, beforeEnd))
	}

	// Walk forward from the block.
	afterStart := interval.DayStart(blockEnd)
	if blockEnd.After(afterStart) {
		afterStart = afterStart.AddDate(0, 0, 1)
	}
	afterEnd := afterStart
	for i := 0; i < HorizonDays; i++ {
		if dayTaken(afterEnd, candidate.YachtID, existing) {
			break
		}
		afterEnd = afterEnd.AddDate(0, 0, 1)
	}
	if afterStart.Before(afterEnd) {
		slots = append(slots, daySlot(afterStart, afterEnd))
	}

	return slots, nil
}

// conflictBlock returns the merged span of the candidate and every active
// reservation it overlaps on its yacht.
func conflictBlock(candidate *models.Reservation, existing []*models.Reservation) (time.Time, time.Time) {
	start, end := candidate.Start, candidate.End
	for _, r := range existing {
		if r == nil || r.YachtID != candidate.YachtID || !r.CountsForConflicts() {
			continue
		}
		if r.ID != "" && r.ID == candidate.ID {
			continue
		}
		if !interval.Overlap(start, end, r.Start, r.End) {
			continue
		}
		if r.Start.Before(start) {
			start = r.Start
		}
		if r.End.After(end) {
			end = r.End
		}
	}
	return start, end
}

func dayTaken(day time.Time, yachtID string, existing []*models.Reservation) bool {
	for _, r := range existing {
		if r == nil || r.YachtID != yachtID || !r.CountsForConflicts() {
			continue
		}
		if r.ContainsDate(day) {
			return true
		}
	}
	return false
}

func daySlot(start, end time.Time) DateSlot {
	slot := DateSlot{
		Start: start,
		End:   end,
		Days:  interval.DurationDays(start, end),
	}
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if interval.IsWeekend(d) {
			slot.IsWeekend = true
			break
		}
	}
	return slot
}
