// Package conflict implements overlap detection between a candidate
// reservation and the existing calendar of a yacht.
package conflict

import (
	"errors"
	"fmt"
	"time"

	"helmsman/internal/interval"
	"helmsman/internal/models"
)

// Type classifies what the candidate collided with.
type Type string

const (
	TypeBooking     Type = "booking"
	TypeMaintenance Type = "maintenance"
	TypeCapacity    Type = "capacity"
)

// Severity controls whether a conflict may be overridden by a manager.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Conflict describes a single collision with an existing reservation.
type Conflict struct {
	Type        Type                `json:"type"`
	Severity    Severity            `json:"severity"`
	Reason      string              `json:"reason"`
	CanOverride bool                `json:"can_override"`
	With        *models.Reservation `json:"with,omitempty"`
}

// Result is the outcome of a conflict check.
type Result struct {
	HasConflicts bool       `json:"has_conflicts"`
	Conflicts    []Conflict `json:"conflicts,omitempty"`
	Available    bool       `json:"is_available"`
}

// Options tunes the check for specific callers.
type Options struct {
	// ExcludeSameDay drops conflicts whose overlap is confined to the
	// candidate's first or last calendar day, letting same-day turnarounds
	// through. Off by default.
	ExcludeSameDay bool
}

// ErrInvalidInput is returned when either side of the check carries
// malformed dates. A broken reservation must never pass as "no conflict".
var ErrInvalidInput = errors.New("conflict check: invalid input")

// Check tests the candidate against the existing reservations of the same
// yacht and reports every collision. Cancelled and no-show reservations are
// ignored, as is a persisted copy of the candidate itself.
func Check(candidate *models.Reservation, existing []*models.Reservation, opts Options) (Result, error) {
	if candidate == nil || candidate.YachtID == "" {
		return Result{}, ErrInvalidInput
	}
	if err := interval.ValidateRange(candidate.Start, candidate.End); err != nil {
		return Result{}, fmt.Errorf("%w: candidate dates", ErrInvalidInput)
	}

	var conflicts []Conflict
	for _, other := range existing {
		if other == nil || other.YachtID != candidate.YachtID {
			continue
		}
		if candidate.ID != "" && other.ID == candidate.ID {
			continue
		}
		if !other.CountsForConflicts() {
			continue
		}
		if err := interval.ValidateRange(other.Start, other.End); err != nil {
			return Result{}, fmt.Errorf("%w: reservation %s dates", ErrInvalidInput, other.ID)
		}
		if !candidate.OverlapsWith(other) {
			continue
		}
		if opts.ExcludeSameDay && boundaryDayOnly(candidate, other) {
			continue
		}
		conflicts = append(conflicts, classify(other))
	}

	return Result{
		HasConflicts: len(conflicts) > 0,
		Conflicts:    conflicts,
		Available:    !hasBlocking(conflicts),
	}, nil
}

// classify maps an overlapping reservation to a conflict per the severity
// policy: administrative blocks and firm bookings block outright, tentative
// holds may be bumped by a manager.
func classify(other *models.Reservation) Conflict {
	if other.Kind.Blocking() {
		return Conflict{
			Type:        TypeMaintenance,
			Severity:    SeverityHigh,
			Reason:      fmt.Sprintf("yacht is blocked for %s from %s to %s", other.Kind, fmtDate(other.Start), fmtDate(other.End)),
			CanOverride: false,
			With:        other,
		}
	}

	if other.Status.Tentative() {
		return Conflict{
			Type:        TypeBooking,
			Severity:    SeverityMedium,
			Reason:      fmt.Sprintf("overlaps a %s reservation from %s to %s", other.Status, fmtDate(other.Start), fmtDate(other.End)),
			CanOverride: true,
			With:        other,
		}
	}

	// Confirmed and completed charters are firm.
	return Conflict{
		Type:        TypeBooking,
		Severity:    SeverityHigh,
		Reason:      fmt.Sprintf("overlaps a %s reservation from %s to %s", other.Status, fmtDate(other.Start), fmtDate(other.End)),
		CanOverride: false,
		With:        other,
	}
}

func hasBlocking(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

// boundaryDayOnly reports whether the overlap between candidate and other is
// confined to the candidate's first or last calendar day.
func boundaryDayOnly(candidate, other *models.Reservation) bool {
	ovStart := maxTime(candidate.Start, other.Start)
	ovEnd := minTime(candidate.End, other.End)
	if !ovStart.Before(ovEnd) {
		return false
	}

	day := interval.DayStart(ovStart)
	// The overlap must fit inside one calendar day.
	if ovEnd.After(day.AddDate(0, 0, 1)) {
		return false
	}

	firstDay := interval.DayStart(candidate.Start)
	lastDay := interval.DayStart(candidate.End)
	if candidate.End.Equal(lastDay) {
		// A midnight checkout does not occupy the checkout day.
		lastDay = lastDay.AddDate(0, 0, -1)
	}
	return day.Equal(firstDay) || day.Equal(lastDay)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func fmtDate(t time.Time) string {
	return t.Format("2006-01-02")
}
