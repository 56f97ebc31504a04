package conflict

import (
	"time"

	"helmsman/internal/interval"
	"helmsman/internal/models"
)

// DayState is the calendar indicator for a single day.
type DayState string

const (
	DayAvailable   DayState = "available"
	DayConfirmed   DayState = "confirmed"
	DayPending     DayState = "pending"
	DayMaintenance DayState = "maintenance"
)

// DayStatus is one calendar day of a yacht's availability.
type DayStatus struct {
	Date   time.Time `json:"date"`
	Status DayState  `json:"status"`
}

// RangeAvailability produces one entry per calendar day in [start, end) with
// the state derived from whichever reservation covers that day. Maintenance
// blocks win over bookings, confirmed bookings over tentative holds.
func RangeAvailability(start, end time.Time, yachtID string, existing []*models.Reservation) ([]DayStatus, error) {
	if yachtID == "" {
		return nil, ErrInvalidInput
	}
	if err := interval.ValidateRange(start, end); err != nil {
		return nil, ErrInvalidInput
	}

	days := make([]DayStatus, 0, interval.DurationDays(start, end))
	for d := interval.DayStart(start); d.Before(end); d = d.AddDate(0, 0, 1) {
		state := DayAvailable
		for _, r := range existing {
			if r == nil || r.YachtID != yachtID || !r.CountsForConflicts() {
				continue
			}
			if !r.ContainsDate(d) {
				continue
			}
			switch {
			case r.Kind.Blocking():
				state = DayMaintenance
			case r.Status == models.StatusConfirmed || r.Status == models.StatusCompleted:
				if state != DayMaintenance {
					state = DayConfirmed
				}
			default:
				if state == DayAvailable {
					state = DayPending
				}
			}
		}
		days = append(days, DayStatus{Date: d, Status: state})
	}
	return days, nil
}
