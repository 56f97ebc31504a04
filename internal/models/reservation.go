package models

import (
	"time"

	"helmsman/internal/interval"
)

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusPending             Status = "pending"
	StatusConfirmed           Status = "confirmed"
	StatusCancelled           Status = "cancelled"
	StatusCompleted           Status = "completed"
	StatusNoShow              Status = "no_show"
	StatusDepositPending      Status = "deposit_pending"
	StatusFinalPaymentPending Status = "final_payment_pending"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted,
		StatusNoShow, StatusDepositPending, StatusFinalPaymentPending:
		return true
	}
	return false
}

// Active reports whether the reservation still occupies its dates.
// Cancelled and no-show reservations release the yacht.
func (s Status) Active() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Tentative reports whether the reservation is a hold that a manager may
// choose to bump in favour of a firm booking.
func (s Status) Tentative() bool {
	switch s {
	case StatusPending, StatusDepositPending, StatusFinalPaymentPending:
		return true
	}
	return false
}

// Kind distinguishes charters from administrative blocks on the calendar.
type Kind string

const (
	KindCharter     Kind = "charter"
	KindMaintenance Kind = "maintenance"
	KindBlocked     Kind = "blocked"
)

// Blocking reports whether the kind represents an administrative hold that
// can never be overridden by a new charter.
func (k Kind) Blocking() bool {
	return k == KindMaintenance || k == KindBlocked
}

// Reservation is a charter booking record. A candidate reservation uses the
// same shape as a persisted one; only ID and the audit fields differ.
type Reservation struct {
	ID            string    `json:"id"`
	YachtID       string    `json:"yacht_id"`
	Start         time.Time `json:"start_datetime"`
	End           time.Time `json:"end_datetime"`
	Status        Status    `json:"status"`
	Kind          Kind      `json:"kind,omitempty"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	TotalValue    float64   `json:"total_value,omitempty"`
	DepositAmount float64   `json:"deposit_amount,omitempty"`
	GuestCount    int       `json:"guest_count,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
	Version       int64     `json:"version,omitempty"`
}

// Duration returns the length of the charter.
func (r *Reservation) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// OverlapsWith checks if this reservation overlaps with another one.
// Uses half-open interval [start, end) semantics - end boundary is exclusive.
func (r *Reservation) OverlapsWith(other *Reservation) bool {
	return interval.Overlap(r.Start, r.End, other.Start, other.End)
}

// ContainsDate checks if the reservation covers a specific calendar day.
func (r *Reservation) ContainsDate(date time.Time) bool {
	day := interval.DayStart(date)
	return interval.Overlap(r.Start, r.End, day, day.AddDate(0, 0, 1))
}

// CountsForConflicts reports whether the reservation participates in
// conflict detection at all.
func (r *Reservation) CountsForConflicts() bool {
	return r.Status.Active()
}
