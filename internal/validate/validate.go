// Package validate applies field-level and business-rule checks to a
// reservation draft. Every check runs independently so a single submission
// surfaces all of its problems at once.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"helmsman/internal/conflict"
	"helmsman/internal/interval"
	"helmsman/internal/models"
	"helmsman/internal/rules"
)

// Field keys used in Result.Errors and Result.Suggestions.
const (
	FieldCustomerName = "customer_name"
	FieldYachtID      = "yacht_id"
	FieldEmail        = "customer_email"
	FieldPhone        = "customer_phone"
	FieldStart        = "start_datetime"
	FieldEnd          = "end_datetime"
	FieldTotalValue   = "total_value"
	FieldDeposit      = "deposit_amount"
	FieldGuestCount   = "guest_count"
	FieldDates        = "dates"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?)+$`)
	phonePattern = regexp.MustCompile(`^\+[0-9]{7,15}$`)
)

// Result is the merged outcome of a validation pass. It is a fresh value on
// every call; re-running after a field edit never accumulates stale errors.
type Result struct {
	Valid       bool              `json:"is_valid"`
	Errors      map[string]string `json:"errors,omitempty"`
	Warnings    []string          `json:"warnings,omitempty"`
	Suggestions map[string]string `json:"suggestions,omitempty"`
}

// Options supplies the collaborators a full validation pass needs.
type Options struct {
	// Yacht, when known, drives capacity and per-yacht minimum duration.
	Yacht *models.Yacht
	// Existing reservations enable the conflict check; nil skips it.
	Existing []*models.Reservation
	// ExcludeSameDay is forwarded to the conflict engine.
	ExcludeSameDay bool
}

// Validator checks reservation drafts against a booking policy. The clock is
// injected so advance-notice rules are testable.
type Validator struct {
	Rules rules.Rules
	Now   func() time.Time
}

// New returns a Validator over the given policy using the wall clock.
func New(r rules.Rules) *Validator {
	return &Validator{Rules: r, Now: time.Now}
}

// Validate runs every check against the draft and merges the outcomes.
// The draft is never mutated.
func (v *Validator) Validate(draft *models.Reservation, opts Options) Result {
	res := Result{
		Errors:      make(map[string]string),
		Warnings:    nil,
		Suggestions: make(map[string]string),
	}
	if draft == nil {
		res.Errors[FieldYachtID] = "reservation draft is required"
		return res
	}

	v.checkRequired(draft, &res)
	v.checkContact(draft, &res)

	datesOK := v.checkDates(draft, &res)
	if datesOK {
		v.checkDuration(draft, opts.Yacht, &res)
		v.checkAdvanceNotice(draft, &res)
		v.checkBlackouts(draft, &res)
		if opts.Existing != nil {
			v.checkConflicts(draft, opts, &res)
		}
	}

	v.checkFinancials(draft, &res)
	v.checkCapacity(draft, opts.Yacht, &res)

	res.Valid = len(res.Errors) == 0
	return res
}

func (v *Validator) checkRequired(draft *models.Reservation, res *Result) {
	if strings.TrimSpace(draft.CustomerName) == "" {
		res.Errors[FieldCustomerName] = "customer name is required"
	}
	if draft.YachtID == "" {
		res.Errors[FieldYachtID] = "yacht is required"
	}
}

func (v *Validator) checkContact(draft *models.Reservation, res *Result) {
	email := strings.TrimSpace(draft.CustomerEmail)
	switch {
	case email == "":
		res.Errors[FieldEmail] = "email is required"
	case !emailPattern.MatchString(email):
		res.Errors[FieldEmail] = "invalid email address"
	}

	if phone := strings.TrimSpace(draft.CustomerPhone); phone != "" && !phonePattern.MatchString(phone) {
		res.Errors[FieldPhone] = "phone must be in international format, e.g. +35712345678"
	}
}

// checkDates verifies both timestamps are present and ordered. Returns false
// when the range is unusable so dependent checks are skipped.
func (v *Validator) checkDates(draft *models.Reservation, res *Result) bool {
	ok := true
	if draft.Start.IsZero() {
		res.Errors[FieldStart] = "start date and time are required"
		ok = false
	}
	if draft.End.IsZero() {
		res.Errors[FieldEnd] = "end date and time are required"
		ok = false
	}
	if ok && !draft.Start.Before(draft.End) {
		res.Errors[FieldEnd] = "end must be after start"
		ok = false
	}
	return ok
}

func (v *Validator) checkDuration(draft *models.Reservation, yacht *models.Yacht, res *Result) {
	minHours := v.Rules.ResolveMinHours(draft.YachtID)
	if yacht != nil && yacht.MinBookingHours > 0 {
		minHours = yacht.MinBookingHours
	}

	hours := interval.DurationHours(draft.Start, draft.End)
	if hours < minHours {
		res.Errors[FieldEnd] = fmt.Sprintf("minimum charter duration is %.0f hours", minHours)
		suggested := draft.Start.Add(time.Duration(minHours * float64(time.Hour)))
		res.Suggestions[FieldEnd] = suggested.Format(time.RFC3339)
	}

	if days := interval.DurationDays(draft.Start, draft.End); days > v.Rules.MaxBookingDays {
		res.Errors[FieldEnd] = fmt.Sprintf("maximum charter duration is %d days", v.Rules.MaxBookingDays)
	}
}

func (v *Validator) checkAdvanceNotice(draft *models.Reservation, res *Result) {
	now := v.Now()
	if interval.DurationHours(now, draft.Start) < v.Rules.MinAdvanceNoticeHours {
		res.Errors[FieldStart] = fmt.Sprintf("bookings require at least %.0f hours advance notice", v.Rules.MinAdvanceNoticeHours)
		return
	}
	if interval.DurationDays(now, draft.Start) > v.Rules.MaxAdvanceBookingDays {
		res.Errors[FieldStart] = fmt.Sprintf("bookings cannot be made more than %d days ahead", v.Rules.MaxAdvanceBookingDays)
	}
}

func (v *Validator) checkBlackouts(draft *models.Reservation, res *Result) {
	hits := v.Rules.BlackoutsOverlapping(draft.Start, draft.End)
	if len(hits) == 0 {
		return
	}
	reasons := make([]string, len(hits))
	for i, b := range hits {
		reasons[i] = b.Reason
	}
	res.Errors[FieldDates] = "dates overlap blackout period(s): " + strings.Join(reasons, ", ")
}

func (v *Validator) checkFinancials(draft *models.Reservation, res *Result) {
	if draft.TotalValue == 0 && draft.DepositAmount == 0 {
		return
	}

	if draft.TotalValue < v.Rules.MinTotalValue {
		res.Errors[FieldTotalValue] = fmt.Sprintf("minimum charter value is %.0f", v.Rules.MinTotalValue)
	}
	if draft.DepositAmount < 0 {
		res.Errors[FieldDeposit] = "deposit cannot be negative"
		return
	}
	if draft.TotalValue <= 0 {
		return
	}
	if draft.DepositAmount > draft.TotalValue {
		res.Errors[FieldDeposit] = "deposit cannot exceed the total value"
		return
	}

	pct := draft.DepositAmount / draft.TotalValue * 100
	switch {
	case pct > v.Rules.MaxDepositPercent:
		res.Errors[FieldDeposit] = fmt.Sprintf("deposit cannot exceed %.0f%% of the total value", v.Rules.MaxDepositPercent)
	case pct < v.Rules.MinDepositPercent:
		res.Warnings = append(res.Warnings, fmt.Sprintf("deposit is %.1f%%, minimum recommended is %.0f%%", pct, v.Rules.MinDepositPercent))
	}
}

func (v *Validator) checkCapacity(draft *models.Reservation, yacht *models.Yacht, res *Result) {
	if draft.GuestCount <= 0 {
		return
	}
	max := v.Rules.DefaultMaxGuests
	if yacht != nil {
		max = v.Rules.ResolveMaxGuests(yacht.MaxGuests)
	}
	if draft.GuestCount > max {
		res.Errors[FieldGuestCount] = fmt.Sprintf("guest count exceeds capacity of %d", max)
	}
}

func (v *Validator) checkConflicts(draft *models.Reservation, opts Options, res *Result) {
	check, err := conflict.Check(draft, opts.Existing, conflict.Options{ExcludeSameDay: opts.ExcludeSameDay})
	if err != nil {
		res.Errors[FieldDates] = "could not check availability: " + err.Error()
		return
	}
	if !check.HasConflicts {
		return
	}

	var blocking []string
	for _, c := range check.Conflicts {
		if c.Severity == conflict.SeverityHigh {
			blocking = append(blocking, c.Reason)
		} else {
			res.Warnings = append(res.Warnings, c.Reason+" (override required)")
		}
	}
	if len(blocking) > 0 {
		sort.Strings(blocking)
		res.Errors[FieldDates] = strings.Join(blocking, "; ")
	}
}
