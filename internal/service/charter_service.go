// Package service wires the pure booking engine to storage, events, metrics
// and notifications.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"helmsman/internal/conflict"
	"helmsman/internal/events"
	"helmsman/internal/metrics"
	"helmsman/internal/models"
	"helmsman/internal/report"
	"helmsman/internal/rules"
	"helmsman/internal/suggest"
	"helmsman/internal/validate"
)

// Repository is the storage surface the service needs.
type Repository interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	ListReservationsForYacht(ctx context.Context, yachtID string) ([]*models.Reservation, error)
	ListReservationsInRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id string, version int64, status models.Status) error
	GetYachtByID(id string) (*models.Yacht, error)
	GetYachts() []*models.Yacht
}

// EventBus publishes reservation lifecycle events.
type EventBus interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Notifier pushes booking alerts to the charter office.
type Notifier interface {
	ReservationCreated(ctx context.Context, r *models.Reservation, yachtName string) error
	ConflictOverridden(ctx context.Context, r *models.Reservation, bumpedID string) error
}

// ErrNotBookable is returned when a plan carries validation errors or a
// blocking conflict; the plan itself explains why.
var ErrNotBookable = errors.New("reservation is not bookable")

// Plan is the combined decision for one candidate reservation.
type Plan struct {
	Validation  validate.Result `json:"validation"`
	Conflicts   conflict.Result `json:"conflicts"`
	Suggestions *suggest.Set    `json:"suggestions,omitempty"`
}

// Bookable reports whether the candidate can be persisted as-is.
func (p *Plan) Bookable() bool {
	return p.Validation.Valid && p.Conflicts.Available
}

// CharterService drives the validate → conflict → suggest pipeline.
type CharterService struct {
	repo      Repository
	bus       EventBus
	notifier  Notifier
	validator *validate.Validator
	logger    *zerolog.Logger
}

// Options tunes a single planning call.
type Options struct {
	ExcludeSameDay bool
	// Override books over medium-severity conflicts after explicit caller
	// confirmation. Blocking conflicts are never overridable.
	Override bool
}

// New creates a CharterService. notifier may be nil.
func New(repo Repository, bus EventBus, notifier Notifier, r rules.Rules, logger *zerolog.Logger) *CharterService {
	return &CharterService{
		repo:      repo,
		bus:       bus,
		notifier:  notifier,
		validator: validate.New(r),
		logger:    logger,
	}
}

// PlanReservation runs the full pipeline without persisting anything.
func (s *CharterService) PlanReservation(ctx context.Context, draft *models.Reservation, opts Options) (*Plan, error) {
	if draft == nil {
		return nil, fmt.Errorf("plan: %w", conflict.ErrInvalidInput)
	}

	var yacht *models.Yacht
	if draft.YachtID != "" {
		if y, err := s.repo.GetYachtByID(draft.YachtID); err == nil {
			yacht = y
		}
	}

	var existing []*models.Reservation
	if draft.YachtID != "" {
		list, err := s.repo.ListReservationsForYacht(ctx, draft.YachtID)
		if err != nil {
			return nil, fmt.Errorf("load reservations: %w", err)
		}
		existing = list
	}

	plan := &Plan{}
	plan.Validation = s.validator.Validate(draft, validate.Options{
		Yacht:          yacht,
		ExcludeSameDay: opts.ExcludeSameDay,
	})
	outcome := "valid"
	if !plan.Validation.Valid {
		outcome = "invalid"
	}
	metrics.IncValidation(outcome)

	if draft.YachtID != "" && !draft.Start.IsZero() && !draft.End.IsZero() && draft.Start.Before(draft.End) {
		res, err := conflict.Check(draft, existing, conflict.Options{ExcludeSameDay: opts.ExcludeSameDay})
		if err != nil {
			return nil, err
		}
		plan.Conflicts = res
		for _, c := range res.Conflicts {
			metrics.IncConflictDetected(string(c.Severity))
		}

		if !res.Available {
			// Suggestions look across the whole fleet and up to the search
			// horizon either side, so a same-yacht snapshot is not enough.
			window, err := s.repo.ListReservationsInRange(ctx,
				draft.Start.AddDate(0, 0, -(suggest.HorizonDays+1)),
				draft.End.AddDate(0, 0, suggest.HorizonDays+1))
			if err != nil {
				return nil, fmt.Errorf("load reservations: %w", err)
			}
			set, err := suggest.Suggest(draft, window, s.repo.GetYachts())
			if err != nil {
				return nil, err
			}
			plan.Suggestions = &set
			if len(set.AlternativeDates) > 0 {
				metrics.IncSuggestionServed("alternative_dates")
			}
			if len(set.AlternativeYachts) > 0 {
				metrics.IncSuggestionServed("alternative_yachts")
			}
			if len(set.NearbySlots) > 0 {
				metrics.IncSuggestionServed("nearby_slots")
			}
		}
	} else {
		// Dates unusable; the validation result already carries the errors.
		plan.Conflicts = conflict.Result{Available: false}
	}

	return plan, nil
}

// CreateReservation plans the draft and persists it when clean. A medium
// conflict can be booked over with opts.Override; the bumped hold is
// reported to the office.
func (s *CharterService) CreateReservation(ctx context.Context, draft *models.Reservation, opts Options) (*Plan, error) {
	plan, err := s.PlanReservation(ctx, draft, opts)
	if err != nil {
		return nil, err
	}

	if !plan.Validation.Valid || !plan.Conflicts.Available {
		return plan, ErrNotBookable
	}
	if plan.Conflicts.HasConflicts && !opts.Override {
		// Only medium, overridable conflicts remain here.
		return plan, ErrNotBookable
	}

	if draft.Status == "" {
		draft.Status = models.StatusPending
	}
	if err := s.repo.CreateReservation(ctx, draft); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	metrics.IncReservationCreated(string(draft.Status))
	s.publish(events.TypeReservationCreated, draft)

	yachtName := draft.YachtID
	if y, err := s.repo.GetYachtByID(draft.YachtID); err == nil {
		yachtName = y.Name
	}
	if s.notifier != nil {
		if err := s.notifier.ReservationCreated(ctx, draft, yachtName); err != nil {
			s.logger.Error().Err(err).Str("reservation_id", draft.ID).Msg("notify create failed")
		}
	}
	if plan.Conflicts.HasConflicts && opts.Override {
		for _, c := range plan.Conflicts.Conflicts {
			if c.With == nil {
				continue
			}
			s.publish(events.TypeConflictOverridden, draft)
			if s.notifier != nil {
				if err := s.notifier.ConflictOverridden(ctx, draft, c.With.ID); err != nil {
					s.logger.Error().Err(err).Msg("notify override failed")
				}
			}
		}
	}

	s.logger.Info().
		Str("reservation_id", draft.ID).
		Str("yacht_id", draft.YachtID).
		Time("start", draft.Start).
		Time("end", draft.End).
		Msg("reservation created")
	return plan, nil
}

// ConfirmReservation moves a reservation to confirmed.
func (s *CharterService) ConfirmReservation(ctx context.Context, id string, version int64) error {
	if err := s.repo.UpdateReservationStatus(ctx, id, version, models.StatusConfirmed); err != nil {
		return err
	}
	if r, err := s.repo.GetReservation(ctx, id); err == nil {
		s.publish(events.TypeReservationConfirmed, r)
	}
	return nil
}

// CancelReservation releases a reservation's dates.
func (s *CharterService) CancelReservation(ctx context.Context, id string, version int64) error {
	if err := s.repo.UpdateReservationStatus(ctx, id, version, models.StatusCancelled); err != nil {
		return err
	}
	if r, err := s.repo.GetReservation(ctx, id); err == nil {
		s.publish(events.TypeReservationCancelled, r)
	}
	return nil
}

// Yachts returns the fleet in display order.
func (s *CharterService) Yachts() []*models.Yacht {
	return s.repo.GetYachts()
}

// ExportManifest writes the reservation book for the period to w as an
// xlsx workbook, one sheet per yacht.
func (s *CharterService) ExportManifest(ctx context.Context, w io.Writer, start, end time.Time) error {
	reservations, err := s.repo.ListReservationsInRange(ctx, start, end)
	if err != nil {
		return fmt.Errorf("load reservations: %w", err)
	}
	return report.WriteManifest(w, s.repo.GetYachts(), reservations)
}

// RangeAvailability returns the day-by-day calendar for one yacht.
func (s *CharterService) RangeAvailability(ctx context.Context, yachtID string, start, end time.Time) ([]conflict.DayStatus, error) {
	existing, err := s.repo.ListReservationsForYacht(ctx, yachtID)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	return conflict.RangeAvailability(start, end, yachtID, existing)
}

func (s *CharterService) publish(eventType string, payload interface{}) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("publish failed")
	}
}
