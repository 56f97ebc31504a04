package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"helmsman/internal/metrics"
	"helmsman/internal/models"
	"helmsman/internal/service"
)

// ReservationRequest is the draft submitted by the dashboard for both the
// dry-run check and the actual create.
type ReservationRequest struct {
	YachtID        string  `json:"yacht_id"`
	StartDatetime  string  `json:"start_datetime"` // RFC 3339
	EndDatetime    string  `json:"end_datetime"`   // RFC 3339
	CustomerName   string  `json:"customer_name"`
	CustomerEmail  string  `json:"customer_email"`
	CustomerPhone  string  `json:"customer_phone,omitempty"`
	TotalValue     float64 `json:"total_value,omitempty"`
	DepositAmount  float64 `json:"deposit_amount,omitempty"`
	GuestCount     int     `json:"guest_count,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	ExcludeSameDay bool    `json:"exclude_same_day,omitempty"`
	Override       bool    `json:"override,omitempty"`
}

// CheckResponse carries the full plan back to the dashboard.
type CheckResponse struct {
	Plan *service.Plan `json:"plan"`
}

// CreateResponse is the response for POST /api/reservations.
type CreateResponse struct {
	Success       bool          `json:"success"`
	ReservationID string        `json:"reservation_id,omitempty"`
	Plan          *service.Plan `json:"plan,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// handleCheckReservation runs validation, conflict detection and suggestion
// generation without persisting anything.
// POST /api/reservations/check
func (s *HTTPServer) handleCheckReservation(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reservations_check")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	req, ok := decodeBody[ReservationRequest](w, r)
	if !ok {
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := s.svc.PlanReservation(r.Context(), draft, service.Options{ExcludeSameDay: req.ExcludeSameDay})
	if err != nil {
		s.logger.Error().Err(err).Msg("plan reservation failed")
		writeError(w, http.StatusInternalServerError, "could not evaluate reservation")
		return
	}

	writeJSON(w, http.StatusOK, CheckResponse{Plan: plan})
}

// handleCreateReservation persists a reservation when its plan is clean.
// POST /api/reservations
func (s *HTTPServer) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reservations_create")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	req, ok := decodeBody[ReservationRequest](w, r)
	if !ok {
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := s.svc.CreateReservation(r.Context(), draft, service.Options{
		ExcludeSameDay: req.ExcludeSameDay,
		Override:       req.Override,
	})
	if errors.Is(err, service.ErrNotBookable) {
		writeJSON(w, http.StatusConflict, CreateResponse{
			Success: false,
			Plan:    plan,
			Error:   "reservation is not bookable as requested",
		})
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("create reservation failed")
		writeError(w, http.StatusInternalServerError, "could not create reservation")
		return
	}

	writeJSON(w, http.StatusCreated, CreateResponse{
		Success:       true,
		ReservationID: draft.ID,
		Plan:          plan,
	})
}

// toDraft converts the wire request into a reservation draft. Only the
// timestamps are parsed here; field validation belongs to the validator.
func (r *ReservationRequest) toDraft() (*models.Reservation, error) {
	draft := &models.Reservation{
		YachtID:       r.YachtID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		TotalValue:    r.TotalValue,
		DepositAmount: r.DepositAmount,
		GuestCount:    r.GuestCount,
		Notes:         r.Notes,
	}

	if r.StartDatetime != "" {
		start, err := time.Parse(time.RFC3339, r.StartDatetime)
		if err != nil {
			return nil, fmt.Errorf("invalid start_datetime; expected RFC 3339")
		}
		draft.Start = start
	}
	if r.EndDatetime != "" {
		end, err := time.Parse(time.RFC3339, r.EndDatetime)
		if err != nil {
			return nil, fmt.Errorf("invalid end_datetime; expected RFC 3339")
		}
		draft.End = end
	}
	return draft, nil
}
