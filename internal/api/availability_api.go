package api

import (
	"fmt"
	"net/http"
	"time"

	"helmsman/internal/metrics"
)

const (
	// MaxAvailabilityDaysRange is the maximum number of days allowed in an
	// availability request.
	MaxAvailabilityDaysRange = 90
)

// AvailabilityRequest is the request body for POST /api/availability.
type AvailabilityRequest struct {
	StartDate string   `json:"start_date"`          // Format: YYYY-MM-DD
	EndDate   string   `json:"end_date"`            // Format: YYYY-MM-DD
	YachtIDs  []string `json:"yacht_ids,omitempty"` // Optional: filter by yacht
}

// DayAvailability represents availability for a single date.
type DayAvailability struct {
	Date   string `json:"date"`
	Status string `json:"status"` // available, confirmed, pending, maintenance
}

// YachtAvailability represents a yacht with its availability per date.
type YachtAvailability struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	MaxGuests    int               `json:"max_guests"`
	Availability []DayAvailability `json:"availability"`
}

// AvailabilityResponse is the response for POST /api/availability.
type AvailabilityResponse struct {
	Yachts []YachtAvailability `json:"yachts"`
	Period struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// handleAvailability returns day-by-day availability for the fleet.
// POST /api/availability
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	req, ok := decodeBody[AvailabilityRequest](w, r)
	if !ok {
		return
	}

	start, end, err := validateAvailabilityRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cacheKey := fmt.Sprintf("availability:%s:%s:%v", req.StartDate, req.EndDate, req.YachtIDs)
	var response AvailabilityResponse
	if s.cache.GetJSON(r.Context(), cacheKey, &response) {
		writeJSON(w, http.StatusOK, response)
		return
	}

	for _, yacht := range s.svc.Yachts() {
		if !yacht.IsActive || !yachtRequested(yacht.ID, req.YachtIDs) {
			continue
		}

		days, err := s.svc.RangeAvailability(r.Context(), yacht.ID, start, end)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "availability lookup failed")
			return
		}

		availability := make([]DayAvailability, len(days))
		for i, d := range days {
			availability[i] = DayAvailability{
				Date:   d.Date.Format("2006-01-02"),
				Status: string(d.Status),
			}
		}
		response.Yachts = append(response.Yachts, YachtAvailability{
			ID:           yacht.ID,
			Name:         yacht.Name,
			MaxGuests:    yacht.MaxGuests,
			Availability: availability,
		})
	}

	response.Period.Start = req.StartDate
	response.Period.End = req.EndDate

	s.cache.SetJSON(r.Context(), cacheKey, response)
	writeJSON(w, http.StatusOK, response)
}

func validateAvailabilityRequest(req *AvailabilityRequest) (start, end time.Time, err error) {
	if req.StartDate == "" || req.EndDate == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date and end_date are required")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format; expected YYYY-MM-DD")
	}

	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format; expected YYYY-MM-DD")
	}

	if !startDate.Before(endDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must be before end_date")
	}

	days := int(endDate.Sub(startDate).Hours() / 24)
	if days > MaxAvailabilityDaysRange {
		return time.Time{}, time.Time{}, fmt.Errorf("date range exceeds maximum of 90 days")
	}

	return startDate, endDate, nil
}

func yachtRequested(id string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if f == id {
			return true
		}
	}
	return false
}
