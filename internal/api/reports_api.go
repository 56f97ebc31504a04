package api

import (
	"net/http"
	"time"

	"helmsman/internal/metrics"
)

// handleManifestExport streams the reservation book for a period as an
// xlsx download.
// GET /api/reports/manifest?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (s *HTTPServer) handleManifestExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reports_manifest")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	q := r.URL.Query()
	start, err := time.Parse("2006-01-02", q.Get("start_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date format; expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", q.Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date format; expected YYYY-MM-DD")
		return
	}
	if !start.Before(end) {
		writeError(w, http.StatusBadRequest, "start_date must be before end_date")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="manifest.xlsx"`)
	if err := s.svc.ExportManifest(r.Context(), w, start, end.AddDate(0, 0, 1)); err != nil {
		s.logger.Error().Err(err).Msg("manifest export failed")
	}
}
