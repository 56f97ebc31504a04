// Package api exposes the booking engine over HTTP for the dashboard
// front-end.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"helmsman/internal/cache"
	"helmsman/internal/service"
)

// HTTPServer serves the booking API.
type HTTPServer struct {
	svc    *service.CharterService
	cache  *cache.Cache
	logger *zerolog.Logger
	apiKey string

	server *http.Server

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPServer wires the routes. cache may be nil; apiKey empty disables
// the key check (local development).
func NewHTTPServer(svc *service.CharterService, c *cache.Cache, apiKey string, port int, logger *zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		svc:      svc,
		cache:    c,
		logger:   logger,
		apiKey:   apiKey,
		limiters: make(map[string]*rate.Limiter),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/availability", s.protect(s.handleAvailability))
	mux.HandleFunc("/api/reservations/check", s.protect(s.handleCheckReservation))
	mux.HandleFunc("/api/reservations", s.protect(s.handleCreateReservation))
	mux.HandleFunc("/api/reports/manifest", s.protect(s.handleManifestExport))

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving the API.
func (s *HTTPServer) ListenAndServe() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("API server listening")
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// protect applies the API key check and per-client rate limit.
func (s *HTTPServer) protect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("X-API-Key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		if !s.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

// allow enforces a small token bucket per client address.
func (s *HTTPServer) allow(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(10), 30)
		s.limiters[ip] = limiter
	}
	return limiter.Allow()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody parses a JSON request body, rejecting unknown fields. On
// failure it writes the error response and returns ok=false.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var body T
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return body, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
