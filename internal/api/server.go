// Package api provides the HTTP server for Moodlift. It exposes the
// schedule, statistics, activity-recording, and coach endpoints consumed
// by the mobile client.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moodlift/moodlift/internal/app/account"
	"github.com/moodlift/moodlift/internal/app/coach"
	"github.com/moodlift/moodlift/internal/app/schedule"
	"github.com/moodlift/moodlift/internal/app/stats"
	"github.com/moodlift/moodlift/internal/health"
)

// Server is the Moodlift HTTP API server.
type Server struct {
	accounts       *account.Service
	schedules      *schedule.Cache
	statistics     *stats.Cache
	coach          *coach.Service
	recorder       *stats.Recorder
	health         *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server over the wired services.
func NewServer(accounts *account.Service, schedules *schedule.Cache, statistics *stats.Cache, coachSvc *coach.Service, recorder *stats.Recorder) *Server {
	return &Server{
		accounts:   accounts,
		schedules:  schedules,
		statistics: statistics,
		coach:      coachSvc,
		recorder:   recorder,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth attaches a health checker whose results back /health.
func (s *Server) SetHealth(h *health.Checker) { s.health = h }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		code := http.StatusOK
		body := map[string]interface{}{"status": "ok"}
		if s.health != nil {
			if !s.health.IsHealthy() {
				code = http.StatusServiceUnavailable
				body["status"] = "degraded"
			}
			body["checks"] = s.health.Statuses()
		}
		writeJSON(w, code, body)
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", s.handleSignup)
		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", s.handleGetUser)
			r.Get("/schedule", s.handleSchedule)
			r.Get("/stats", s.handleStats)
			r.Get("/coach", s.handleCoach)
			r.Post("/activities", s.handleRecordActivity)
			r.Post("/mood", s.handleRecordMood)
			r.Post("/completion", s.handleCompletion)
		})
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// Version is set by the daemon from the build version.
var Version = "dev"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the mobile client's webview and
// local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
