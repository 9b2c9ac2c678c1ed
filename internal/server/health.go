package server

import (
	"net/http"
	"time"
)

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason,omitempty"`
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: s.now().UTC(),
	})
}

// handleReady handles GET /ready
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.readiness != nil {
		if ok, reason := s.readiness.Ready(); !ok {
			s.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:    "not_ready",
				Timestamp: s.now().UTC(),
				Reason:    reason,
			})
			return
		}
	}

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ready",
		Timestamp: s.now().UTC(),
	})
}
