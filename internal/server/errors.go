package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/ports"
)

// ErrorResponse is the body of every non-2xx API reply.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// Error codes
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
)

// writeError writes error response
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, statusCode int,
	code, message string, retryable bool, details map[string]any) {

	id := requestID(r)
	if id == "" {
		id = uuid.New().String()
	}

	s.respondJSON(w, statusCode, ErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: id,
		Timestamp: s.now().UTC(),
		Retryable: retryable,
	})
}

// writeDomainError maps a domain error to its HTTP status.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	details := map[string]any{"error": err.Error()}
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		s.writeError(w, r, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge,
			"Request body too large", false, map[string]any{"limit": tooLarge.Limit})
	case errors.Is(err, domain.ErrInvalidProblem):
		s.writeError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest,
			"Invalid problem", false, details)
	case errors.Is(err, domain.ErrTaskNotFound):
		s.writeError(w, r, http.StatusNotFound, ErrCodeNotFound,
			"Task not found", false, nil)
	case errors.Is(err, domain.ErrQueueClosed):
		s.writeError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Service is shutting down", true, nil)
	default:
		s.logger.Error("request failed", ports.String("request_id", requestID(r)), ports.Err(err))
		s.writeError(w, r, http.StatusInternalServerError, ErrCodeInternalError,
			"Internal server error", true, nil)
	}
}
