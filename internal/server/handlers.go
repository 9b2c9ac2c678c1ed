package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/google/uuid"

	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/ports"
	"github.com/bft-labs/knapsack/internal/wire"
)

// handleSubmit handles POST /knapsack
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)

	p, err := decodeProblem(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	task := domain.NewTask(p, s.now())
	if err := s.store.Insert(r.Context(), task); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := s.queue.Publish(r.Context(), task.ID); err != nil {
		// No worker will see the task, so don't leave it behind as submitted.
		if derr := s.store.Delete(context.WithoutCancel(r.Context()), task.ID); derr != nil {
			s.logger.Error("dropping unqueued task failed",
				ports.String("task", task.ID.String()),
				ports.Err(derr),
			)
		}
		s.writeDomainError(w, r, fmt.Errorf("publish task: %w", err))
		return
	}
	tasksSubmitted.Inc()

	s.logger.Info("task submitted",
		ports.String("task", task.ID.String()),
		ports.String("request_id", requestID(r)),
		ports.Int("items", p.Len()),
		ports.Int("capacity", p.Capacity),
	)
	s.respondJSON(w, http.StatusOK, task)
}

// handleGetTask handles GET /knapsack/{id}
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest,
			"Invalid task id", false, map[string]any{"id": r.PathValue("id")})
		return
	}

	task, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, task)
}

func (s *Server) methodNotAllowed(allowed string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allowed)
		s.writeError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"allowed": allowed})
	}
}

// decodeProblem reads a problem from a JSON or form body.
// Malformed bodies are reported as domain.ErrInvalidProblem.
func decodeProblem(r *http.Request) (domain.Problem, error) {
	mediaType := wire.ContentTypeJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return domain.Problem{}, fmt.Errorf("%w: content type: %v", domain.ErrInvalidProblem, err)
		}
		mediaType = mt
	}

	var p domain.Problem
	switch mediaType {
	case wire.ContentTypeJSON:
		var env wire.Envelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			return domain.Problem{}, bodyError(err)
		}
		if env.Problem == nil {
			return domain.Problem{}, fmt.Errorf("%w: missing problem", domain.ErrInvalidProblem)
		}
		p = *env.Problem
	case wire.ContentTypeForm:
		if err := r.ParseForm(); err != nil {
			return domain.Problem{}, bodyError(err)
		}
		decoded, err := wire.DecodeForm(r.PostForm)
		if err != nil {
			return domain.Problem{}, err
		}
		p = decoded
	default:
		return domain.Problem{}, fmt.Errorf("%w: unsupported content type %q", domain.ErrInvalidProblem, mediaType)
	}

	if p.Weights == nil {
		p.Weights = []int{}
	}
	if p.Values == nil {
		p.Values = []int{}
	}
	if err := p.Validate(); err != nil {
		return domain.Problem{}, err
	}
	return p, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidProblem, err)
}
