package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/bft-labs/knapsack/internal/ports"
)

// respondJSON writes data as JSON with statusCode.
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// Serialize first to detect errors before writing headers
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		s.logger.Error("json encoding failed", ports.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("response write failed", ports.Err(err))
	}
}
