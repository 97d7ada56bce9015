package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/driftwatch/driftwatch/internal/correction"
	"github.com/driftwatch/driftwatch/internal/drift"
	"github.com/driftwatch/driftwatch/internal/engine"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeCheckError maps engine/monitor failures onto HTTP statuses: schema
// mismatches are unprocessable input, configuration errors are bad requests,
// a full queue is backpressure, anything else is internal.
func writeCheckError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, drift.ErrSchemaMismatch):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, correction.ErrInvalidConfiguration):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
