package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/GophSignup/internal/models"
	"github.com/atinyakov/GophSignup/internal/service"
)

// RecordService defines the read access to the last accepted record.
type RecordService interface {
	// LastRecord returns the stored record or service.ErrNoRecord.
	LastRecord(context.Context) (*models.FormRecord, error)
}

// RecordHandler exposes the last accepted record as JSON.
type RecordHandler struct {
	// RecordService reads the stored record.
	RecordService RecordService
}

// LastRecord writes the record kept under the storage key, exactly as it is
// stored, including the password.
func (h *RecordHandler) LastRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.RecordService.LastRecord(r.Context())
	if errors.Is(err, service.ErrNoRecord) {
		http.Error(w, "no record", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(record); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Health reports that the server is up.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
