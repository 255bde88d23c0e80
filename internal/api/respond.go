package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/brandpulse/social-insights/internal/cms"
	"github.com/brandpulse/social-insights/internal/resolver"
	"github.com/brandpulse/social-insights/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

// writeRaw writes a pre-marshaled JSON document verbatim, used for stored
// snapshot bytes.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondError maps service-layer errors onto HTTP statuses. Unknown errors
// become opaque 500s; the detail goes to the log, not the client.
func respondError(w http.ResponseWriter, err error) {
	var notFound *resolver.EntityNotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, notFound.Error())
		return
	}

	var invalid *cms.ValidationError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: invalid.Error(), Field: invalid.Field})
		return
	}

	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	logrus.Errorf("Request failed: %v", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
