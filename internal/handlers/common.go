// Package handlers exposes the HTTP surface of the meme service: the tag
// catalog snapshot, tag search, and image upload.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nomnom-app/nomnom/internal/catalog"
	"github.com/nomnom-app/nomnom/internal/gateway"
	"github.com/nomnom-app/nomnom/internal/media"
)

type Handler struct {
	search  *gateway.Search
	upload  *gateway.Upload
	catalog catalog.Store
}

func New(store media.Store, cat catalog.Store) *Handler {
	return &Handler{
		search:  gateway.NewSearch(store),
		upload:  gateway.NewUpload(store, cat),
		catalog: cat,
	}
}

// Flush waits for background catalog bookkeeping to settle. Called during
// graceful shutdown.
func (h *Handler) Flush() {
	h.upload.Wait()
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("Unable to encode JSON error body", "err", err)
	}
}

// writeGatewayError maps the error taxonomy onto HTTP: validation failures
// surface their own message as a 400, everything else is the given 500
// fallback.
func (h *Handler) writeGatewayError(w http.ResponseWriter, err error, fallback string) {
	var verr *gateway.ValidationError
	if errors.As(err, &verr) {
		h.writeError(w, verr.Message, http.StatusBadRequest)
		return
	}
	slog.Error(fallback, "err", err)
	h.writeError(w, fallback, http.StatusInternalServerError)
}
