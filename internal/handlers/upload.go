package handlers

import (
	"io"
	"net/http"

	"github.com/nomnom-app/nomnom/internal/gateway"
)

// HandleUpload consumes a multipart image and optional comma-separated tags
// and stores the image in the media host.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.writeError(w, "No image uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Read one byte past the cap so the gateway can tell an at-limit file
	// from an oversized one.
	data, err := io.ReadAll(io.LimitReader(file, gateway.MaxFileSize+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents", http.StatusInternalServerError)
		return
	}

	result, err := h.upload.Upload(r.Context(), data, header.Filename, header.Header.Get("Content-Type"), r.FormValue("tags"))
	if err != nil {
		h.writeGatewayError(w, err, "Failed to upload image")
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"message":   "Upload successful",
		"imageUrl":  result.URL,
		"tags":      result.Tags,
		"public_id": result.PublicID,
	})
}
