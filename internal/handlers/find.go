package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nomnom-app/nomnom/internal/media"
)

// HandleFind consumes a list of tags and fetches matching images from the
// media host. An asset matches when it carries at least one of the tags.
func (h *Handler) HandleFind(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "No tags were selected", http.StatusBadRequest)
		return
	}

	assets, err := h.search.Find(r.Context(), request.Tags)
	if err != nil {
		h.writeGatewayError(w, err, "Failed to fetch images")
		return
	}
	if assets == nil {
		assets = []media.Asset{}
	}

	h.writeJSON(w, assets)
}

// HandleTags returns the full tag catalog snapshot used to seed autocomplete.
func (h *Handler) HandleTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tagList, err := h.catalog.All(r.Context())
	if err != nil {
		h.writeError(w, "Failed to retrieve tags", http.StatusInternalServerError)
		return
	}
	if tagList == nil {
		tagList = []string{}
	}

	h.writeJSON(w, tagList)
}
