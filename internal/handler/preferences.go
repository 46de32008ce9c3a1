package handler

import (
	"encoding/json"
	"net/http"

	"eventfinder/internal/domain"
)

// GET /api/preferences
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.service.LoadPreferences(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	if prefs.Interests == nil {
		prefs.Interests = []string{}
	}
	writeJSON(w, http.StatusOK, prefs)
}

// PUT /api/preferences
//
// Overwrites both persisted entries on every change; there is no
// history and no partial update.
func (h *Handler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs domain.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	if err := h.service.SavePreferences(r.Context(), prefs); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		ActiveSources: h.service.SourceNames(),
	})
}
