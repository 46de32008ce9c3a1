package handler

import (
	"errors"
	"net/http"
	"strconv"

	"eventfinder/internal/domain"
)

// GET /api/location/zip?lat=<lat>&lon=<lon>
//
// A single reverse-geocoding attempt; failure is terminal for this
// request cycle and the caller retries manually.
func (h *Handler) ResolveZip(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid lat/lon parameters")
		return
	}

	zipCode, err := h.geocoder.ReverseZip(r.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, domain.ErrZipNotFound) {
			writeError(w, http.StatusNotFound, "zip_not_found", "ZIP code not found")
			return
		}
		writeError(w, http.StatusBadGateway, "geocode_unavailable", "Reverse geocoding failed")
		return
	}

	writeJSON(w, http.StatusOK, ZipResponse{ZipCode: zipCode})
}
