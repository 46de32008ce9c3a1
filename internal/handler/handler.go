package handler

import (
	"encoding/json"
	"net/http"

	"eventfinder/internal/geocode"
	"eventfinder/internal/service"
)

// Response format deployment variants: the recommendations field is
// either a raw text blob or a structured list.
const (
	FormatText       = "text"
	FormatStructured = "structured"
)

type Handler struct {
	service        *service.Service
	geocoder       *geocode.Client
	responseFormat string
}

func NewHandler(svc *service.Service, geocoder *geocode.Client, responseFormat string) *Handler {
	if responseFormat != FormatStructured {
		responseFormat = FormatText
	}
	return &Handler{
		service:        svc,
		geocoder:       geocoder,
		responseFormat: responseFormat,
	}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
