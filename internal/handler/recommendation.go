package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"eventfinder/internal/domain"
)

// POST /api/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	result, err := h.service.GetRecommendations(r.Context(), req.ZipCode, req.Interests)
	if err != nil {
		if errors.Is(err, domain.ErrMissingParameters) {
			writeError(w, http.StatusBadRequest, "missing_parameters", "Missing required parameters")
			return
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	resp := RecommendationResponse{
		ZipCode: req.ZipCode,
		Metadata: domain.RecommendationMeta{
			CacheHit:    result.CacheHit,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(result.Records),
		},
	}

	// Zero recommendations is reported as its own message, not an error.
	if len(result.Records) == 0 {
		resp.Message = domain.NoEventsMessage
	}

	if h.responseFormat == FormatStructured {
		resp.Recommendations = result.Records
		if result.Records == nil {
			resp.Recommendations = []domain.StructuredRecommendation{}
		}
	} else {
		resp.Recommendations = result.RawText
	}

	writeJSON(w, http.StatusOK, resp)
}
