package handler

import "eventfinder/internal/domain"

type RecommendationRequest struct {
	ZipCode   string   `json:"zip_code"`
	Interests []string `json:"interests"`
}

// RecommendationResponse carries either a raw text blob or a
// structured list in Recommendations, depending on deployment variant.
type RecommendationResponse struct {
	ZipCode         string                    `json:"zip_code"`
	Recommendations any                       `json:"recommendations"`
	Message         string                    `json:"message,omitempty"`
	Metadata        domain.RecommendationMeta `json:"metadata"`
}

type ZipResponse struct {
	ZipCode string `json:"zip_code"`
}

type HealthResponse struct {
	Status        string   `json:"status"`
	ActiveSources []string `json:"active_sources"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
