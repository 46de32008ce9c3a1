package domain

import (
	"fmt"
	"math"
)

// Fallback values for fields missing from a raw recommendation block.
const (
	FallbackDescription = "No description available"
	FallbackLocation    = "Location not specified"
	FallbackDate        = "Date not specified"
)

// NoEventsMessage is shown when a valid request yields zero events.
const NoEventsMessage = "No events found in your area. Try adjusting your zip code."

type StructuredRecommendation struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Date            string   `json:"date"`
	Location        string   `json:"location"`
	Price           string   `json:"price,omitempty"`
	Categories      []string `json:"categories,omitempty"`
	URL             string   `json:"url,omitempty"`
	RelevanceScore  *float64 `json:"relevance_score,omitempty"`
	Reasoning       string   `json:"reasoning,omitempty"`
	Personalization string   `json:"personalization,omitempty"`
}

// RelevancePercent renders the relevance score as an integer percentage,
// clamped to 0-100 after rounding. Empty string when no score is set.
func (r StructuredRecommendation) RelevancePercent() string {
	if r.RelevanceScore == nil {
		return ""
	}
	pct := int(math.Round(*r.RelevanceScore * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return fmt.Sprintf("%d%%", pct)
}

type RecommendationMeta struct {
	CacheHit    bool   `json:"cache_hit"`
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
}

type RecommendationResult struct {
	Records  []StructuredRecommendation
	RawText  string
	CacheHit bool
}

// Preferences are the only persisted user state: a flat key-value pair
// of zip code and ordered interest list, overwritten on every change.
type Preferences struct {
	ZipCode   string   `json:"zip_code"`
	Interests []string `json:"interests"`
}
