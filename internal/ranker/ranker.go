// Package ranker scores aggregated events against the user's interests
// with a deterministic lexical relevance model.
package ranker

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"eventfinder/internal/domain"
	"eventfinder/internal/normalizer"
)

const (
	defaultLimit = 10

	categoryWeight    = 0.5
	titleWeight       = 0.3
	descriptionWeight = 0.2

	// Events matching none of the interests still score a floor value
	// so sparse result sets are not empty.
	baselineScore = 0.1
)

type Ranker struct{}

func New() *Ranker {
	return &Ranker{}
}

type RankInput struct {
	Events    []domain.Event
	Interests []string
	Limit     int
}

// Rank scores every event, sorts descending and returns the top N as
// structured recommendations with reasoning and personalization notes.
func (r *Ranker) Rank(input RankInput) []domain.StructuredRecommendation {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	recs := make([]domain.StructuredRecommendation, 0, len(input.Events))
	for _, event := range input.Events {
		recs = append(recs, r.score(event, input.Interests))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return *recs[i].RelevanceScore > *recs[j].RelevanceScore
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

func (r *Ranker) score(event domain.Event, interests []string) domain.StructuredRecommendation {
	title := strings.ToLower(event.Name)
	description := strings.ToLower(event.Description)
	categories := make([]string, len(event.Categories))
	for i, c := range event.Categories {
		categories[i] = strings.ToLower(c)
	}

	best := baselineScore
	var matched []string
	for _, interest := range interests {
		needle := strings.ToLower(strings.TrimSpace(interest))
		if needle == "" {
			continue
		}

		score := 0.0
		if containsAny(categories, needle) {
			score += categoryWeight
		}
		if strings.Contains(title, needle) {
			score += titleWeight
		}
		if strings.Contains(description, needle) {
			score += descriptionWeight
		}
		if score > 0 {
			matched = append(matched, interest)
		}
		if score > best {
			best = score
		}
	}

	score := math.Round(best*1000) / 1000 // 3 decimal places

	description = event.Description
	if description == "" {
		description = domain.FallbackDescription
	}

	return domain.StructuredRecommendation{
		Title:           event.Name,
		Description:     description,
		Date:            event.Date,
		Location:        event.Location,
		Price:           event.Price,
		Categories:      normalizer.Dedupe(event.Categories),
		URL:             event.URL,
		RelevanceScore:  &score,
		Reasoning:       reasoning(event, score),
		Personalization: personalization(matched),
	}
}

func containsAny(categories []string, needle string) bool {
	for _, cat := range categories {
		if strings.Contains(cat, needle) || strings.Contains(needle, cat) {
			return true
		}
	}
	return false
}

func reasoning(event domain.Event, score float64) string {
	content := strings.Join(event.Categories, ", ")
	if content == "" {
		content = "general"
	}
	return fmt.Sprintf("This event matches your query based on its %s content with a relevance score of %.2f", content, score)
}

func personalization(matched []string) string {
	if len(matched) == 0 {
		return "This event might introduce you to new interests."
	}
	return "This event matches your interests in: " + strings.Join(normalizer.Dedupe(matched), ", ")
}
