// Package events aggregates upcoming events from third-party
// event-listing APIs.
package events

import (
	"context"
	"strings"
	"time"

	"eventfinder/internal/domain"
)

// Source is one upstream event-listing API.
type Source interface {
	Name() string
	FetchEvents(ctx context.Context, zipCode string, interests []string) ([]domain.Event, error)
}

// Events are fetched for the next 30 days.
const lookaheadDays = 30

func dateWindow() (time.Time, time.Time) {
	start := time.Now()
	return start, start.AddDate(0, 0, lookaheadDays)
}

// matchesInterests reports whether an event's name, description or
// categories contain any of the interests, case-insensitively. An
// empty interest list admits every event.
func matchesInterests(e domain.Event, interests []string) bool {
	if len(interests) == 0 {
		return true
	}

	var sb strings.Builder
	sb.WriteString(e.Name)
	sb.WriteByte(' ')
	sb.WriteString(e.Description)
	for _, cat := range e.Categories {
		sb.WriteByte(' ')
		sb.WriteString(cat)
	}
	haystack := strings.ToLower(sb.String())

	for _, interest := range interests {
		if interest == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(interest)) {
			return true
		}
	}
	return false
}
