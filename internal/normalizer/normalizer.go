// Package normalizer converts loosely-structured recommendation text
// into StructuredRecommendation records and classifies response payloads.
package normalizer

import (
	"encoding/json"
	"strings"

	"eventfinder/internal/domain"
)

// Label vocabulary recognized inside a raw block. Unknown labels are ignored.
var knownLabels = []string{"Description", "Location", "Date", "Price", "Categories"}

// ParseRecommendation parses a single raw text block into a structured
// record. It is a tolerant, best-effort parse: extra lines, reordered
// labels and surrounding whitespace are fine. Returns false when the
// block has fewer than two non-empty lines or no usable title.
func ParseRecommendation(block string) (domain.StructuredRecommendation, bool) {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	// A record needs at minimum a title and one detail line.
	if len(lines) < 2 {
		return domain.StructuredRecommendation{}, false
	}

	title := strings.TrimSpace(strings.TrimPrefix(lines[0], "-"))
	if title == "" {
		return domain.StructuredRecommendation{}, false
	}

	rec := domain.StructuredRecommendation{
		Title:       title,
		Description: domain.FallbackDescription,
		Location:    domain.FallbackLocation,
		Date:        domain.FallbackDate,
	}

	rest := lines[1:]
	if v, ok := labelValue(rest, "Description"); ok {
		rec.Description = v
	}
	if v, ok := labelValue(rest, "Location"); ok {
		rec.Location = v
	}
	if v, ok := labelValue(rest, "Date"); ok {
		rec.Date = v
	}
	if v, ok := labelValue(rest, "Price"); ok {
		rec.Price = v
	}
	if v, ok := labelValue(rest, "Categories"); ok {
		rec.Categories = SplitCategories(v)
	}

	return rec, true
}

// labelValue returns the value of the first line starting with "<label>:".
func labelValue(lines []string, label string) (string, bool) {
	prefix := label + ":"
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return "", false
}

// SplitCategories splits a comma-separated category value, trims each
// piece, drops empties and deduplicates preserving first-occurrence order.
func SplitCategories(value string) []string {
	return Dedupe(strings.Split(value, ","))
}

// Dedupe trims values, drops empties and removes duplicates while
// preserving first-occurrence order.
func Dedupe(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// SplitEntries splits a newline-delimited blob into per-recommendation
// blocks. A bullet-prefixed line ("- ...") starts a new entry; a blank
// line terminates the current one. Leading prose before the first
// bullet forms its own block and is dropped later if it does not parse.
func SplitEntries(blob string) []string {
	var entries []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			entries = append(entries, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(blob, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return entries
}

// ParseBlob parses every entry of a raw text blob, skipping entries
// that do not form a valid record.
func ParseBlob(blob string) []domain.StructuredRecommendation {
	var recs []domain.StructuredRecommendation
	for _, entry := range SplitEntries(blob) {
		if rec, ok := ParseRecommendation(entry); ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

type PayloadKind int

const (
	RawText PayloadKind = iota
	StructuredList
	Malformed
)

// Payload is the tagged variant of a recommendations response body:
// a raw text blob, an already-structured list, or something malformed.
type Payload struct {
	Kind    PayloadKind
	Text    string
	Records []domain.StructuredRecommendation
}

type responseEnvelope struct {
	Recommendations json.RawMessage `json:"recommendations"`
}

// DecodeResponse classifies the recommendations field of a response
// body. Malformed input is reported through the payload kind; it never
// returns an error and never panics, so callers at the UI boundary can
// render a format-error message instead of propagating a failure.
func DecodeResponse(body []byte) Payload {
	var env responseEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Recommendations) == 0 {
		return Payload{Kind: Malformed}
	}

	var text string
	if err := json.Unmarshal(env.Recommendations, &text); err == nil {
		return Payload{Kind: RawText, Text: text}
	}

	var records []domain.StructuredRecommendation
	if err := json.Unmarshal(env.Recommendations, &records); err == nil {
		return Payload{Kind: StructuredList, Records: records}
	}

	return Payload{Kind: Malformed}
}

// DecodeStructured decodes a response whose deployment variant promises
// a structured list. Anything else, including a plain string where the
// list should be, yields ErrMalformedResponse and an empty list.
func DecodeStructured(body []byte) ([]domain.StructuredRecommendation, error) {
	payload := DecodeResponse(body)
	if payload.Kind != StructuredList {
		return nil, domain.ErrMalformedResponse
	}
	return payload.Records, nil
}
