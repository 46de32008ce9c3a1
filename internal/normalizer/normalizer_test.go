package normalizer

import (
	"errors"
	"reflect"
	"testing"

	"eventfinder/internal/domain"
)

func TestParseRecommendationTooFewLines(t *testing.T) {
	blocks := []string{
		"",
		"Jazz Night",
		"- Jazz Night\n\n   \n",
	}

	for _, block := range blocks {
		if _, ok := ParseRecommendation(block); ok {
			t.Errorf("expected invalid result for block %q", block)
		}
	}
}

func TestParseRecommendationStripsBullet(t *testing.T) {
	rec, ok := ParseRecommendation("- Jazz Night\nDate: Friday")
	if !ok {
		t.Fatal("expected valid record")
	}
	if rec.Title != "Jazz Night" {
		t.Errorf("expected title %q, got %q", "Jazz Night", rec.Title)
	}
	if rec.Date != "Friday" {
		t.Errorf("expected date %q, got %q", "Friday", rec.Date)
	}
}

func TestParseRecommendationFallbacks(t *testing.T) {
	rec, ok := ParseRecommendation("Jazz Night\nPrice: $25")
	if !ok {
		t.Fatal("expected valid record")
	}
	if rec.Description != domain.FallbackDescription {
		t.Errorf("expected description fallback, got %q", rec.Description)
	}
	if rec.Location != domain.FallbackLocation {
		t.Errorf("expected location fallback, got %q", rec.Location)
	}
	if rec.Date != domain.FallbackDate {
		t.Errorf("expected date fallback, got %q", rec.Date)
	}
	if rec.Price != "$25" {
		t.Errorf("expected price $25, got %q", rec.Price)
	}
}

func TestParseRecommendationFullBlock(t *testing.T) {
	block := `- Jazz Night
  Description: An evening of live jazz
  Location: Blue Note, New York
  Date: 2026-09-12
  Price: $40
  Categories: Music, Music, Art
  Venue: Blue Note`

	rec, ok := ParseRecommendation(block)
	if !ok {
		t.Fatal("expected valid record")
	}
	if rec.Description != "An evening of live jazz" {
		t.Errorf("unexpected description %q", rec.Description)
	}
	if rec.Location != "Blue Note, New York" {
		t.Errorf("unexpected location %q", rec.Location)
	}
	want := []string{"Music", "Art"}
	if !reflect.DeepEqual(rec.Categories, want) {
		t.Errorf("expected categories %v, got %v", want, rec.Categories)
	}
}

func TestParseRecommendationIgnoresUnknownLabels(t *testing.T) {
	block := "Jazz Night\nRelevance Score: 0.93\nDate: Friday"
	rec, ok := ParseRecommendation(block)
	if !ok {
		t.Fatal("expected valid record")
	}
	if rec.Date != "Friday" {
		t.Errorf("unknown label broke date parsing, got %q", rec.Date)
	}
}

func TestSplitCategories(t *testing.T) {
	got := SplitCategories("Music, Music, Art, , Art ")
	want := []string{"Music", "Art"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSplitEntries(t *testing.T) {
	blob := `Here are some events that match your interests:

- Jazz Night
  Date: Friday
- Art Walk
  Date: Saturday

Note: basic matches only.`

	entries := SplitEntries(blob)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d: %q", len(entries), entries)
	}

	recs := ParseBlob(blob)
	if len(recs) != 2 {
		t.Fatalf("expected 2 parsed records, got %d", len(recs))
	}
	if recs[0].Title != "Jazz Night" || recs[1].Title != "Art Walk" {
		t.Errorf("unexpected titles %q, %q", recs[0].Title, recs[1].Title)
	}
}

func TestDecodeResponseRawText(t *testing.T) {
	payload := DecodeResponse([]byte(`{"recommendations":"- Jazz Night\nDate: Friday"}`))
	if payload.Kind != RawText {
		t.Fatalf("expected RawText, got %v", payload.Kind)
	}
	if payload.Text == "" {
		t.Error("expected non-empty text")
	}
}

func TestDecodeResponseStructuredList(t *testing.T) {
	body := []byte(`{"recommendations":[{"title":"Jazz Night","description":"d","date":"Friday","location":"NYC"}]}`)
	payload := DecodeResponse(body)
	if payload.Kind != StructuredList {
		t.Fatalf("expected StructuredList, got %v", payload.Kind)
	}
	if len(payload.Records) != 1 || payload.Records[0].Title != "Jazz Night" {
		t.Errorf("unexpected records %+v", payload.Records)
	}
}

func TestDecodeResponseMalformed(t *testing.T) {
	bodies := [][]byte{
		[]byte(`not json at all`),
		[]byte(`{"recommendations":42}`),
		[]byte(`{"recommendations":[1,2,3]}`),
		[]byte(`{"other":"field"}`),
	}
	for _, body := range bodies {
		if payload := DecodeResponse(body); payload.Kind != Malformed {
			t.Errorf("expected Malformed for %s, got %v", body, payload.Kind)
		}
	}
}

func TestDecodeStructuredRejectsString(t *testing.T) {
	recs, err := DecodeStructured([]byte(`{"recommendations":"not an array"}`))
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty list, got %v", recs)
	}
}
