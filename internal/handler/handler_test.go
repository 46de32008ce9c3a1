package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventfinder/internal/domain"
	"eventfinder/internal/events"
	"eventfinder/internal/geocode"
	"eventfinder/internal/normalizer"
	"eventfinder/internal/ranker"
	"eventfinder/internal/service"
)

type memStore struct {
	prefs domain.Preferences
}

func (m *memStore) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	m.prefs = prefs
	return nil
}

func (m *memStore) LoadPreferences(ctx context.Context) (domain.Preferences, error) {
	return m.prefs, nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, zipCode string, interests []string) (*domain.RecommendationResult, bool, error) {
	return nil, false, nil
}

func (noopCache) Set(ctx context.Context, zipCode string, interests []string, result *domain.RecommendationResult) error {
	return nil
}

func (noopCache) ClearZip(ctx context.Context, zipCode string) error { return nil }

type stubSource struct {
	events []domain.Event
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchEvents(ctx context.Context, zipCode string, interests []string) ([]domain.Event, error) {
	return s.events, nil
}

func newTestHandler(src events.Source, format string) *Handler {
	svc := service.NewService(&memStore{}, noopCache{}, events.NewAggregator(src), ranker.New(), nil)
	return NewHandler(svc, nil, format)
}

var jazzEvent = domain.Event{
	Name:        "Jazz Night",
	Description: "Live jazz downtown",
	Date:        "2026-09-12",
	Location:    "Blue Note, New York",
	Venue:       "Blue Note",
	Categories:  []string{"Music"},
}

func TestGetRecommendationsMissingParameters(t *testing.T) {
	h := newTestHandler(&stubSource{}, FormatText)

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations",
		strings.NewReader(`{"zip_code":"","interests":[]}`))
	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error != "missing_parameters" {
		t.Errorf("expected missing_parameters, got %q", resp.Error)
	}
}

func TestGetRecommendationsNoEvents(t *testing.T) {
	h := newTestHandler(&stubSource{}, FormatStructured)

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations",
		strings.NewReader(`{"zip_code":"94102","interests":["music"]}`))
	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Recommendations []domain.StructuredRecommendation `json:"recommendations"`
		Message         string                            `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Recommendations) != 0 {
		t.Errorf("expected empty recommendations, got %v", resp.Recommendations)
	}
	if resp.Message != domain.NoEventsMessage {
		t.Errorf("expected no-events message, got %q", resp.Message)
	}
}

func TestGetRecommendationsTextFormat(t *testing.T) {
	h := newTestHandler(&stubSource{events: []domain.Event{jazzEvent}}, FormatText)

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations",
		strings.NewReader(`{"zip_code":"94102","interests":["music"]}`))
	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	payload := normalizer.DecodeResponse(rec.Body.Bytes())
	if payload.Kind != normalizer.RawText {
		t.Fatalf("expected raw text payload, got %v", payload.Kind)
	}
	if !strings.Contains(payload.Text, "Jazz Night") {
		t.Errorf("expected blob to mention the event, got %q", payload.Text)
	}
}

func TestGetRecommendationsStructuredFormat(t *testing.T) {
	h := newTestHandler(&stubSource{events: []domain.Event{jazzEvent}}, FormatStructured)

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations",
		strings.NewReader(`{"zip_code":"94102","interests":["music"]}`))
	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	recs, err := normalizer.DecodeStructured(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("expected structured payload: %v", err)
	}
	if len(recs) != 1 || recs[0].Title != "Jazz Night" {
		t.Errorf("unexpected records %+v", recs)
	}
}

func TestGetRecommendationsInvalidBody(t *testing.T) {
	h := newTestHandler(&stubSource{}, FormatText)

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	h := newTestHandler(&stubSource{}, FormatText)

	put := httptest.NewRequest(http.MethodPut, "/api/preferences",
		strings.NewReader(`{"zip_code":"94102","interests":["music","art"]}`))
	rec := httptest.NewRecorder()
	h.SavePreferences(rec, put)
	if rec.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d", rec.Code)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/preferences", nil)
	rec = httptest.NewRecorder()
	h.GetPreferences(rec, get)
	if rec.Code != http.StatusOK {
		t.Fatalf("load: expected 200, got %d", rec.Code)
	}

	var prefs domain.Preferences
	if err := json.Unmarshal(rec.Body.Bytes(), &prefs); err != nil {
		t.Fatalf("decode preferences: %v", err)
	}
	if prefs.ZipCode != "94102" {
		t.Errorf("unexpected zip %q", prefs.ZipCode)
	}
	if len(prefs.Interests) != 2 || prefs.Interests[0] != "music" || prefs.Interests[1] != "art" {
		t.Errorf("unexpected interests %v", prefs.Interests)
	}
}

func TestResolveZip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{"postcode":"94102"}}`))
	}))
	defer ts.Close()

	svc := service.NewService(&memStore{}, noopCache{}, events.NewAggregator(), ranker.New(), nil)
	h := NewHandler(svc, geocode.NewClient(ts.URL, 5*time.Second), FormatText)

	req := httptest.NewRequest(http.MethodGet, "/api/location/zip?lat=37.77&lon=-122.41", nil)
	rec := httptest.NewRecorder()
	h.ResolveZip(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp ZipResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ZipCode != "94102" {
		t.Errorf("expected 94102, got %q", resp.ZipCode)
	}
}

func TestResolveZipNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{}}`))
	}))
	defer ts.Close()

	svc := service.NewService(&memStore{}, noopCache{}, events.NewAggregator(), ranker.New(), nil)
	h := NewHandler(svc, geocode.NewClient(ts.URL, 5*time.Second), FormatText)

	req := httptest.NewRequest(http.MethodGet, "/api/location/zip?lat=0&lon=0", nil)
	rec := httptest.NewRecorder()
	h.ResolveZip(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestResolveZipInvalidParams(t *testing.T) {
	h := newTestHandler(&stubSource{}, FormatText)

	req := httptest.NewRequest(http.MethodGet, "/api/location/zip?lat=abc", nil)
	rec := httptest.NewRecorder()
	h.ResolveZip(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
