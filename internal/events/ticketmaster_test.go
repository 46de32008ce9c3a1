package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventfinder/internal/geocode"
)

const tmFixture = `{
  "_embedded": {
    "events": [
      {
        "name": "Jazz Night",
        "url": "https://tickets.example.com/jazz",
        "dates": {"start": {"localDate": "2026-09-12", "localTime": "20:00:00"}, "status": {"code": "onsale"}},
        "priceRanges": [{"min": 25.0, "max": 60.0}],
        "classifications": [{"segment": {"name": "Music"}, "genre": {"name": "Jazz"}}],
        "_embedded": {"venues": [{"name": "Blue Note", "postalCode": "10012", "address": {"line1": "131 W 3rd St"}, "city": {"name": "New York"}}]}
      },
      {
        "name": "Mystery Show",
        "dates": {"start": {"localDate": "2026-09-20"}, "status": {"code": "onsale"}},
        "_embedded": {"venues": [{"name": "The Hall", "city": {"name": "New York"}}]}
      }
    ]
  }
}`

func newTicketmasterFixture(t *testing.T) (*Ticketmaster, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"40.7306","lon":"-73.9866"}]`))
	})
	mux.HandleFunc("/events.json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(tmFixture))
	})
	ts := httptest.NewServer(mux)

	geocoder := geocode.NewClient(ts.URL, 5*time.Second)
	tm := NewTicketmaster("test-key", geocoder, 5*time.Second)
	tm.baseURL = ts.URL + "/events.json"
	return tm, ts
}

func TestTicketmasterFetchEvents(t *testing.T) {
	tm, ts := newTicketmasterFixture(t)
	defer ts.Close()

	events, err := tm.FetchEvents(context.Background(), "10012", nil)
	if err != nil {
		t.Fatalf("FetchEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	jazz := events[0]
	if jazz.Name != "Jazz Night" {
		t.Errorf("unexpected name %q", jazz.Name)
	}
	if jazz.Price != "$25.00 - $60.00" {
		t.Errorf("unexpected price %q", jazz.Price)
	}
	if jazz.Location != "131 W 3rd St, New York" {
		t.Errorf("unexpected location %q", jazz.Location)
	}
	if len(jazz.Categories) != 2 || jazz.Categories[0] != "Music" || jazz.Categories[1] != "Jazz" {
		t.Errorf("unexpected categories %v", jazz.Categories)
	}

	// No description and no price ranges: assembled fallbacks kick in.
	mystery := events[1]
	if mystery.Price != "Tickets Available" {
		t.Errorf("unexpected fallback price %q", mystery.Price)
	}
	if mystery.Description != "Mystery Show | Venue: The Hall" {
		t.Errorf("unexpected fallback description %q", mystery.Description)
	}
}

func TestTicketmasterFetchEventsFiltersByInterest(t *testing.T) {
	tm, ts := newTicketmasterFixture(t)
	defer ts.Close()

	events, err := tm.FetchEvents(context.Background(), "10012", []string{"jazz"})
	if err != nil {
		t.Fatalf("FetchEvents failed: %v", err)
	}
	if len(events) != 1 || events[0].Name != "Jazz Night" {
		t.Errorf("expected only the jazz event, got %v", events)
	}
}
