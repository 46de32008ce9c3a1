package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventfinder/internal/domain"
)

func TestCoordinates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("postalcode") != "94102" {
			t.Errorf("unexpected postalcode %s", r.URL.Query().Get("postalcode"))
		}
		w.Write([]byte(`[{"lat":"37.7793","lon":"-122.4193"}]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second)
	coords, err := client.Coordinates(context.Background(), "94102")
	if err != nil {
		t.Fatalf("Coordinates failed: %v", err)
	}
	if coords.Lat != 37.7793 || coords.Lon != -122.4193 {
		t.Errorf("unexpected coordinates %+v", coords)
	}
}

func TestCoordinatesNoResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second)
	if _, err := client.Coordinates(context.Background(), "00000"); !errors.Is(err, domain.ErrZipNotFound) {
		t.Errorf("expected ErrZipNotFound, got %v", err)
	}
}

func TestReverseZip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("addressdetails") != "1" {
			t.Error("expected addressdetails=1")
		}
		w.Write([]byte(`{"address":{"postcode":"94102","city":"San Francisco"}}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second)
	zip, err := client.ReverseZip(context.Background(), 37.7793, -122.4193)
	if err != nil {
		t.Fatalf("ReverseZip failed: %v", err)
	}
	if zip != "94102" {
		t.Errorf("expected 94102, got %s", zip)
	}
}

func TestReverseZipMissingPostcode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{"city":"Atlantis"}}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second)
	if _, err := client.ReverseZip(context.Background(), 0, 0); !errors.Is(err, domain.ErrZipNotFound) {
		t.Errorf("expected ErrZipNotFound, got %v", err)
	}
}
