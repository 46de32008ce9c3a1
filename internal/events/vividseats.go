package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eventfinder/internal/domain"
	"eventfinder/internal/geocode"
)

const vividSeatsBaseURL = "https://skybox.vividseats.com/api/v1"

type VividSeats struct {
	apiKey     string
	baseURL    string
	geocoder   *geocode.Client
	httpClient *http.Client
}

func NewVividSeats(apiKey string, geocoder *geocode.Client, timeout time.Duration) *VividSeats {
	return &VividSeats{
		apiKey:     apiKey,
		baseURL:    vividSeatsBaseURL,
		geocoder:   geocoder,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (v *VividSeats) Name() string { return "Vivid Seats" }

type vsResponse struct {
	Events []vsEvent `json:"events"`
}

type vsEvent struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DateTime    string   `json:"dateTime"`
	URL         string   `json:"url"`
	MinPrice    *float64 `json:"minPrice"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Venue       struct {
		Name       string `json:"name"`
		City       string `json:"city"`
		State      string `json:"state"`
		PostalCode string `json:"postalCode"`
	} `json:"venue"`
}

func (v *VividSeats) FetchEvents(ctx context.Context, zipCode string, interests []string) ([]domain.Event, error) {
	coords, err := v.geocoder.Coordinates(ctx, zipCode)
	if err != nil {
		return nil, fmt.Errorf("resolve coordinates: %w", err)
	}

	start, end := dateWindow()
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	params.Set("radius", "50")
	params.Set("startDate", start.Format("2006-01-02"))
	params.Set("endDate", end.Format("2006-01-02"))
	params.Set("limit", "100")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/events?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vivid seats returned status %d", resp.StatusCode)
	}

	var data vsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var events []domain.Event
	for _, raw := range data.Events {
		price := "N/A"
		if raw.MinPrice != nil {
			price = fmt.Sprintf("$%g", *raw.MinPrice)
		}

		var categories []string
		if raw.Category != "" {
			categories = append(categories, strings.ToLower(raw.Category))
		}
		if raw.Subcategory != "" {
			categories = append(categories, strings.ToLower(raw.Subcategory))
		}

		venueName := raw.Venue.Name
		if venueName == "" {
			venueName = "Unknown Venue"
		}

		name := raw.Name
		if name == "" {
			name = "Untitled Event"
		}

		e := domain.Event{
			Name:        name,
			Description: raw.Description,
			Date:        raw.DateTime,
			Location:    fmt.Sprintf("%s, %s, %s", venueName, raw.Venue.City, raw.Venue.State),
			ZipCode:     raw.Venue.PostalCode,
			Venue:       venueName,
			Categories:  categories,
			URL:         raw.URL,
			Price:       price,
		}
		if matchesInterests(e, interests) {
			events = append(events, e)
		}
	}
	return events, nil
}
