package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"eventfinder/internal/domain"
	"eventfinder/internal/geocode"
)

const meetupBaseURL = "https://api.meetup.com/api/v3"

type Meetup struct {
	apiKey     string
	baseURL    string
	geocoder   *geocode.Client
	httpClient *http.Client
}

func NewMeetup(apiKey string, geocoder *geocode.Client, timeout time.Duration) *Meetup {
	return &Meetup{
		apiKey:     apiKey,
		baseURL:    meetupBaseURL,
		geocoder:   geocoder,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (m *Meetup) Name() string { return "Meetup" }

type muEvent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LocalDate   string `json:"local_date"`
	Link        string `json:"link"`
	Venue       struct {
		Name  string `json:"name"`
		City  string `json:"city"`
		State string `json:"state"`
		Zip   string `json:"zip"`
	} `json:"venue"`
	Fee *struct {
		Amount float64 `json:"amount"`
	} `json:"fee"`
	Group struct {
		Name     string   `json:"name"`
		Category *tmNamed `json:"category"`
	} `json:"group"`
}

func (m *Meetup) FetchEvents(ctx context.Context, zipCode string, interests []string) ([]domain.Event, error) {
	coords, err := m.geocoder.Coordinates(ctx, zipCode)
	if err != nil {
		return nil, fmt.Errorf("resolve coordinates: %w", err)
	}

	start, end := dateWindow()
	params := url.Values{}
	params.Set("key", m.apiKey)
	params.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	params.Set("radius", "50")
	params.Set("start_date_range", start.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("end_date_range", end.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("page", "100")
	params.Set("order", "time")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/events?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("invalid meetup api key")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("meetup returned status %d", resp.StatusCode)
	}

	var data []muEvent
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var events []domain.Event
	for _, raw := range data {
		price := "Free"
		if raw.Fee != nil && raw.Fee.Amount > 0 {
			price = fmt.Sprintf("$%g", raw.Fee.Amount)
		}

		var categories []string
		if raw.Group.Category != nil {
			categories = append(categories, raw.Group.Category.Name)
		}
		if raw.Group.Name != "" {
			categories = append(categories, raw.Group.Name)
		}

		venueName := raw.Venue.Name
		if venueName == "" {
			venueName = "Unknown Venue"
		}

		e := domain.Event{
			Name:        raw.Name,
			Description: raw.Description,
			Date:        raw.LocalDate,
			Location:    fmt.Sprintf("%s, %s, %s", venueName, raw.Venue.City, raw.Venue.State),
			ZipCode:     raw.Venue.Zip,
			Venue:       venueName,
			Categories:  categories,
			URL:         raw.Link,
			Price:       price,
		}
		if matchesInterests(e, interests) {
			events = append(events, e)
		}
	}
	return events, nil
}
