package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventfinder/internal/domain"
)

const seatGeekBaseURL = "https://api.seatgeek.com/2/events"

type SeatGeek struct {
	clientID   string
	baseURL    string
	httpClient *http.Client
}

func NewSeatGeek(clientID string, timeout time.Duration) *SeatGeek {
	return &SeatGeek{
		clientID:   clientID,
		baseURL:    seatGeekBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *SeatGeek) Name() string { return "SeatGeek" }

type sgResponse struct {
	Events []sgEvent `json:"events"`
}

type sgEvent struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	DatetimeLocal string `json:"datetime_local"`
	URL           string `json:"url"`
	Venue         struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		City    string `json:"city"`
	} `json:"venue"`
	Stats struct {
		LowestPrice *float64 `json:"lowest_price"`
	} `json:"stats"`
	Taxonomies []struct {
		Name string `json:"name"`
	} `json:"taxonomies"`
}

func (s *SeatGeek) FetchEvents(ctx context.Context, zipCode string, interests []string) ([]domain.Event, error) {
	start, end := dateWindow()
	params := url.Values{}
	params.Set("client_id", s.clientID)
	params.Set("postal_code", zipCode)
	params.Set("per_page", "100")
	params.Set("datetime_local.gte", start.Format("2006-01-02T15:04:05"))
	params.Set("datetime_local.lte", end.Format("2006-01-02T15:04:05"))
	params.Set("sort", "datetime_local.asc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seatgeek returned status %d", resp.StatusCode)
	}

	var data sgResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var events []domain.Event
	for _, raw := range data.Events {
		price := "N/A"
		if raw.Stats.LowestPrice != nil {
			price = fmt.Sprintf("$%g", *raw.Stats.LowestPrice)
		}

		var categories []string
		for _, tax := range raw.Taxonomies {
			if tax.Name != "" {
				categories = append(categories, strings.ToLower(tax.Name))
			}
		}

		e := domain.Event{
			Name:        raw.Title,
			Description: raw.Description,
			Date:        raw.DatetimeLocal,
			Location:    fmt.Sprintf("%s, %s", raw.Venue.Address, raw.Venue.City),
			ZipCode:     zipCode,
			Venue:       raw.Venue.Name,
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
