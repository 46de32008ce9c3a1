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
	"eventfinder/internal/geocode"
)

const ticketmasterBaseURL = "https://app.ticketmaster.com/discovery/v2/events.json"

type Ticketmaster struct {
	apiKey     string
	baseURL    string
	geocoder   *geocode.Client
	httpClient *http.Client
}

func NewTicketmaster(apiKey string, geocoder *geocode.Client, timeout time.Duration) *Ticketmaster {
	return &Ticketmaster{
		apiKey:     apiKey,
		baseURL:    ticketmasterBaseURL,
		geocoder:   geocoder,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (t *Ticketmaster) Name() string { return "Ticketmaster" }

type tmResponse struct {
	Embedded struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded"`
}

type tmEvent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Info        string `json:"info"`
	PleaseNote  string `json:"pleaseNote"`
	URL         string `json:"url"`
	Free        bool   `json:"free"`
	Dates       struct {
		Start struct {
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
		} `json:"start"`
		Status struct {
			Code string `json:"code"`
		} `json:"status"`
	} `json:"dates"`
	PriceRanges []struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	} `json:"priceRanges"`
	Classifications []struct {
		Segment  *tmNamed `json:"segment"`
		Genre    *tmNamed `json:"genre"`
		SubGenre *tmNamed `json:"subGenre"`
	} `json:"classifications"`
	Embedded struct {
		Venues []tmVenue `json:"venues"`
	} `json:"_embedded"`
}

type tmNamed struct {
	Name string `json:"name"`
}

type tmVenue struct {
	Name       string `json:"name"`
	PostalCode string `json:"postalCode"`
	Address    struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

func (t *Ticketmaster) FetchEvents(ctx context.Context, zipCode string, interests []string) ([]domain.Event, error) {
	coords, err := t.geocoder.Coordinates(ctx, zipCode)
	if err != nil {
		return nil, fmt.Errorf("resolve coordinates: %w", err)
	}

	start, end := dateWindow()
	params := url.Values{}
	params.Set("apikey", t.apiKey)
	params.Set("latlong", fmt.Sprintf("%f,%f", coords.Lat, coords.Lon))
	params.Set("radius", "50")
	params.Set("unit", "miles")
	params.Set("startDateTime", start.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("endDateTime", end.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("size", "100")
	params.Set("sort", "date,asc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ticketmaster returned status %d", resp.StatusCode)
	}

	var data tmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var events []domain.Event
	for _, raw := range data.Embedded.Events {
		e := t.convert(raw)
		if matchesInterests(e, interests) {
			events = append(events, e)
		}
	}
	return events, nil
}

func (t *Ticketmaster) convert(raw tmEvent) domain.Event {
	var venue tmVenue
	if len(raw.Embedded.Venues) > 0 {
		venue = raw.Embedded.Venues[0]
	}

	var categories []string
	for _, c := range raw.Classifications {
		if c.Segment != nil {
			categories = append(categories, c.Segment.Name)
		}
		if c.Genre != nil {
			categories = append(categories, c.Genre.Name)
		}
		if c.SubGenre != nil {
			categories = append(categories, c.SubGenre.Name)
		}
	}

	name := raw.Name
	if name == "" {
		name = "Untitled Event"
	}

	date := raw.Dates.Start.LocalDate
	if date == "" {
		date = "N/A"
	}

	venueName := venue.Name
	if venueName == "" {
		venueName = "Unknown Venue"
	}

	return domain.Event{
		Name:        name,
		Description: t.description(raw, venue),
		Date:        date,
		Location:    fmt.Sprintf("%s, %s", venue.Address.Line1, venue.City.Name),
		ZipCode:     venue.PostalCode,
		Venue:       venueName,
		Categories:  categories,
		URL:         raw.URL,
		Price:       t.price(raw),
	}
}

// description falls back through the fields Ticketmaster actually
// populates, then to an assembled summary of whatever is present.
func (t *Ticketmaster) description(raw tmEvent, venue tmVenue) string {
	for _, candidate := range []string{raw.Description, raw.Info, raw.PleaseNote} {
		if candidate != "" {
			return candidate
		}
	}

	var parts []string
	if raw.Name != "" {
		parts = append(parts, raw.Name)
	}
	for _, c := range raw.Classifications {
		if c.Genre != nil {
			parts = append(parts, "Genre: "+c.Genre.Name)
			break
		}
	}
	if raw.Dates.Start.LocalTime != "" {
		parts = append(parts, "Time: "+raw.Dates.Start.LocalTime)
	}
	if venue.Name != "" {
		parts = append(parts, "Venue: "+venue.Name)
	}
	if len(parts) == 0 {
		return domain.FallbackDescription
	}
	return strings.Join(parts, " | ")
}

func (t *Ticketmaster) price(raw tmEvent) string {
	if len(raw.PriceRanges) > 0 {
		min, max := raw.PriceRanges[0].Min, raw.PriceRanges[0].Max
		switch {
		case min != nil && max != nil && *min == *max:
			return fmt.Sprintf("$%.2f", *min)
		case min != nil && max != nil:
			return fmt.Sprintf("$%.2f - $%.2f", *min, *max)
		case min != nil:
			return fmt.Sprintf("Starting at $%.2f", *min)
		case max != nil:
			return fmt.Sprintf("Up to $%.2f", *max)
		}
	}
	switch {
	case raw.Dates.Status.Code == "onsale":
		return "Tickets Available"
	case raw.Dates.Status.Code == "offsale":
		return "Sold Out"
	case raw.Free:
		return "Free"
	}
	return "N/A"
}
