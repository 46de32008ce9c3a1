// Package geocode wraps the OpenStreetMap Nominatim API for zip code
// to coordinate lookups and reverse zip resolution.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"eventfinder/internal/domain"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Nominatim usage policy requires an identifying User-Agent.
const userAgent = "EventFinder/1.0"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type Coordinates struct {
	Lat float64
	Lon float64
}

// Coordinates resolves a US zip code to latitude/longitude using the
// Nominatim search endpoint. Single attempt, no retry.
func (c *Client) Coordinates(ctx context.Context, zipCode string) (*Coordinates, error) {
	params := url.Values{}
	params.Set("postalcode", zipCode)
	params.Set("country", "US")
	params.Set("format", "json")

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return nil, fmt.Errorf("lookup coordinates for zip %s: %w", zipCode, err)
	}
	if len(results) == 0 {
		return nil, domain.ErrZipNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}

	return &Coordinates{Lat: lat, Lon: lon}, nil
}

// ReverseZip resolves coordinates to a postal code. A response without
// a postcode in its address yields ErrZipNotFound rather than an empty
// string, so the caller can report the condition distinctly.
func (c *Client) ReverseZip(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("addressdetails", "1")

	var result struct {
		Address struct {
			Postcode string `json:"postcode"`
		} `json:"address"`
	}
	if err := c.get(ctx, "/reverse", params, &result); err != nil {
		return "", fmt.Errorf("reverse geocode %f,%f: %w", lat, lon, err)
	}
	if result.Address.Postcode == "" {
		return "", domain.ErrZipNotFound
	}

	return result.Address.Postcode, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
