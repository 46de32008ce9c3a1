package domain

import "fmt"

type Event struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Location    string   `json:"location"`
	ZipCode     string   `json:"zip_code"`
	Venue       string   `json:"venue,omitempty"`
	Categories  []string `json:"categories"`
	URL         string   `json:"url,omitempty"`
	Price       string   `json:"price,omitempty"`
}

// Key identifies an event across sources for deduplication.
func (e Event) Key() string {
	return fmt.Sprintf("%s_%s_%s", e.Name, e.Date, e.Venue)
}
