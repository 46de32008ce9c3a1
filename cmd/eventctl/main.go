// eventctl is a terminal front-end for the recommendation service: it
// resolves a zip code, posts the request and renders the response as
// cards, whichever payload shape the deployment returns.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"eventfinder/internal/domain"
	"eventfinder/internal/normalizer"
)

const formatErrorMessage = "Received an invalid response format. Please try again."

func main() {
	server := flag.String("server", "http://localhost:8080", "recommendation service base URL")
	zip := flag.String("zip", "", "zip code (defaults to saved preference)")
	interests := flag.String("interests", "", "comma-separated interests (defaults to saved preference)")
	lat := flag.Float64("lat", 0, "latitude for zip resolution")
	lon := flag.Float64("lon", 0, "longitude for zip resolution")
	save := flag.Bool("save", false, "persist zip and interests as preferences")
	flag.Parse()

	client := &http.Client{Timeout: 60 * time.Second}

	zipCode := *zip
	interestList := normalizer.SplitCategories(*interests)

	// Locate-me path: one reverse-geocoding attempt, no retry.
	if zipCode == "" && (*lat != 0 || *lon != 0) {
		resolved, err := resolveZip(client, *server, *lat, *lon)
		if err != nil {
			log.Fatalf("could not resolve zip code: %v", err)
		}
		zipCode = resolved
		fmt.Printf("Resolved zip code: %s\n", zipCode)
	}

	// Fall back to saved preferences for anything still missing.
	if zipCode == "" || len(interestList) == 0 {
		prefs, err := loadPreferences(client, *server)
		if err != nil {
			log.Fatalf("could not load saved preferences: %v", err)
		}
		if zipCode == "" {
			zipCode = prefs.ZipCode
		}
		if len(interestList) == 0 {
			interestList = prefs.Interests
		}
	}

	if zipCode == "" || len(interestList) == 0 {
		fmt.Fprintln(os.Stderr, "a zip code and at least one interest are required (flags or saved preferences)")
		os.Exit(1)
	}

	if *save {
		if err := savePreferences(client, *server, domain.Preferences{ZipCode: zipCode, Interests: interestList}); err != nil {
			log.Fatalf("could not save preferences: %v", err)
		}
		fmt.Println("Preferences saved.")
	}

	fmt.Printf("Fetching events for %s (%s)...\n", zipCode, strings.Join(interestList, ", "))
	body, err := fetchRecommendations(client, *server, zipCode, interestList)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}

	render(body)
}

func resolveZip(client *http.Client, server string, lat, lon float64) (string, error) {
	resp, err := client.Get(fmt.Sprintf("%s/api/location/zip?lat=%f&lon=%f", server, lat, lon))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	var parsed struct {
		ZipCode string `json:"zip_code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.ZipCode, nil
}

func loadPreferences(client *http.Client, server string) (domain.Preferences, error) {
	var prefs domain.Preferences
	resp, err := client.Get(server + "/api/preferences")
	if err != nil {
		return prefs, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return prefs, fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	err = json.NewDecoder(resp.Body).Decode(&prefs)
	return prefs, err
}

func savePreferences(client *http.Client, server string, prefs domain.Preferences) error {
	body, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPut, server+"/api/preferences", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return nil
}

func fetchRecommendations(client *http.Client, server, zipCode string, interests []string) ([]byte, error) {
	payload, err := json.Marshal(map[string]any{
		"zip_code":  zipCode,
		"interests": interests,
	})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(server+"/api/recommendations", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			return nil, fmt.Errorf("server error: %s", errResp.Message)
		}
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return body, nil
}

// render classifies the payload and prints cards. Malformed responses
// become a user-facing message, never a crash.
func render(body []byte) {
	var envelope struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &envelope)

	payload := normalizer.DecodeResponse(body)
	switch payload.Kind {
	case normalizer.RawText:
		if envelope.Message != "" && payload.Text == envelope.Message {
			fmt.Println(envelope.Message)
			return
		}
		recs := normalizer.ParseBlob(payload.Text)
		if len(recs) == 0 {
			// Unparseable prose still gets shown as-is.
			fmt.Println(payload.Text)
			return
		}
		printCards(recs)
	case normalizer.StructuredList:
		if len(payload.Records) == 0 {
			if envelope.Message != "" {
				fmt.Println(envelope.Message)
			} else {
				fmt.Println(domain.NoEventsMessage)
			}
			return
		}
		printCards(payload.Records)
	default:
		fmt.Println(formatErrorMessage)
	}
}

func printCards(recs []domain.StructuredRecommendation) {
	for i, rec := range recs {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s\n", rec.Title)
		fmt.Printf("  %s\n", rec.Description)
		fmt.Printf("  Date: %s | Location: %s\n", rec.Date, rec.Location)
		if rec.Price != "" {
			fmt.Printf("  Price: %s\n", rec.Price)
		}
		if cats := normalizer.Dedupe(rec.Categories); len(cats) > 0 {
			fmt.Printf("  Categories: %s\n", strings.Join(cats, ", "))
		}
		if pct := rec.RelevancePercent(); pct != "" {
			fmt.Printf("  Relevance: %s\n", pct)
		}
		if rec.URL != "" {
			fmt.Printf("  Tickets: %s\n", rec.URL)
		}
	}
}
