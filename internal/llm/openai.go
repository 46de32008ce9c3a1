// Package llm writes up ranked events as a reader-friendly text blob
// using the OpenAI chat completions API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eventfinder/internal/domain"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-3.5-turbo"
	temperature    = 0.7
)

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type CompletionError struct {
	Msg string
}

func (e *CompletionError) Error() string {
	return e.Msg
}

func IsCompletionError(err error) bool {
	var target *CompletionError
	return errors.As(err, &target)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Recommend asks the model to summarize the scored events into the
// labeled text format. One call, no retry; failures come back as a
// CompletionError so the caller can fall back to a basic summary.
func (c *Client) Recommend(ctx context.Context, zipCode string, interests []string, recs []domain.StructuredRecommendation) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []chatMessage{
			{Role: "user", Content: BuildPrompt(zipCode, interests, recs)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &CompletionError{Msg: fmt.Sprintf("chat completion request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &CompletionError{Msg: fmt.Sprintf("chat completion returned status %d", resp.StatusCode)}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &CompletionError{Msg: fmt.Sprintf("decode chat completion: %v", err)}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &CompletionError{Msg: "chat completion returned no choices"}
	}

	return parsed.Choices[0].Message.Content, nil
}

// BuildPrompt renders the scored events in the labeled block format and
// instructs the model to answer in the same shape so the response can
// be normalized back into records.
func BuildPrompt(zipCode string, interests []string, recs []domain.StructuredRecommendation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an assistant that recommends local events. The user is located in zip code %s and is interested in %s.\n", zipCode, strings.Join(interests, ", "))
	sb.WriteString("Here is a list of upcoming events with their relevance scores:\n\n")

	for _, rec := range recs {
		fmt.Fprintf(&sb, "- %s\n", rec.Title)
		fmt.Fprintf(&sb, "  Date: %s\n", rec.Date)
		fmt.Fprintf(&sb, "  Location: %s\n", rec.Location)
		if rec.Price != "" {
			fmt.Fprintf(&sb, "  Price: %s\n", rec.Price)
		}
		fmt.Fprintf(&sb, "  Description: %s\n", rec.Description)
		if len(rec.Categories) > 0 {
			fmt.Fprintf(&sb, "  Categories: %s\n", strings.Join(rec.Categories, ", "))
		}
		if rec.RelevanceScore != nil {
			fmt.Fprintf(&sb, "  Relevance Score: %.2f\n", *rec.RelevanceScore)
		}
		if rec.Reasoning != "" {
			fmt.Fprintf(&sb, "  %s\n", rec.Reasoning)
		}
		if rec.Personalization != "" {
			fmt.Fprintf(&sb, "  %s\n", rec.Personalization)
		}
	}

	sb.WriteString(`
Please summarize and recommend the top events that match the user's interests.
Answer with one block per event, in exactly this format:

- Event Name
  Description: why this event is worth attending
  Location: venue and address
  Date: event date
  Price: ticket price if available
  Categories: comma-separated categories

Important rules:
- Do not include duplicate events (same name, date, and venue)
- Include a balanced mix of events matching different interests
- Include at least 5 events if available
- If no events are available, say "No events found in your area."
`)
	return sb.String()
}

// FallbackSummary renders a basic labeled event list, used when the
// chat completion fails or no API key is configured.
func FallbackSummary(events []domain.Event) string {
	limit := len(events)
	if limit > 5 {
		limit = 5
	}

	var sb strings.Builder
	sb.WriteString("Here are some events that match your interests:\n\n")
	for _, event := range events[:limit] {
		fmt.Fprintf(&sb, "- %s\n", event.Name)
		fmt.Fprintf(&sb, "  Description: %s\n", event.Description)
		if len(event.Categories) > 0 {
			fmt.Fprintf(&sb, "  Categories: %s\n", strings.Join(event.Categories, ", "))
		}
		fmt.Fprintf(&sb, "  Location: %s\n", event.Location)
		fmt.Fprintf(&sb, "  Date: %s\n", event.Date)
		if event.Price != "" {
			fmt.Fprintf(&sb, "  Price: %s\n", event.Price)
		}
	}
	sb.WriteString("\nNote: These are basic matches without relevance scoring.")
	return sb.String()
}
