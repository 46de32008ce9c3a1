package service

import (
	"context"
	"log"
	"strings"

	"eventfinder/internal/domain"
	"eventfinder/internal/events"
	"eventfinder/internal/llm"
	"eventfinder/internal/normalizer"
	"eventfinder/internal/ranker"
)

const recommendationLimit = 10

// PreferenceStore is the persisted key-value preference abstraction;
// kept behind an interface so the storage mechanism can be swapped.
type PreferenceStore interface {
	SavePreferences(ctx context.Context, prefs domain.Preferences) error
	LoadPreferences(ctx context.Context) (domain.Preferences, error)
}

type Cache interface {
	Get(ctx context.Context, zipCode string, interests []string) (*domain.RecommendationResult, bool, error)
	Set(ctx context.Context, zipCode string, interests []string, result *domain.RecommendationResult) error
	ClearZip(ctx context.Context, zipCode string) error
}

// Completer writes up ranked events as a text blob. Nil when no API
// key is configured.
type Completer interface {
	Recommend(ctx context.Context, zipCode string, interests []string, recs []domain.StructuredRecommendation) (string, error)
}

type Service struct {
	store      PreferenceStore
	cache      Cache
	aggregator *events.Aggregator
	ranker     *ranker.Ranker
	completer  Completer
}

func NewService(store PreferenceStore, cache Cache, aggregator *events.Aggregator, rank *ranker.Ranker, completer Completer) *Service {
	return &Service{
		store:      store,
		cache:      cache,
		aggregator: aggregator,
		ranker:     rank,
		completer:  completer,
	}
}

func (s *Service) GetRecommendations(ctx context.Context, zipCode string, interests []string) (*domain.RecommendationResult, error) {
	if strings.TrimSpace(zipCode) == "" || len(interests) == 0 {
		return nil, domain.ErrMissingParameters
	}

	// Check cache
	cached, found, err := s.cache.Get(ctx, zipCode, interests)
	if err != nil {
		log.Printf("[service] cache get error for zip %s: %v", zipCode, err)
	}
	if found {
		cached.CacheHit = true
		return cached, nil
	}

	// Cache miss -> generate recommendations
	result, err := s.generateRecommendations(ctx, zipCode, interests)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cache.Set(ctx, zipCode, interests, result); cacheErr != nil {
		log.Printf("[service] cache set error for zip %s: %v", zipCode, cacheErr)
	}

	return result, nil
}

func (s *Service) generateRecommendations(ctx context.Context, zipCode string, interests []string) (*domain.RecommendationResult, error) {
	all := s.aggregator.GetAllEvents(ctx, zipCode, interests)
	if len(all) == 0 {
		// Zero events is a distinct outcome, not an error.
		return &domain.RecommendationResult{RawText: domain.NoEventsMessage}, nil
	}

	ranked := s.ranker.Rank(ranker.RankInput{
		Events:    all,
		Interests: interests,
		Limit:     recommendationLimit,
	})

	rawText := s.writeUp(ctx, zipCode, interests, ranked, all)

	records := normalizer.ParseBlob(rawText)
	if len(records) == 0 {
		records = ranked
	} else {
		records = mergeScores(records, ranked)
	}

	return &domain.RecommendationResult{
		Records: records,
		RawText: rawText,
	}, nil
}

// writeUp asks the LLM for the final text; on any completion failure
// (or when no completer is configured) it falls back to the basic
// event summary. No retries anywhere.
func (s *Service) writeUp(ctx context.Context, zipCode string, interests []string, ranked []domain.StructuredRecommendation, all []domain.Event) string {
	if s.completer == nil {
		return llm.FallbackSummary(all)
	}

	text, err := s.completer.Recommend(ctx, zipCode, interests, ranked)
	if err != nil {
		log.Printf("[service] completion failed for zip %s: %v", zipCode, err)
		return llm.FallbackSummary(all)
	}
	return text
}

// mergeScores copies relevance scores, reasoning and personalization
// from the ranked records onto parsed records with matching titles;
// the text round trip through the LLM loses those fields.
func mergeScores(parsed, ranked []domain.StructuredRecommendation) []domain.StructuredRecommendation {
	byTitle := make(map[string]domain.StructuredRecommendation, len(ranked))
	for _, rec := range ranked {
		byTitle[strings.ToLower(rec.Title)] = rec
	}

	for i, rec := range parsed {
		src, ok := byTitle[strings.ToLower(rec.Title)]
		if !ok {
			continue
		}
		if rec.RelevanceScore == nil {
			parsed[i].RelevanceScore = src.RelevanceScore
		}
		if rec.Reasoning == "" {
			parsed[i].Reasoning = src.Reasoning
		}
		if rec.Personalization == "" {
			parsed[i].Personalization = src.Personalization
		}
		if rec.URL == "" {
			parsed[i].URL = src.URL
		}
	}
	return parsed
}

// SourceNames lists the active event sources for the health endpoint.
func (s *Service) SourceNames() []string {
	return s.aggregator.SourceNames()
}

// SavePreferences overwrites the stored zip code and interest list and
// drops any cached recommendations for the previous zip.
func (s *Service) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	if err := s.store.SavePreferences(ctx, prefs); err != nil {
		return err
	}
	if err := s.cache.ClearZip(ctx, prefs.ZipCode); err != nil {
		log.Printf("[service] cache invalidation error for zip %s: %v", prefs.ZipCode, err)
	}
	return nil
}

func (s *Service) LoadPreferences(ctx context.Context) (domain.Preferences, error) {
	return s.store.LoadPreferences(ctx)
}
