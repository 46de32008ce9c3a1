package events

import (
	"context"
	"log"
	"sort"
	"sync"

	"eventfinder/internal/domain"
)

const fetchConcurrency = 4

// Aggregator fans out over all configured sources and merges their
// results into one deduplicated, date-ordered list.
type Aggregator struct {
	sources []Source
}

func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{sources: sources}
}

// SourceNames lists the active sources, for the health endpoint.
func (a *Aggregator) SourceNames() []string {
	names := make([]string, 0, len(a.sources))
	for _, src := range a.sources {
		names = append(names, src.Name())
	}
	return names
}

// GetAllEvents fetches from every source concurrently with a bounded
// worker pool. A failing source is logged and skipped; the remaining
// sources still contribute.
func (a *Aggregator) GetAllEvents(ctx context.Context, zipCode string, interests []string) []domain.Event {
	results := make([][]domain.Event, len(a.sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, fetchConcurrency) // semaphore

	for i, src := range a.sources {
		wg.Add(1)
		go func(idx int, source Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			events, err := source.FetchEvents(ctx, zipCode, interests)
			if err != nil {
				log.Printf("[events] %s: fetch failed: %v", source.Name(), err)
				return
			}
			log.Printf("[events] %s: found %d events", source.Name(), len(events))
			results[idx] = events
		}(i, src)
	}
	wg.Wait()

	// Merge, keeping only the first occurrence of each name+date+venue.
	seen := make(map[string]bool)
	var all []domain.Event
	for _, events := range results {
		for _, e := range events {
			if seen[e.Key()] {
				continue
			}
			seen[e.Key()] = true
			all = append(all, e)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date < all[j].Date
	})

	return all
}
