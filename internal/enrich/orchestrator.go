package enrich

import (
	"context"
	"errors"
	"log"
	"sync"

	"melonhub/pkg/models"
)

// Provider is one external track search API. Search returns candidates for a
// free-text query; ErrQuotaExceeded signals a rate-limit-class response.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Orchestrator fills missing streaming links for a batch of songs.
// Providers fan out concurrently (they write disjoint columns); songs within
// one provider run under a bounded concurrency limit and serialize on the
// shared breaker flag.
type Orchestrator struct {
	Providers   []Provider
	Breakers    *BreakerSet
	Repo        *Repo
	Concurrency int
}

func NewOrchestrator(repo *Repo, breakers *BreakerSet, providers ...Provider) *Orchestrator {
	return &Orchestrator{
		Providers:   providers,
		Breakers:    breakers,
		Repo:        repo,
		Concurrency: 4,
	}
}

// EnrichGenre resolves links for every song in the batch that lacks one.
// Failures are isolated per song/provider; unmatched songs stay untouched
// and are retried on the next ingestion cycle.
func (o *Orchestrator) EnrichGenre(ctx context.Context, songs []models.Song) {
	var wg sync.WaitGroup
	for _, p := range o.Providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			o.enrichProvider(ctx, p, songs)
		}(p)
	}
	wg.Wait()
}

func (o *Orchestrator) enrichProvider(ctx context.Context, p Provider, songs []models.Song) {
	limit := o.Concurrency
	if limit <= 0 {
		limit = 1
	}
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for _, s := range songs {
		if HasLink(s, p.Name()) {
			continue
		}
		if o.Breakers.Tripped(p.Name()) {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(s models.Song) {
			defer func() {
				<-sem
				wg.Done()
			}()

			url := o.resolve(ctx, p, s)
			if url == "" {
				return
			}
			if err := o.Repo.SetLink(ctx, s.ID, p.Name(), url); err != nil {
				log.Printf("[enrich] %v", err)
				return
			}
			log.Printf("[enrich] %s link saved for %q - %q", p.Name(), s.Title, s.Artist)
		}(s)
	}
	wg.Wait()
}

// resolve walks the query ladder for one song. A quota response trips the
// breaker and everything after it short-circuits to "no result" without a
// network call. Other provider errors (timeouts included) count as "no
// result" for this cycle.
func (o *Orchestrator) resolve(ctx context.Context, p Provider, s models.Song) string {
	variants := artistVariants(s.Artist)
	for _, q := range buildQueries(s.Title, s.Artist, s.Album) {
		if o.Breakers.Tripped(p.Name()) {
			return ""
		}

		cands, err := p.Search(ctx, q)
		if errors.Is(err, ErrQuotaExceeded) {
			log.Printf("[enrich] %s quota exceeded, suspending provider for this cycle", p.Name())
			o.Breakers.Trip(p.Name())
			return ""
		}
		if err != nil {
			log.Printf("[enrich] %s search %q: %v", p.Name(), q, err)
			return ""
		}
		if len(cands) == 0 {
			continue
		}

		album := s.Album
		if album == "Unknown Album" {
			album = ""
		}
		if best := pickBest(cands, s.Title, variants, album); best != nil {
			return best.URL
		}
	}
	return ""
}
