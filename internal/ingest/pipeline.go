package ingest

import (
	"context"
	"fmt"
	"log"

	"melonhub/internal/cache"
	"melonhub/internal/chart"
	"melonhub/internal/enrich"
	"melonhub/internal/live"
	"melonhub/internal/rankings"
	"melonhub/pkg/models"
)

// Extractor yields the raw chart entries for one genre.
type Extractor interface {
	Extract(ctx context.Context, genreCode string) ([]chart.RawEntry, error)
}

// Enricher fills missing streaming links for a reconciled batch.
type Enricher interface {
	EnrichGenre(ctx context.Context, songs []models.Song)
}

// Broadcaster pushes an event to connected clients.
type Broadcaster interface {
	BroadcastJSON(v any)
}

// Pipeline runs one genre's full ingestion cycle: extract, reconcile,
// enrich, re-warm the cache, announce. Steps are sequential because each
// depends on the previous step's committed state.
type Pipeline struct {
	Extractor  Extractor
	Reconciler *Reconciler
	Rankings   *rankings.Repo
	Enricher   Enricher        // optional
	Breakers   *enrich.BreakerSet // optional, reset once per cycle
	Cache      *cache.Cache    // optional
	Hub        Broadcaster     // optional
}

// IngestGenre runs the cycle for one genre code. Extraction and
// reconciliation failures abort the cycle with nothing committed;
// enrichment failures never do, reconciliation's state is already durable
// by then.
func (p *Pipeline) IngestGenre(ctx context.Context, code string) error {
	if p.Breakers != nil {
		p.Breakers.Reset()
	}

	entries, err := p.Extractor.Extract(ctx, code)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", code, err)
	}

	snap, err := p.Reconciler.Reconcile(ctx, code, entries)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", code, err)
	}

	ranked, err := p.Rankings.ListByGenre(ctx, code)
	if err != nil {
		log.Printf("[ingest] %s: read back rankings: %v", code, err)
		return nil
	}

	if p.Enricher != nil {
		songs := make([]models.Song, 0, len(ranked))
		for _, rs := range ranked {
			songs = append(songs, rs.Song)
		}
		p.Enricher.EnrichGenre(ctx, songs)

		// re-read so the cached snapshot carries the fresh links
		if fresh, err := p.Rankings.ListByGenre(ctx, code); err == nil {
			ranked = fresh
		}
	}

	if p.Cache != nil {
		p.Cache.Set(code, ranked)
	}
	if p.Hub != nil {
		p.Hub.BroadcastJSON(live.ChartEvent{
			Type:      live.ChartUpdatedEventType,
			Genre:     code,
			GenreName: models.GenreName(code),
			Songs:     len(ranked),
			At:        snap.ScrapedAt,
		})
	}
	return nil
}
