package schedule

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Ingestor runs the full pipeline for one genre.
type Ingestor interface {
	IngestGenre(ctx context.Context, code string) error
}

// Freshness reports when a genre last completed ingestion.
type Freshness interface {
	GenreLastUpdated(ctx context.Context, code string) (time.Time, bool, error)
}

// Scheduler walks the genre list round-robin. Each Tick handles exactly
// one genre: skip it if fresh, ingest it if stale, and advance the cursor
// either way. Advancing on failure keeps one broken genre from jamming
// the whole rotation.
type Scheduler struct {
	Genres    []string
	Cursor    *CursorStore
	Ingestor  Ingestor
	Freshness Freshness
	TTL       time.Duration

	// Tick is reachable from both the interval loop and the cron endpoint;
	// mu keeps the load-ingest-save sequence atomic so each tick advances
	// the cursor exactly once.
	mu  sync.Mutex
	now func() time.Time
}

func NewScheduler(genres []string, cursor *CursorStore, ing Ingestor, fresh Freshness) *Scheduler {
	return &Scheduler{
		Genres:    genres,
		Cursor:    cursor,
		Ingestor:  ing,
		Freshness: fresh,
		TTL:       24 * time.Hour,
		now:       time.Now,
	}
}

// Tick processes the genre under the cursor and returns its code. The
// returned error reflects ingestion only; cursor advancement has already
// happened by the time it is reported.
func (s *Scheduler) Tick(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.Genres) == 0 {
		return "", fmt.Errorf("scheduler: empty genre list")
	}

	idx, err := s.Cursor.Load(ctx)
	if err != nil {
		return "", err
	}
	idx = idx % len(s.Genres)
	code := s.Genres[idx]

	var ingestErr error
	stale, err := s.isStale(ctx, code)
	if err != nil {
		ingestErr = err
	} else if !stale {
		log.Printf("[schedule] %s still fresh, skipping", code)
	} else {
		ingestErr = s.Ingestor.IngestGenre(ctx, code)
		if ingestErr != nil {
			log.Printf("[schedule] %s: ingest failed: %v", code, ingestErr)
		}
	}

	next := (idx + 1) % len(s.Genres)
	if err := s.Cursor.Save(ctx, next); err != nil {
		// cursor persistence failing is worse than a single bad cycle
		return code, err
	}
	return code, ingestErr
}

func (s *Scheduler) isStale(ctx context.Context, code string) (bool, error) {
	last, ok, err := s.Freshness.GenreLastUpdated(ctx, code)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return s.now().Sub(last) > s.TTL, nil
}

// Run drives Tick on a fixed interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[schedule] rotation started, interval %s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("[schedule] rotation stopped")
			return
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				// already logged; keep rotating
				continue
			}
		}
	}
}
