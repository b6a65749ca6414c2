package enrich

import (
	"context"
	"sync"
	"testing"

	"melonhub/internal/testsupport"
	"melonhub/pkg/models"
)

type fakeProvider struct {
	name string

	mu      sync.Mutex
	calls   int
	results []Candidate
	err     error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, query string) ([]Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestEnrichGenreWritesLinks(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	songID := testsupport.MustSeedSong(t, db, "Love Dive", "IVE", "LOVE DIVE", 100)

	p := &fakeProvider{
		name: ProviderSpotify,
		results: []Candidate{
			{Title: "Love Dive", Album: "LOVE DIVE", Artists: []string{"IVE"}, URL: "https://open.spotify.com/track/x"},
		},
	}
	o := NewOrchestrator(NewRepo(db), NewBreakerSet(), p)
	o.Concurrency = 1

	o.EnrichGenre(context.Background(), []models.Song{
		{ID: songID, Title: "Love Dive", Artist: "IVE", Album: "LOVE DIVE"},
	})

	var url string
	if err := db.QueryRow(`SELECT spotify_url FROM songs WHERE id = ?`, songID).Scan(&url); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if url != "https://open.spotify.com/track/x" {
		t.Fatalf("spotify_url = %q", url)
	}
}

func TestEnrichGenreSkipsPopulatedLinks(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	songID := testsupport.MustSeedSong(t, db, "Ditto", "NewJeans", "OMG", 101)
	if _, err := db.Exec(`UPDATE songs SET spotify_url = 'existing' WHERE id = ?`, songID); err != nil {
		t.Fatal(err)
	}

	p := &fakeProvider{name: ProviderSpotify}
	o := NewOrchestrator(NewRepo(db), NewBreakerSet(), p)
	o.Concurrency = 1

	o.EnrichGenre(context.Background(), []models.Song{
		{ID: songID, Title: "Ditto", Artist: "NewJeans", Album: "OMG", SpotifyURL: "existing"},
	})

	if p.callCount() != 0 {
		t.Fatalf("provider called %d times for an already-linked song", p.callCount())
	}
}

func TestQuotaTripsBreakerAndStopsCalls(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	ids := []int64{
		testsupport.MustSeedSong(t, db, "Song A", "Artist A", "", 1),
		testsupport.MustSeedSong(t, db, "Song B", "Artist B", "", 2),
		testsupport.MustSeedSong(t, db, "Song C", "Artist C", "", 3),
	}

	quota := &fakeProvider{name: ProviderYouTube, err: ErrQuotaExceeded}
	healthy := &fakeProvider{
		name: ProviderSpotify,
		results: []Candidate{
			{Title: "Song A", Artists: []string{"Artist A"}, URL: "spotify-url"},
		},
	}

	breakers := NewBreakerSet()
	o := NewOrchestrator(NewRepo(db), breakers, quota, healthy)
	o.Concurrency = 1

	songs := make([]models.Song, 0, len(ids))
	for i, id := range ids {
		songs = append(songs, models.Song{ID: id, Title: "Song " + string(rune('A'+i)), Artist: "Artist " + string(rune('A'+i))})
	}
	o.EnrichGenre(context.Background(), songs)

	// first quota response trips the breaker; everything after short-circuits
	if quota.callCount() != 1 {
		t.Fatalf("quota provider called %d times, want 1", quota.callCount())
	}
	if !breakers.Tripped(ProviderYouTube) {
		t.Fatal("youtube breaker should be tripped")
	}

	// the other provider keeps going
	if breakers.Tripped(ProviderSpotify) {
		t.Fatal("spotify breaker must be unaffected")
	}
	if healthy.callCount() == 0 {
		t.Fatal("healthy provider should have been called")
	}

	var ytURL *string
	if err := db.QueryRow(`SELECT youtube_url FROM songs WHERE id = ?`, ids[0]).Scan(&ytURL); err != nil {
		t.Fatal(err)
	}
	if ytURL != nil {
		t.Fatalf("no youtube link should be written, got %q", *ytURL)
	}
}
