package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"melonhub/internal/testsupport"
)

type fakeIngestor struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeIngestor) IngestGenre(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, code)
	return f.err
}

type fakeFreshness struct {
	updated map[string]time.Time
}

func (f *fakeFreshness) GenreLastUpdated(ctx context.Context, code string) (time.Time, bool, error) {
	t, ok := f.updated[code]
	return t, ok, nil
}

func newTestScheduler(t *testing.T, genres []string, ing Ingestor, fresh Freshness) *Scheduler {
	t.Helper()
	db := testsupport.MustOpenDB(t)
	return NewScheduler(genres, NewCursorStore(db), ing, fresh)
}

func TestTickIngestsStaleGenreAndAdvances(t *testing.T) {
	ing := &fakeIngestor{}
	s := newTestScheduler(t, []string{"DM0000", "GN0100"}, ing, &fakeFreshness{})

	code, err := s.Tick(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if code != "DM0000" {
		t.Fatalf("ticked %s, want DM0000", code)
	}
	if len(ing.calls) != 1 || ing.calls[0] != "DM0000" {
		t.Fatalf("ingested %v", ing.calls)
	}

	idx, err := s.Cursor.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if idx != 1 {
		t.Fatalf("cursor = %d, want 1", idx)
	}
}

func TestTickSkipsFreshGenre(t *testing.T) {
	ing := &fakeIngestor{}
	fresh := &fakeFreshness{updated: map[string]time.Time{
		"DM0000": time.Now().Add(-1 * time.Hour),
	}}
	s := newTestScheduler(t, []string{"DM0000", "GN0100"}, ing, fresh)

	if _, err := s.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(ing.calls) != 0 {
		t.Fatalf("fresh genre should be skipped, ingested %v", ing.calls)
	}

	// cursor still advances past the skipped genre
	idx, _ := s.Cursor.Load(context.Background())
	if idx != 1 {
		t.Fatalf("cursor = %d, want 1", idx)
	}
}

func TestTickAdvancesOnIngestFailure(t *testing.T) {
	ing := &fakeIngestor{err: errors.New("browser crashed")}
	s := newTestScheduler(t, []string{"DM0000", "GN0100"}, ing, &fakeFreshness{})

	_, err := s.Tick(context.Background())
	if err == nil {
		t.Fatal("ingest error should surface")
	}

	idx, _ := s.Cursor.Load(context.Background())
	if idx != 1 {
		t.Fatalf("cursor = %d, want 1 even after failure", idx)
	}
}

func TestTickWrapsAround(t *testing.T) {
	ing := &fakeIngestor{}
	s := newTestScheduler(t, []string{"DM0000", "GN0100"}, ing, &fakeFreshness{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.Tick(ctx); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"DM0000", "GN0100", "DM0000"}
	if len(ing.calls) != len(want) {
		t.Fatalf("calls = %v", ing.calls)
	}
	for i, w := range want {
		if ing.calls[i] != w {
			t.Fatalf("call %d = %s, want %s", i, ing.calls[i], w)
		}
	}

	idx, _ := s.Cursor.Load(ctx)
	if idx != 1 {
		t.Fatalf("cursor = %d, want 1 after wrap", idx)
	}
}

func TestConcurrentTicksAdvanceOncePerTick(t *testing.T) {
	// the interval loop and the cron endpoint can fire at the same time;
	// each tick must still take its own genre and advance the cursor once
	ing := &fakeIngestor{}
	s := newTestScheduler(t, []string{"DM0000", "GN0100"}, ing, &fakeFreshness{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Tick(ctx); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	ing.mu.Lock()
	calls := append([]string(nil), ing.calls...)
	ing.mu.Unlock()

	if len(calls) != 2 {
		t.Fatalf("expected both genres ingested once, got %v", calls)
	}
	if calls[0] == calls[1] {
		t.Fatalf("same genre ticked twice: %v", calls)
	}

	idx, err := s.Cursor.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 0 {
		t.Fatalf("cursor = %d, want 0 after full rotation", idx)
	}
}

func TestTickTreatsOldUpdateAsStale(t *testing.T) {
	ing := &fakeIngestor{}
	fresh := &fakeFreshness{updated: map[string]time.Time{
		"DM0000": time.Now().Add(-25 * time.Hour),
	}}
	s := newTestScheduler(t, []string{"DM0000"}, ing, fresh)

	if _, err := s.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(ing.calls) != 1 {
		t.Fatalf("25h-old genre should be re-ingested, calls=%v", ing.calls)
	}
}
