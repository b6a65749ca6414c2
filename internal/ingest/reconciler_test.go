package ingest

import (
	"context"
	"testing"

	"melonhub/internal/chart"
	"melonhub/internal/testsupport"
)

func entry(rank int, title, artist string, key int64) chart.RawEntry {
	return chart.RawEntry{
		Rank:        rank,
		Title:       title,
		Artist:      artist,
		Album:       "Album " + title,
		MelonSongID: key,
		Movement:    "-",
	}
}

func TestReconcileIdempotent(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	r := NewReconciler(db)
	ctx := context.Background()

	entries := []chart.RawEntry{
		entry(1, "Love Dive", "IVE", 100),
		entry(2, "Ditto", "NewJeans", 200),
	}

	if _, err := r.Reconcile(ctx, "GN0200", entries); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	snap, err := r.Reconcile(ctx, "GN0200", entries)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	var songs, artists, ranks int
	if err := db.QueryRow(`SELECT COUNT(*) FROM songs`).Scan(&songs); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM artists`).Scan(&artists); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM song_rankings`).Scan(&ranks); err != nil {
		t.Fatal(err)
	}
	if songs != 2 || artists != 2 || ranks != 2 {
		t.Fatalf("got %d songs, %d artists, %d rankings; want 2 each", songs, artists, ranks)
	}

	for _, s := range snap.Songs {
		if s.Outcome != OutcomeMatched {
			t.Fatalf("second pass outcome for %q = %s, want matched", s.Entry.Title, s.Outcome)
		}
	}
	if len(snap.Dropped) != 0 {
		t.Fatalf("identical pass dropped %v", snap.Dropped)
	}
}

func TestReconcileDropOff(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	r := NewReconciler(db)
	ctx := context.Background()

	first := []chart.RawEntry{
		entry(1, "Song A", "X", 1),
		entry(2, "Song B", "Y", 2),
	}
	if _, err := r.Reconcile(ctx, "DM0000", first); err != nil {
		t.Fatal(err)
	}

	second := []chart.RawEntry{entry(1, "Song B", "Y", 2)}
	snap, err := r.Reconcile(ctx, "DM0000", second)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Dropped) != 1 {
		t.Fatalf("expected 1 dropped song, got %v", snap.Dropped)
	}

	var rankA, rankB int
	if err := db.QueryRow(`
		SELECT sr.rank FROM song_rankings sr
		JOIN songs s ON s.id = sr.song_id WHERE s.title = 'Song A'
	`).Scan(&rankA); err != nil {
		t.Fatalf("song A row should survive drop-off: %v", err)
	}
	if err := db.QueryRow(`
		SELECT sr.rank FROM song_rankings sr
		JOIN songs s ON s.id = sr.song_id WHERE s.title = 'Song B'
	`).Scan(&rankB); err != nil {
		t.Fatal(err)
	}
	if rankA != 0 {
		t.Fatalf("dropped song rank = %d, want sentinel 0", rankA)
	}
	if rankB != 1 {
		t.Fatalf("remaining song rank = %d, want 1", rankB)
	}
}

func TestReconcileSameRankSwap(t *testing.T) {
	// rank 1 "A" replaced by rank 1 "B": A drops to 0, B takes rank 1
	db := testsupport.MustOpenDB(t)
	r := NewReconciler(db)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, "GN0300", []chart.RawEntry{entry(1, "A", "X", 0)}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Reconcile(ctx, "GN0300", []chart.RawEntry{entry(1, "B", "X", 0)}); err != nil {
		t.Fatal(err)
	}

	var rank int
	if err := db.QueryRow(`
		SELECT sr.rank FROM song_rankings sr JOIN songs s ON s.id = sr.song_id
		WHERE s.title = 'A'
	`).Scan(&rank); err != nil {
		t.Fatal(err)
	}
	if rank != 0 {
		t.Fatalf("song A rank = %d, want 0", rank)
	}
	if err := db.QueryRow(`
		SELECT sr.rank FROM song_rankings sr JOIN songs s ON s.id = sr.song_id
		WHERE s.title = 'B'
	`).Scan(&rank); err != nil {
		t.Fatal(err)
	}
	if rank != 1 {
		t.Fatalf("song B rank = %d, want 1", rank)
	}
}

func TestReconcileKeyDrift(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	r := NewReconciler(db)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, "GN0400", []chart.RawEntry{entry(1, "Old Title", "Old Artist", 777)}); err != nil {
		t.Fatal(err)
	}

	var oldID int64
	if err := db.QueryRow(`SELECT id FROM songs WHERE title = 'Old Title'`).Scan(&oldID); err != nil {
		t.Fatal(err)
	}
	// attach a lyrics row so the dependent-delete chain is exercised
	if _, err := db.Exec(`
		INSERT INTO song_lyrics (song_id, lyrics, is_translated, updated_at)
		VALUES (?, 'old lyrics', 1, CURRENT_TIMESTAMP)
	`, oldID); err != nil {
		t.Fatal(err)
	}

	snap, err := r.Reconcile(ctx, "GN0400", []chart.RawEntry{entry(1, "New Title", "New Artist", 777)})
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Songs) != 1 || snap.Songs[0].Outcome != OutcomeKeyDrift {
		t.Fatalf("expected key_drift outcome, got %+v", snap.Songs)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM songs WHERE id = ?`, oldID).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal("stale song should be deleted")
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM song_lyrics WHERE song_id = ?`, oldID).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal("stale lyrics should be deleted")
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM songs WHERE melon_song_id = 777`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one song holding key 777, got %d", n)
	}
}

func TestReconcileKeepsPopulatedKey(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	r := NewReconciler(db)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, "GN0500", []chart.RawEntry{entry(5, "Song", "Artist", 42)}); err != nil {
		t.Fatal(err)
	}
	// second pass arrives without a usable key; the stored one must survive
	e := entry(5, "Song", "Artist", 0)
	if _, err := r.Reconcile(ctx, "GN0500", []chart.RawEntry{e}); err != nil {
		t.Fatal(err)
	}

	var key int64
	if err := db.QueryRow(`SELECT melon_song_id FROM songs WHERE title = 'Song'`).Scan(&key); err != nil {
		t.Fatal(err)
	}
	if key != 42 {
		t.Fatalf("melon_song_id = %d, want 42", key)
	}
}

func TestReconcileTouchesGenreLastUpdated(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	r := NewReconciler(db)

	if _, err := r.Reconcile(context.Background(), "GN0100", []chart.RawEntry{entry(1, "S", "A", 0)}); err != nil {
		t.Fatal(err)
	}

	var lastUpdated interface{}
	if err := db.QueryRow(`SELECT last_updated FROM genres WHERE code = 'GN0100'`).Scan(&lastUpdated); err != nil {
		t.Fatal(err)
	}
	if lastUpdated == nil {
		t.Fatal("last_updated should be set after a committed pass")
	}
}
