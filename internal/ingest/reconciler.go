package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"melonhub/internal/chart"
	"melonhub/pkg/models"
)

// Outcome tags which reconciliation branch fired for an entry.
type Outcome int

const (
	// OutcomeNew: no song row existed for (title, artist).
	OutcomeNew Outcome = iota
	// OutcomeMatched: an existing row was updated in place.
	OutcomeMatched
	// OutcomeKeyDrift: the entry's Melon key pointed at a song with
	// different metadata; the stale song and its dependents were deleted
	// before the fresh row was created.
	OutcomeKeyDrift
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeKeyDrift:
		return "key_drift"
	default:
		return "new"
	}
}

// ReconciledSong is one entry after persistence, with its outcome tag.
type ReconciledSong struct {
	SongID  int64
	Entry   chart.RawEntry
	Outcome Outcome
}

// Snapshot is the committed result of one reconcile pass for a genre.
type Snapshot struct {
	GenreID   int64
	GenreCode string
	Songs     []ReconciledSong
	Dropped   []int64 // song ids whose rank was set to the drop-off sentinel
	ScrapedAt time.Time
}

// Reconciler folds scraped chart entries into the store. One call is one
// transaction: either the full genre snapshot commits or nothing does.
type Reconciler struct {
	DB *sql.DB
}

func NewReconciler(db *sql.DB) *Reconciler {
	return &Reconciler{DB: db}
}

func (r *Reconciler) Reconcile(ctx context.Context, genreCode string, entries []chart.RawEntry) (*Snapshot, error) {
	now := time.Now()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("reconcile %s: begin tx: %w", genreCode, err)
	}
	defer tx.Rollback()

	genreID, err := upsertGenre(ctx, tx, genreCode)
	if err != nil {
		return nil, err
	}

	previous, err := rankedSongIDs(ctx, tx, genreID)
	if err != nil {
		return nil, err
	}

	artistIDs, err := upsertArtists(ctx, tx, entries)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{GenreID: genreID, GenreCode: genreCode, ScrapedAt: now}
	current := make(map[int64]struct{}, len(entries))

	for _, e := range entries {
		rec, err := upsertSong(ctx, tx, e, artistIDs[e.Artist], now)
		if err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO song_rankings (song_id, genre_id, rank, movement, scraped_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(song_id, genre_id) DO UPDATE SET
				rank = excluded.rank,
				movement = excluded.movement,
				scraped_at = excluded.scraped_at
		`, rec.SongID, genreID, e.Rank, e.Movement, now); err != nil {
			return nil, fmt.Errorf("upsert ranking for song %d: %w", rec.SongID, err)
		}

		current[rec.SongID] = struct{}{}
		snap.Songs = append(snap.Songs, rec)
	}

	// songs ranked before this pass but absent now drop to the sentinel;
	// the row stays so chart history is preserved
	for _, id := range previous {
		if _, ok := current[id]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE song_rankings SET rank = 0
			WHERE song_id = ? AND genre_id = ? AND rank <> 0
		`, id, genreID); err != nil {
			return nil, fmt.Errorf("mark drop-off for song %d: %w", id, err)
		}
		snap.Dropped = append(snap.Dropped, id)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE genres SET last_updated = ? WHERE id = ?
	`, now, genreID); err != nil {
		return nil, fmt.Errorf("touch genre %s: %w", genreCode, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("reconcile %s: commit: %w", genreCode, err)
	}

	log.Printf("[ingest] %s: %d songs reconciled, %d dropped off", genreCode, len(snap.Songs), len(snap.Dropped))
	return snap, nil
}

func upsertGenre(ctx context.Context, tx *sql.Tx, code string) (int64, error) {
	// last_updated is deliberately untouched here; it moves only when the
	// whole pass commits
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO genres (code, name) VALUES (?, ?)
		ON CONFLICT(code) DO UPDATE SET name = excluded.name
	`, code, models.GenreName(code)); err != nil {
		return 0, fmt.Errorf("upsert genre %s: %w", code, err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM genres WHERE code = ?`, code).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup genre %s: %w", code, err)
	}
	return id, nil
}

func rankedSongIDs(ctx context.Context, tx *sql.Tx, genreID int64) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT song_id FROM song_rankings WHERE genre_id = ? AND rank <> 0
	`, genreID)
	if err != nil {
		return nil, fmt.Errorf("list ranked songs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan ranked song: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// upsertArtists inserts every unique artist display name. Artist identity is
// exact-name match only, no fuzzing.
func upsertArtists(ctx context.Context, tx *sql.Tx, entries []chart.RawEntry) (map[string]int64, error) {
	ids := make(map[string]int64, len(entries))
	for _, e := range entries {
		if _, ok := ids[e.Artist]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO artists (name) VALUES (?) ON CONFLICT(name) DO NOTHING
		`, e.Artist); err != nil {
			return nil, fmt.Errorf("upsert artist %q: %w", e.Artist, err)
		}
		var id int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM artists WHERE name = ?`, e.Artist).Scan(&id); err != nil {
			return nil, fmt.Errorf("lookup artist %q: %w", e.Artist, err)
		}
		ids[e.Artist] = id
	}
	return ids, nil
}

func upsertSong(ctx context.Context, tx *sql.Tx, e chart.RawEntry, artistID int64, now time.Time) (ReconciledSong, error) {
	rec := ReconciledSong{Entry: e, Outcome: OutcomeNew}

	if e.MelonSongID != 0 {
		drifted, err := resolveKeyDrift(ctx, tx, e, artistID)
		if err != nil {
			return rec, err
		}
		if drifted {
			rec.Outcome = OutcomeKeyDrift
		}
	}

	if rec.Outcome != OutcomeKeyDrift {
		var existing int64
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM songs WHERE title = ? AND artist_id = ?
		`, e.Title, artistID).Scan(&existing)
		switch {
		case err == nil:
			rec.Outcome = OutcomeMatched
		case err != sql.ErrNoRows:
			return rec, fmt.Errorf("lookup song %q: %w", e.Title, err)
		}
	}

	var key any
	if e.MelonSongID != 0 {
		key = e.MelonSongID
	}

	// a populated key is never overwritten by a later pass; only fill when
	// NULL/zero
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO songs (title, artist_id, album, art, melon_song_id, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(title, artist_id) DO UPDATE SET
			album = excluded.album,
			art = excluded.art,
			melon_song_id = CASE
				WHEN songs.melon_song_id IS NULL OR songs.melon_song_id = 0
				THEN excluded.melon_song_id
				ELSE songs.melon_song_id
			END,
			scraped_at = excluded.scraped_at
	`, e.Title, artistID, e.Album, e.ArtURL, key, now); err != nil {
		return rec, fmt.Errorf("upsert song %q: %w", e.Title, err)
	}

	if err := tx.QueryRowContext(ctx, `
		SELECT id FROM songs WHERE title = ? AND artist_id = ?
	`, e.Title, artistID).Scan(&rec.SongID); err != nil {
		return rec, fmt.Errorf("lookup song id %q: %w", e.Title, err)
	}
	return rec, nil
}

// resolveKeyDrift checks whether the entry's Melon key already points at a
// song with a different (title, artist, album) triple. The chart site
// occasionally reassigns its ids; when that happens the stale song and its
// dependent rows are removed so links never stay attached to the wrong song.
// Delete order matters for foreign keys: lyrics, rankings, then the song.
func resolveKeyDrift(ctx context.Context, tx *sql.Tx, e chart.RawEntry, artistID int64) (bool, error) {
	var (
		existingID       int64
		existingTitle    string
		existingArtistID int64
		existingAlbum    sql.NullString
	)
	err := tx.QueryRowContext(ctx, `
		SELECT id, title, artist_id, album FROM songs WHERE melon_song_id = ?
	`, e.MelonSongID).Scan(&existingID, &existingTitle, &existingArtistID, &existingAlbum)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup song by key %d: %w", e.MelonSongID, err)
	}

	if existingTitle == e.Title && existingArtistID == artistID && existingAlbum.String == e.Album {
		return false, nil
	}

	log.Printf("[ingest] key drift on melon id %d: %q is now %q, replacing", e.MelonSongID, existingTitle, e.Title)

	for _, q := range []string{
		`DELETE FROM song_lyrics WHERE song_id = ?`,
		`DELETE FROM song_rankings WHERE song_id = ?`,
		`DELETE FROM playlist_songs WHERE song_id = ?`,
		`DELETE FROM songs WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, existingID); err != nil {
			return false, fmt.Errorf("remove drifted song %d: %w", existingID, err)
		}
	}
	return true, nil
}
