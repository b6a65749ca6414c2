package lyrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"melonhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Get returns the stored lyrics record for a song, or nil when none
// exists.
func (r *Repo) Get(ctx context.Context, songID int64) (*models.LyricsRecord, error) {
	var rec models.LyricsRecord
	err := r.DB.QueryRowContext(ctx, `
		SELECT song_id, lyrics, is_translated, updated_at
		FROM song_lyrics WHERE song_id = ?
	`, songID).Scan(&rec.SongID, &rec.Lyrics, &rec.Translated, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lyrics for song %d: %w", songID, err)
	}
	return &rec, nil
}

// Upsert stores lyrics for a song, replacing any previous record.
func (r *Repo) Upsert(ctx context.Context, songID int64, text string, translated bool) error {
	if _, err := r.DB.ExecContext(ctx, `
		INSERT INTO song_lyrics (song_id, lyrics, is_translated, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(song_id) DO UPDATE SET
			lyrics = excluded.lyrics,
			is_translated = excluded.is_translated,
			updated_at = excluded.updated_at
	`, songID, text, translated, time.Now()); err != nil {
		return fmt.Errorf("upsert lyrics for song %d: %w", songID, err)
	}
	return nil
}

// Touch refreshes updated_at without changing the stored text. Used after
// a stale re-check that found nothing better, so the next re-check waits a
// full window again.
func (r *Repo) Touch(ctx context.Context, songID int64) error {
	if _, err := r.DB.ExecContext(ctx, `
		UPDATE song_lyrics SET updated_at = ? WHERE song_id = ?
	`, time.Now(), songID); err != nil {
		return fmt.Errorf("touch lyrics for song %d: %w", songID, err)
	}
	return nil
}

// FindSong looks a song up by its display title and artist name, the shape
// the lyrics endpoint receives. Returns nil when unknown.
func (r *Repo) FindSong(ctx context.Context, title, artist string) (*models.Song, error) {
	var (
		s       models.Song
		melonID sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT s.id, s.title, s.artist_id, a.name, s.melon_song_id
		FROM songs s JOIN artists a ON a.id = s.artist_id
		WHERE s.title = ? AND a.name = ?
	`, title, artist).Scan(&s.ID, &s.Title, &s.ArtistID, &s.Artist, &melonID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find song %q by %q: %w", title, artist, err)
	}
	s.MelonSongID = melonID.Int64
	return &s, nil
}
