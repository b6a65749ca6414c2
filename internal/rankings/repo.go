package rankings

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

// ListByGenre returns the current chart for a genre code, best rank first.
// Songs that dropped off (rank 0) are excluded; their rows survive for
// playlists and history.
func (r *Repo) ListByGenre(ctx context.Context, code string) ([]models.RankedSong, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT s.id, s.title, a.name, s.album, s.art, s.melon_song_id,
		       s.youtube_url, s.youtube_last_updated, s.spotify_url, s.apple_music_url,
		       s.scraped_at, sr.rank, sr.movement, sl.lyrics
		FROM song_rankings sr
		JOIN songs s   ON s.id = sr.song_id
		JOIN artists a ON a.id = s.artist_id
		JOIN genres g  ON g.id = sr.genre_id
		LEFT JOIN song_lyrics sl ON sl.song_id = s.id
		WHERE g.code = ? AND sr.rank <> 0
		ORDER BY sr.rank ASC
	`, code)
	if err != nil {
		return nil, fmt.Errorf("list rankings for %s: %w", code, err)
	}
	defer rows.Close()

	var out []models.RankedSong
	for rows.Next() {
		var (
			rs        models.RankedSong
			album     sql.NullString
			art       sql.NullString
			melonID   sql.NullInt64
			ytURL     sql.NullString
			ytUpdated sql.NullTime
			spURL     sql.NullString
			amURL     sql.NullString
			lyrics    sql.NullString
		)
		if err := rows.Scan(
			&rs.ID, &rs.Title, &rs.Artist, &album, &art, &melonID,
			&ytURL, &ytUpdated, &spURL, &amURL,
			&rs.ScrapedAt, &rs.Rank, &rs.Movement, &lyrics,
		); err != nil {
			return nil, fmt.Errorf("scan ranking row: %w", err)
		}
		rs.Album = album.String
		rs.ArtURL = art.String
		rs.MelonSongID = melonID.Int64
		rs.YouTubeURL = ytURL.String
		rs.YouTubeLastUpdated = ytUpdated.Time
		rs.SpotifyURL = spURL.String
		rs.AppleMusicURL = amURL.String
		if lyrics.Valid {
			l := lyrics.String
			rs.Lyrics = &l
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// GenreLastUpdated reports when the genre last completed an ingestion
// pass. ok is false when the genre has never been ingested.
func (r *Repo) GenreLastUpdated(ctx context.Context, code string) (time.Time, bool, error) {
	var t sql.NullTime
	err := r.DB.QueryRowContext(ctx, `
		SELECT last_updated FROM genres WHERE code = ?
	`, code).Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("lookup genre %s: %w", code, err)
	}
	if !t.Valid {
		return time.Time{}, false, nil
	}
	return t.Time, true, nil
}

// ListGenres returns every genre row, ingested or not.
func (r *Repo) ListGenres(ctx context.Context) ([]models.Genre, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, code, name, last_updated FROM genres ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	var out []models.Genre
	for rows.Next() {
		var (
			g  models.Genre
			lu sql.NullTime
		)
		if err := rows.Scan(&g.ID, &g.Code, &g.Name, &lu); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		g.LastUpdated = lu.Time
		out = append(out, g)
	}
	return out, rows.Err()
}
