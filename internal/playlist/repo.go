package playlist

import (
	"context"
	"database/sql"
	"fmt"

	"melonhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, p models.Playlist) error {
	if _, err := r.DB.ExecContext(ctx, `
		INSERT INTO playlists (id, user_id, name) VALUES (?, ?, ?)
	`, p.ID, p.UserID, p.Name); err != nil {
		return fmt.Errorf("create playlist: %w", err)
	}
	return nil
}

// GetOwned returns the playlist only when it belongs to userID; nil
// otherwise. Every mutation goes through this check first.
func (r *Repo) GetOwned(ctx context.Context, id, userID string) (*models.Playlist, error) {
	var p models.Playlist
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at FROM playlists
		WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	return &p, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]models.Playlist, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.name, p.created_at, COUNT(ps.song_id)
		FROM playlists p
		LEFT JOIN playlist_songs ps ON ps.playlist_id = p.id
		WHERE p.user_id = ?
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var out []models.Playlist
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.SongCount); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	// playlist_songs rows go with it via ON DELETE CASCADE
	if _, err := r.DB.ExecContext(ctx, `
		DELETE FROM playlists WHERE id = ?
	`, id); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

func (r *Repo) AddSong(ctx context.Context, playlistID string, songID int64) error {
	if _, err := r.DB.ExecContext(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id) VALUES (?, ?)
		ON CONFLICT(playlist_id, song_id) DO NOTHING
	`, playlistID, songID); err != nil {
		return fmt.Errorf("add song %d: %w", songID, err)
	}
	return nil
}

func (r *Repo) RemoveSong(ctx context.Context, playlistID string, songID int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?
	`, playlistID, songID)
	if err != nil {
		return false, fmt.Errorf("remove song %d: %w", songID, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) ListSongs(ctx context.Context, playlistID string) ([]models.Song, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT s.id, s.title, s.artist_id, a.name, s.album, s.art,
		       s.youtube_url, s.spotify_url, s.apple_music_url
		FROM playlist_songs ps
		JOIN songs s   ON s.id = ps.song_id
		JOIN artists a ON a.id = s.artist_id
		WHERE ps.playlist_id = ?
		ORDER BY ps.added_at ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list playlist songs: %w", err)
	}
	defer rows.Close()

	var out []models.Song
	for rows.Next() {
		var (
			s     models.Song
			album sql.NullString
			art   sql.NullString
			yt    sql.NullString
			sp    sql.NullString
			am    sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.ArtistID, &s.Artist, &album, &art, &yt, &sp, &am); err != nil {
			return nil, fmt.Errorf("scan playlist song: %w", err)
		}
		s.Album = album.String
		s.ArtURL = art.String
		s.YouTubeURL = yt.String
		s.SpotifyURL = sp.String
		s.AppleMusicURL = am.String
		out = append(out, s)
	}
	return out, rows.Err()
}

// SongExists guards AddSong against dangling ids.
func (r *Repo) SongExists(ctx context.Context, songID int64) (bool, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM songs WHERE id = ?
	`, songID).Scan(&n); err != nil {
		return false, fmt.Errorf("check song %d: %w", songID, err)
	}
	return n > 0, nil
}
