package enrich

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"melonhub/pkg/models"
)

// Provider name constants double as the keys of the breaker set and of the
// link-column mapping.
const (
	ProviderYouTube    = "youtube"
	ProviderSpotify    = "spotify"
	ProviderAppleMusic = "applemusic"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// SetLink writes a resolved link for one song. Each write is independent so
// a failing song never blocks the rest of the batch.
func (r *Repo) SetLink(ctx context.Context, songID int64, provider, url string) error {
	var err error
	switch provider {
	case ProviderYouTube:
		_, err = r.DB.ExecContext(ctx, `
			UPDATE songs SET youtube_url = ?, youtube_last_updated = ? WHERE id = ?
		`, url, time.Now(), songID)
	case ProviderSpotify:
		_, err = r.DB.ExecContext(ctx, `
			UPDATE songs SET spotify_url = ? WHERE id = ?
		`, url, songID)
	case ProviderAppleMusic:
		_, err = r.DB.ExecContext(ctx, `
			UPDATE songs SET apple_music_url = ? WHERE id = ?
		`, url, songID)
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}
	if err != nil {
		return fmt.Errorf("set %s link for song %d: %w", provider, songID, err)
	}
	return nil
}

// HasLink reports whether the song already carries a link for the provider.
// Populated links are never re-attempted.
func HasLink(s models.Song, provider string) bool {
	switch provider {
	case ProviderYouTube:
		return s.YouTubeURL != ""
	case ProviderSpotify:
		return s.SpotifyURL != ""
	case ProviderAppleMusic:
		return s.AppleMusicURL != ""
	default:
		return true
	}
}
