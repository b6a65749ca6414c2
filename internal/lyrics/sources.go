package lyrics

import (
	"context"
	"errors"
)

// ErrNotFound means a source had no lyrics for the song. Callers treat it
// as a normal miss, not a failure.
var ErrNotFound = errors.New("lyrics not found")

// TranslatedSource locates English-translation lyrics by title and artist.
type TranslatedSource interface {
	Fetch(ctx context.Context, title, artist string) (string, error)
}

// BackupSource scrapes original-language lyrics by the chart site's own
// song id.
type BackupSource interface {
	Fetch(ctx context.Context, melonSongID int64) (string, error)
}
