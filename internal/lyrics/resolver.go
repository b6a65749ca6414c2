package lyrics

import (
	"context"
	"errors"
	"log"
	"time"

	"melonhub/pkg/models"
)

// DefaultStaleAfter is how long an untranslated record is trusted before
// the translated source is tried again.
const DefaultStaleAfter = 30 * 24 * time.Hour

// Resolver walks a song's lyrics through its states: no record yet,
// untranslated (fresh or stale), translated. Translated is terminal.
type Resolver struct {
	Repo       *Repo
	Translated TranslatedSource
	Backup     BackupSource // optional
	StaleAfter time.Duration

	now func() time.Time
}

func NewResolver(repo *Repo, translated TranslatedSource, backup BackupSource) *Resolver {
	return &Resolver{
		Repo:       repo,
		Translated: translated,
		Backup:     backup,
		StaleAfter: DefaultStaleAfter,
		now:        time.Now,
	}
}

// Resolve returns the lyrics for a song, fetching and storing them on
// first use. ErrNotFound means both sources came up empty; nothing is
// stored in that case so the next call tries again.
func (r *Resolver) Resolve(ctx context.Context, song models.Song) (string, error) {
	rec, err := r.Repo.Get(ctx, song.ID)
	if err != nil {
		return "", err
	}

	if rec == nil {
		return r.resolveFresh(ctx, song)
	}
	if rec.Translated {
		return rec.Lyrics, nil
	}
	if r.now().Sub(rec.UpdatedAt) <= r.StaleAfter {
		return rec.Lyrics, nil
	}

	// stale untranslated record: one more shot at the translated source
	text, err := r.fetchTranslated(ctx, song)
	if err == nil {
		if err := r.Repo.Upsert(ctx, song.ID, text, true); err != nil {
			return "", err
		}
		log.Printf("[lyrics] song %d: translation found on re-check", song.ID)
		return text, nil
	}

	// still nothing; push the next re-check out a full window
	if err := r.Repo.Touch(ctx, song.ID); err != nil {
		return "", err
	}
	return rec.Lyrics, nil
}

func (r *Resolver) resolveFresh(ctx context.Context, song models.Song) (string, error) {
	if text, err := r.fetchTranslated(ctx, song); err == nil {
		if err := r.Repo.Upsert(ctx, song.ID, text, true); err != nil {
			return "", err
		}
		return text, nil
	}

	if r.Backup != nil && song.MelonSongID != 0 {
		raw, err := r.Backup.Fetch(ctx, song.MelonSongID)
		if err == nil {
			text := Clean(raw)
			if err := r.Repo.Upsert(ctx, song.ID, text, false); err != nil {
				return "", err
			}
			return text, nil
		}
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[lyrics] song %d: backup source: %v", song.ID, err)
		}
	}
	return "", ErrNotFound
}

func (r *Resolver) fetchTranslated(ctx context.Context, song models.Song) (string, error) {
	raw, err := r.Translated.Fetch(ctx, song.Title, song.Artist)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[lyrics] song %d: translated source: %v", song.ID, err)
		}
		return "", ErrNotFound
	}
	return Clean(raw), nil
}
