package models

import "time"

// LyricsRecord holds at most one lyrics row per song. Translated=false means
// the lyrics came from the original-language backup source and are eligible
// for a monthly re-check against the translated source.
type LyricsRecord struct {
	SongID     int64     `json:"song_id"`
	Lyrics     string    `json:"lyrics"`
	Translated bool      `json:"is_translated"`
	UpdatedAt  time.Time `json:"updated_at"`
}
