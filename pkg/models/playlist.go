package models

import "time"

type Playlist struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	SongCount int       `json:"song_count,omitempty"`
}

type PlaylistSong struct {
	PlaylistID string    `json:"playlist_id"`
	SongID     int64     `json:"song_id"`
	AddedAt    time.Time `json:"added_at"`
}
