package models

import "time"

// Song is a chart track as stored. Internal identity is (Title, ArtistID);
// MelonSongID is the chart site's own id and is only used to detect when the
// upstream reassigns a key to different metadata (key drift). 0 means "no
// key observed yet".
type Song struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	ArtistID           int64     `json:"artist_id"`
	Artist             string    `json:"artist"`
	Album              string    `json:"album,omitempty"`
	ArtURL             string    `json:"art,omitempty"`
	MelonSongID        int64     `json:"melon_song_id,omitempty"`
	YouTubeURL         string    `json:"youtube_url,omitempty"`
	YouTubeLastUpdated time.Time `json:"youtube_last_updated,omitempty"`
	SpotifyURL         string    `json:"spotify_url,omitempty"`
	AppleMusicURL      string    `json:"apple_music_url,omitempty"`
	ScrapedAt          time.Time `json:"scraped_at,omitempty"`
}

// RankedSong is the read-path shape: a song joined with its position in one
// genre's chart. Rank 0 (dropped off) rows never reach callers.
type RankedSong struct {
	Song
	Rank     int     `json:"rank"`
	Movement string  `json:"movement"`
	Lyrics   *string `json:"lyrics"`
}
