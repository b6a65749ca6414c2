package live

import "time"

// Event types pushed to subscribers.
const (
	ChartUpdatedEventType = "chart.updated"
	LinkFoundEventType    = "link.found"
)

// ChartEvent announces that a genre's chart finished an ingestion cycle.
type ChartEvent struct {
	Type      string    `json:"type"`
	Genre     string    `json:"genre"`
	GenreName string    `json:"genre_name"`
	Songs     int       `json:"songs"`
	At        time.Time `json:"at"`
}

// LinkEvent announces a newly resolved streaming link for a song.
type LinkEvent struct {
	Type     string    `json:"type"`
	SongID   int64     `json:"song_id"`
	Provider string    `json:"provider"`
	URL      string    `json:"url"`
	At       time.Time `json:"at"`
}
