package models

import "time"

// Genre is one Melon chart category. Identity is the Melon class code
// (e.g. "GN0200"); LastUpdated is bumped only after a fully committed
// ingestion cycle.
type Genre struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	LastUpdated time.Time `json:"last_updated,omitempty"`
}

// GenreNames maps Melon genre class codes to display names.
var GenreNames = map[string]string{
	"DM0000": "Top 100",
	"GN0100": "Ballads",
	"GN0200": "K-Pop",
	"GN0300": "K-Rap",
	"GN0400": "R&B",
	"GN0500": "Indie",
	"GN0600": "Rock",
	"GN0700": "Trot",
	"GN0800": "Folk",
	"GN1500": "OST",
	"GN1700": "Jazz",
	"GN1800": "New Age",
	"GN1900": "J-Pop",
	"GN2200": "Children",
	"GN2400": "Korean Traditional",
}

// GenreCodes is the rotation order for the scheduler. Kept as an explicit
// slice because map iteration order is not stable.
var GenreCodes = []string{
	"DM0000", "GN0100", "GN0200", "GN0300", "GN0400",
	"GN0500", "GN0600", "GN0700", "GN0800", "GN1500",
	"GN1700", "GN1800", "GN1900", "GN2200", "GN2400",
}

// GenreName returns the display name for a code, or "Unknown".
func GenreName(code string) string {
	if n, ok := GenreNames[code]; ok {
		return n
	}
	return "Unknown"
}
