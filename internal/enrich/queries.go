package enrich

import (
	"regexp"
	"strings"
)

var featPattern = regexp.MustCompile(`(?i)\s*\(feat[^)]*\)`)

// cleanTitle strips "(feat. ...)" decorations that hurt provider search
// recall.
func cleanTitle(title string) string {
	return strings.TrimSpace(featPattern.ReplaceAllString(title, ""))
}

// buildQueries returns the search query ladder for a song, in fixed priority
// order. For each artist variant (translated stage name first, then the name
// as charted, then a romanized form for Hangul names): full query with album
// context, then without the album. The final rung swaps the field order as a
// last resort. The orchestrator walks the ladder until a query yields
// candidates.
func buildQueries(title, artist, album string) []string {
	t := cleanTitle(title)
	if album == "Unknown Album" {
		album = ""
	}

	var qs []string
	seen := make(map[string]struct{})
	add := func(q string) {
		if _, ok := seen[q]; ok {
			return
		}
		seen[q] = struct{}{}
		qs = append(qs, q)
	}

	for _, a := range artistVariants(artist) {
		if album != "" {
			add(t + " " + a + " " + album)
		}
		add(t + " " + a)
	}
	add(artist + " " + t)
	return qs
}
