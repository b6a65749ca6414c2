package chart

import (
	"regexp"
	"strconv"
	"strings"
)

// RawEntry is one scraped chart row before reconciliation. Artist is the
// joined display string of the deduplicated artist set.
type RawEntry struct {
	Rank        int
	Title       string
	Artist      string
	Album       string
	ArtURL      string
	MelonSongID int64
	Movement    string
}

// Movement values. UP/DOWN carry the step count, e.g. "UP 3".
const (
	MovementNew    = "NEW"
	MovementStatic = "-"
)

var rankDigits = regexp.MustCompile(`\d+`)

// parseRank extracts the numeric rank from a rank cell. Disabled or
// placeholder cells have no digits; those entries are dropped upstream.
func parseRank(s string) (int, bool) {
	m := rankDigits.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// mergeArtists combines the ordinary artist links with the collapsed
// "additional artists" panel into one order-stable, deduplicated list.
func mergeArtists(visible, hidden []string) []string {
	seen := make(map[string]struct{}, len(visible)+len(hidden))
	out := make([]string, 0, len(visible)+len(hidden))
	for _, group := range [][]string{visible, hidden} {
		for _, a := range group {
			a = strings.TrimSpace(a)
			if a == "" {
				continue
			}
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

func joinArtists(names []string) string {
	if len(names) == 0 {
		return "Unknown Artist"
	}
	return strings.Join(names, ", ")
}

// classifyMovement maps the marker element kind and its step count to the
// stored movement string. No marker at all means STATIC.
func classifyMovement(kind, amount string) string {
	switch kind {
	case "new":
		return MovementNew
	case "up":
		if n, err := strconv.Atoi(strings.TrimSpace(amount)); err == nil && n > 0 {
			return "UP " + strconv.Itoa(n)
		}
		return MovementStatic
	case "down":
		if n, err := strconv.Atoi(strings.TrimSpace(amount)); err == nil && n > 0 {
			return "DOWN " + strconv.Itoa(n)
		}
		return MovementStatic
	default:
		return MovementStatic
	}
}

func parseSongKey(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
