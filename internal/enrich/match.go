package enrich

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Candidate is one track returned by a provider search.
type Candidate struct {
	Title   string
	Album   string
	Artists []string
	URL     string
}

var unwantedTitle = regexp.MustCompile(`(?i)instrumental|karaoke`)

// normalize lowercases and strips punctuation so edit distances compare the
// words, not the decorations.
func normalize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// score is the match distance for a candidate: title distance plus album
// distance (0 when we have no album to compare) plus a fixed penalty when
// the candidate's artist set contains none of the query artist's name
// variants. Lower is better.
func score(c Candidate, title string, artists []string, album string) int {
	total := levenshtein.ComputeDistance(normalize(title), normalize(c.Title))
	if album != "" {
		total += levenshtein.ComputeDistance(normalize(album), normalize(c.Album))
	}

	penalty := 10
outer:
	for _, a := range artists {
		na := normalize(a)
		for _, ca := range c.Artists {
			if normalize(ca) == na {
				penalty = 0
				break outer
			}
		}
	}
	return total + penalty
}

// pickBest returns the lowest-scoring candidate. When the winner looks like
// an instrumental/karaoke version, a clean candidate with the same score is
// preferred; a clean candidate with a worse score is not. Ties keep provider
// ordering (first result wins).
func pickBest(cands []Candidate, title string, artists []string, album string) *Candidate {
	if len(cands) == 0 {
		return nil
	}

	scores := make([]int, len(cands))
	bestIdx := 0
	for i, c := range cands {
		scores[i] = score(c, title, artists, album)
		if scores[i] < scores[bestIdx] {
			bestIdx = i
		}
	}

	if unwantedTitle.MatchString(cands[bestIdx].Title) {
		for i, c := range cands {
			if scores[i] == scores[bestIdx] && !unwantedTitle.MatchString(c.Title) {
				return &cands[i]
			}
		}
	}
	return &cands[bestIdx]
}
