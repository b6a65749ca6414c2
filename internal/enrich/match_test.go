package enrich

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello, World!", "hello world"},
		{"LOVE DIVE", "love dive"},
		{"밤양갱 (Bam Yang Gang)", "밤양갱 bam yang gang"},
	}
	for _, c := range cases {
		if got := normalize(c.in); got != c.want {
			t.Fatalf("normalize(%q) = %q want %q", c.in, got, c.want)
		}
	}
}

func TestPickBestLowestScore(t *testing.T) {
	cands := []Candidate{
		{Title: "Completely Different", Album: "X", Artists: []string{"Someone"}, URL: "u1"},
		{Title: "Love Dive", Album: "Love Dive", Artists: []string{"IVE"}, URL: "u2"},
		{Title: "Love Dive (Remix)", Album: "Love Dive", Artists: []string{"IVE"}, URL: "u3"},
	}
	best := pickBest(cands, "LOVE DIVE", []string{"IVE"}, "LOVE DIVE")
	if best == nil || best.URL != "u2" {
		t.Fatalf("expected u2, got %+v", best)
	}
}

func TestPickBestArtistPenalty(t *testing.T) {
	// identical titles; only the artist set differs
	cands := []Candidate{
		{Title: "Ditto", Album: "Ditto", Artists: []string{"Cover Band"}, URL: "cover"},
		{Title: "Ditto", Album: "Ditto", Artists: []string{"NewJeans"}, URL: "original"},
	}
	best := pickBest(cands, "Ditto", []string{"NewJeans"}, "Ditto")
	if best == nil || best.URL != "original" {
		t.Fatalf("expected original, got %+v", best)
	}
}

func TestPickBestArtistVariantMatches(t *testing.T) {
	// the candidate lists the Latin stage name; any name variant should
	// cancel the penalty
	cands := []Candidate{
		{Title: "Dynamite", Artists: []string{"Cover Band"}, URL: "cover"},
		{Title: "Dynamite", Artists: []string{"BTS"}, URL: "original"},
	}
	best := pickBest(cands, "Dynamite", []string{"방탄소년단", "BTS"}, "")
	if best == nil || best.URL != "original" {
		t.Fatalf("expected original, got %+v", best)
	}
}

func TestPickBestTieKeepsProviderOrder(t *testing.T) {
	cands := []Candidate{
		{Title: "Song", Artists: []string{"A"}, URL: "first"},
		{Title: "Song", Artists: []string{"A"}, URL: "second"},
	}
	best := pickBest(cands, "Song", []string{"A"}, "")
	if best == nil || best.URL != "first" {
		t.Fatalf("expected first result to win tie, got %+v", best)
	}
}

func TestPickBestPrefersCleanOnTie(t *testing.T) {
	// both candidates score the same edit distance; the karaoke one loses
	cands := []Candidate{
		{Title: "Band Karaoke", Artists: []string{"A"}, URL: "karaoke"},
		{Title: "Band Aid Kit", Artists: []string{"A"}, URL: "clean"},
	}
	best := pickBest(cands, "Band", []string{"A"}, "")
	if best == nil || best.URL != "clean" {
		t.Fatalf("expected clean version to win the tie, got %+v", best)
	}

	// no alternative: the instrumental is still returned
	only := []Candidate{
		{Title: "Magnetic (Karaoke Version)", Artists: []string{"ILLIT"}, URL: "karaoke"},
	}
	best = pickBest(only, "Magnetic", []string{"ILLIT"}, "")
	if best == nil || best.URL != "karaoke" {
		t.Fatalf("expected karaoke fallback, got %+v", best)
	}
}

func TestPickBestKeepsStrictlyBetterInstrumental(t *testing.T) {
	// the instrumental is the only near match; a clean candidate with a far
	// worse score must not displace it
	cands := []Candidate{
		{Title: "Love Dive (Instrumental)", Artists: []string{"IVE"}, URL: "inst"},
		{Title: "Completely Different Song", Artists: []string{"IVE"}, URL: "clean"},
	}
	best := pickBest(cands, "Love Dive", []string{"IVE"}, "")
	if best == nil || best.URL != "inst" {
		t.Fatalf("expected instrumental near match, got %+v", best)
	}
}

func TestBuildQueries(t *testing.T) {
	qs := buildQueries("Fate (feat. Dok2)", "Yoon Mirae", "Get It In")
	want := []string{
		"Fate Yoon Mirae Get It In",
		"Fate Yoon Mirae",
		"Yoon Mirae Fate",
	}
	if len(qs) != len(want) {
		t.Fatalf("expected %d queries, got %d: %v", len(want), len(qs), qs)
	}
	for i := range want {
		if qs[i] != want[i] {
			t.Fatalf("query %d = %q want %q", i, qs[i], want[i])
		}
	}

	// placeholder album drops the album variant
	qs = buildQueries("Fate", "Yoon Mirae", "Unknown Album")
	if len(qs) != 2 {
		t.Fatalf("expected 2 queries without album, got %v", qs)
	}
}

func TestBuildQueriesTranslatedArtist(t *testing.T) {
	qs := buildQueries("Dynamite", "방탄소년단", "Unknown Album")

	// the Latin stage name leads the ladder, the charted name follows
	if len(qs) < 3 {
		t.Fatalf("expected translated, charted and swapped queries, got %v", qs)
	}
	if qs[0] != "Dynamite BTS" {
		t.Fatalf("expected translated query first, got %q", qs[0])
	}
	if qs[1] != "Dynamite 방탄소년단" {
		t.Fatalf("expected charted-name query second, got %q", qs[1])
	}
	if qs[len(qs)-1] != "방탄소년단 Dynamite" {
		t.Fatalf("expected swapped query last, got %q", qs[len(qs)-1])
	}
}

func TestBuildQueriesRomanizedArtist(t *testing.T) {
	// not in the translation map, fully Hangul: a romanized rung is added
	// between the charted name and the swapped fallback
	qs := buildQueries("신호등", "윤하아", "")
	if len(qs) != 3 {
		t.Fatalf("expected charted, romanized and swapped queries, got %v", qs)
	}
	if qs[0] != "신호등 윤하아" {
		t.Fatalf("expected charted-name query first, got %q", qs[0])
	}
	if qs[1] == qs[0] || qs[1] == "" {
		t.Fatalf("expected a distinct romanized query, got %q", qs[1])
	}
}
