package chart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrScrapeTimeout is returned when the chart page does not render the
// expected list structure within the extractor's wait budget. Callers must
// abort the cycle without committing anything.
var ErrScrapeTimeout = errors.New("chart: page render timed out")

const defaultChartURL = "https://www.melon.com/chart/day/index.htm?classCd=%s"

// Extractor drives a headless browser against the Melon daily chart page for
// one genre and returns the ordered raw entries.
type Extractor struct {
	URLFormat string
	Timeout   time.Duration
	// ExecOpts lets tests/deploys override browser flags (e.g. no-sandbox
	// inside containers).
	ExecOpts []chromedp.ExecAllocatorOption
}

func NewExtractor() *Extractor {
	return &Extractor{
		URLFormat: defaultChartURL,
		Timeout:   45 * time.Second,
	}
}

// chartRow is the raw per-row payload pulled out of the page in one
// Evaluate call. Parsing and classification happen Go-side so they stay
// testable without a browser.
type chartRow struct {
	RankText       string   `json:"rankText"`
	Title          string   `json:"title"`
	Artists        []string `json:"artists"`
	HiddenArtists  []string `json:"hiddenArtists"`
	Album          string   `json:"album"`
	Art            string   `json:"art"`
	Key            string   `json:"key"`
	MovementKind   string   `json:"movementKind"`
	MovementAmount string   `json:"movementAmount"`
}

const extractScript = `
Array.from(document.querySelectorAll(".lst50, .lst100")).map((row) => {
	const rankEl = row.querySelector(".rank");
	const titleEl = row.querySelector(".rank01>span>a, .rank01>span>span");

	const artists = [];
	row.querySelectorAll(".rank02 > a").forEach((a) => {
		if (!a.classList.contains("disabled")) artists.push(a.textContent.trim());
	});
	const hiddenArtists = [];
	const panel = row.querySelector(".rank02 .wrap_atist .atist_view");
	if (panel) {
		panel.querySelectorAll("a").forEach((a) => hiddenArtists.push(a.textContent.trim()));
	}

	const albumEl = row.querySelector(".rank03>a");
	const artEl = row.querySelector(".image_typeAll img");

	let movementKind = "";
	let movementAmount = "";
	const wrap = row.querySelector(".rank_wrap");
	if (wrap) {
		if (wrap.querySelector(".bullet_icons.rank_new")) {
			movementKind = "new";
		} else if (wrap.querySelector(".bullet_icons.rank_up")) {
			movementKind = "up";
			const n = wrap.querySelector(".up");
			movementAmount = n ? n.textContent.trim() : "";
		} else if (wrap.querySelector(".bullet_icons.rank_down")) {
			movementKind = "down";
			const n = wrap.querySelector(".down");
			movementAmount = n ? n.textContent.trim() : "";
		} else if (wrap.querySelector(".bullet_icons.rank_static")) {
			movementKind = "static";
		}
	}

	return {
		rankText: rankEl ? rankEl.textContent.trim() : "",
		title: titleEl ? titleEl.textContent.trim() : "",
		artists: artists,
		hiddenArtists: hiddenArtists,
		album: albumEl ? albumEl.textContent.trim() : "",
		art: artEl ? (artEl.getAttribute("src") || "").trim() : "",
		key: row.getAttribute("data-song-no") || "",
		movementKind: movementKind,
		movementAmount: movementAmount,
	};
})
`

// Extract renders the chart page for genreCode and returns its entries in
// page order. Rows with a disabled/placeholder rank cell are excluded.
func (e *Extractor) Extract(ctx context.Context, genreCode string) ([]RawEntry, error) {
	url := fmt.Sprintf(e.URLFormat, genreCode)
	log.Printf("[chart] scraping %s", url)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], e.ExecOpts...)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, e.Timeout)
	defer cancelRun()

	var rows []chartRow
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(".lst50, .lst100", chromedp.ByQuery),
		chromedp.Evaluate(extractScript, &rows),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrScrapeTimeout
		}
		return nil, fmt.Errorf("chart: run browser: %w", err)
	}

	entries := convertRows(rows)
	log.Printf("[chart] %s: %d entries (%d rows scraped)", genreCode, len(entries), len(rows))
	return entries, nil
}

func convertRows(rows []chartRow) []RawEntry {
	entries := make([]RawEntry, 0, len(rows))
	for _, r := range rows {
		rank, ok := parseRank(r.RankText)
		if !ok {
			continue
		}
		title := r.Title
		if title == "" {
			title = "Unknown Title"
		}
		album := r.Album
		if album == "" {
			album = "Unknown Album"
		}
		entries = append(entries, RawEntry{
			Rank:        rank,
			Title:       title,
			Artist:      joinArtists(mergeArtists(r.Artists, r.HiddenArtists)),
			Album:       album,
			ArtURL:      r.Art,
			MelonSongID: parseSongKey(r.Key),
			Movement:    classifyMovement(r.MovementKind, r.MovementAmount),
		})
	}
	return entries
}
