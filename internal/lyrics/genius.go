package lyrics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// GeniusSource finds English-translation lyrics: a web search for
// "<title> <artist> Genius English Translation", then a scrape of the
// first genius.com result that explicitly mentions a translation. Genius
// hosts fan translations as separate pages, so a plain title match would
// land on the original-language page.
type GeniusSource struct {
	Timeout  time.Duration
	ExecOpts []chromedp.ExecAllocatorOption
}

func NewGeniusSource() *GeniusSource {
	return &GeniusSource{Timeout: 60 * time.Second}
}

type searchLink struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

const searchLinksScript = `
Array.from(document.querySelectorAll("a")).map((a) => ({
	href: a.href || "",
	text: (a.innerText || "").trim(),
}))
`

const lyricsContainersScript = `
Array.from(document.querySelectorAll("[data-lyrics-container]"))
	.map((c) => c.innerText)
	.join("\n")
`

func (g *GeniusSource) Fetch(ctx context.Context, title, artist string) (string, error) {
	query := fmt.Sprintf("%s %s Genius English Translation", title, artist)
	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(query)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], g.ExecOpts...)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, g.Timeout)
	defer cancelRun()

	log.Printf("[lyrics] searching translation for %q by %q", title, artist)

	var links []searchLink
	err := chromedp.Run(runCtx,
		chromedp.Navigate(searchURL),
		chromedp.Evaluate(searchLinksScript, &links),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("lyrics: search: %w", err)
	}

	target := ""
	for _, l := range links {
		if strings.Contains(l.Href, "genius.com") &&
			strings.Contains(strings.ToLower(l.Text), "english translation") {
			target = l.Href
			break
		}
	}
	if target == "" {
		return "", ErrNotFound
	}

	var text string
	err = chromedp.Run(runCtx,
		chromedp.Navigate(target),
		chromedp.WaitVisible("[data-lyrics-container]", chromedp.ByQuery),
		chromedp.Evaluate(lyricsContainersScript, &text),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("lyrics: scrape %s: %w", target, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNotFound
	}
	return text, nil
}
