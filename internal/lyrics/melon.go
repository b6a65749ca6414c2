package lyrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const defaultSongDetailURL = "https://www.melon.com/song/detail.htm?songId=%d"

// MelonSource is the backup lyrics path: the chart site's own song detail
// page, original language only. Only usable for songs whose Melon key was
// observed during ingestion.
type MelonSource struct {
	URLFormat string
	Timeout   time.Duration
	ExecOpts  []chromedp.ExecAllocatorOption
}

func NewMelonSource() *MelonSource {
	return &MelonSource{
		URLFormat: defaultSongDetailURL,
		Timeout:   45 * time.Second,
	}
}

func (m *MelonSource) Fetch(ctx context.Context, melonSongID int64) (string, error) {
	if melonSongID == 0 {
		return "", ErrNotFound
	}
	url := fmt.Sprintf(m.URLFormat, melonSongID)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], m.ExecOpts...)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, m.Timeout)
	defer cancelRun()

	var text string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(".lyric", chromedp.ByQuery),
		chromedp.Text(".lyric", &text, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("lyrics: scrape %s: %w", url, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNotFound
	}
	return text, nil
}
