package enrich

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const youtubeSearchURL = "https://www.googleapis.com/youtube/v3/search"

// YouTube searches the YouTube Data API. A 403 here means the daily quota
// is burned, not bad credentials, so it maps to ErrQuotaExceeded.
type YouTube struct {
	APIKey string
	client *resty.Client
}

func NewYouTube(apiKey string) *YouTube {
	return &YouTube{
		APIKey: apiKey,
		client: resty.New().SetTimeout(10 * time.Second),
	}
}

func (y *YouTube) Name() string { return ProviderYouTube }

type youtubeSearchResp struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

func (y *YouTube) Search(ctx context.Context, query string) ([]Candidate, error) {
	var out youtubeSearchResp
	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":        y.APIKey,
			"q":          query + " music video",
			"part":       "snippet",
			"type":       "video",
			"maxResults": "5",
		}).
		SetResult(&out).
		Get(youtubeSearchURL)
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, ErrQuotaExceeded
	default:
		return nil, fmt.Errorf("youtube search: status %d", resp.StatusCode())
	}

	cands := make([]Candidate, 0, len(out.Items))
	for _, it := range out.Items {
		if it.ID.VideoID == "" {
			continue
		}
		cands = append(cands, Candidate{
			Title:   it.Snippet.Title,
			Artists: []string{it.Snippet.ChannelTitle},
			URL:     "https://www.youtube.com/watch?v=" + it.ID.VideoID,
		})
	}
	return cands, nil
}
