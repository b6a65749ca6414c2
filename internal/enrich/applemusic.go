package enrich

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const appleMusicSearchURL = "https://api.music.apple.com/v1/catalog/us/search"

// AppleMusic searches the Apple Music catalog with a developer token.
type AppleMusic struct {
	Token  string
	client *resty.Client
}

func NewAppleMusic(token string) *AppleMusic {
	return &AppleMusic{
		Token:  token,
		client: resty.New().SetTimeout(10 * time.Second),
	}
}

func (a *AppleMusic) Name() string { return ProviderAppleMusic }

type appleMusicSearchResp struct {
	Results struct {
		Songs struct {
			Data []struct {
				Attributes struct {
					Name       string `json:"name"`
					AlbumName  string `json:"albumName"`
					ArtistName string `json:"artistName"`
					URL        string `json:"url"`
				} `json:"attributes"`
			} `json:"data"`
		} `json:"songs"`
	} `json:"results"`
}

func (a *AppleMusic) Search(ctx context.Context, query string) ([]Candidate, error) {
	var out appleMusicSearchResp
	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(a.Token).
		SetQueryParams(map[string]string{
			"term":  query,
			"types": "songs",
			"limit": "5",
		}).
		SetResult(&out).
		Get(appleMusicSearchURL)
	if err != nil {
		return nil, fmt.Errorf("apple music search: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusTooManyRequests, http.StatusForbidden:
		return nil, ErrQuotaExceeded
	default:
		return nil, fmt.Errorf("apple music search: status %d", resp.StatusCode())
	}

	cands := make([]Candidate, 0, len(out.Results.Songs.Data))
	for _, d := range out.Results.Songs.Data {
		cands = append(cands, Candidate{
			Title:   d.Attributes.Name,
			Album:   d.Attributes.AlbumName,
			Artists: []string{d.Attributes.ArtistName},
			URL:     d.Attributes.URL,
		})
	}
	return cands, nil
}
