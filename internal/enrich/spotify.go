package enrich

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	spotifyAuthURL   = "https://accounts.spotify.com/api/token"
	spotifySearchURL = "https://api.spotify.com/v1/search"
)

// Spotify searches the Spotify catalog with a client-credentials token that
// is cached until shortly before expiry.
type Spotify struct {
	ClientID     string
	ClientSecret string

	client *resty.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewSpotify(clientID, clientSecret string) *Spotify {
	return &Spotify{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		client:       resty.New().SetTimeout(10 * time.Second),
	}
}

func (s *Spotify) Name() string { return ProviderSpotify }

type spotifyTokenResp struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (s *Spotify) accessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.tokenExp) {
		return s.token, nil
	}

	var tok spotifyTokenResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetBasicAuth(s.ClientID, s.ClientSecret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody("grant_type=client_credentials").
		SetResult(&tok).
		Post(spotifyAuthURL)
	if err != nil {
		return "", fmt.Errorf("spotify token: %w", err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return "", ErrQuotaExceeded
	}
	if resp.StatusCode() != http.StatusOK || tok.AccessToken == "" {
		return "", fmt.Errorf("spotify token: status %d", resp.StatusCode())
	}

	s.token = tok.AccessToken
	// renew a minute early
	s.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return s.token, nil
}

type spotifySearchResp struct {
	Tracks struct {
		Items []struct {
			Name  string `json:"name"`
			Album struct {
				Name string `json:"name"`
			} `json:"album"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			ExternalURLs struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
		} `json:"items"`
	} `json:"tracks"`
}

func (s *Spotify) Search(ctx context.Context, query string) ([]Candidate, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var out spotifySearchResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"q":     query,
			"type":  "track",
			"limit": "5",
		}).
		SetResult(&out).
		Get(spotifySearchURL)
	if err != nil {
		return nil, fmt.Errorf("spotify search: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusTooManyRequests, http.StatusForbidden:
		return nil, ErrQuotaExceeded
	default:
		return nil, fmt.Errorf("spotify search: status %d", resp.StatusCode())
	}

	cands := make([]Candidate, 0, len(out.Tracks.Items))
	for _, t := range out.Tracks.Items {
		artists := make([]string, 0, len(t.Artists))
		for _, a := range t.Artists {
			artists = append(artists, a.Name)
		}
		cands = append(cands, Candidate{
			Title:   t.Name,
			Album:   t.Album.Name,
			Artists: artists,
			URL:     t.ExternalURLs.Spotify,
		})
	}
	return cands, nil
}
