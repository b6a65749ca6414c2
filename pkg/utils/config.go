package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("MELONHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("MELONHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "melonhub"
	}

	dur := 24 * time.Hour
	if ttl := os.Getenv("MELONHUB_JWT_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			dur = time.Duration(h) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: dur,
	}
}

// ProviderConfig carries the streaming/lyrics provider credentials. Empty
// values disable the matching provider rather than failing startup.
type ProviderConfig struct {
	YouTubeAPIKey       string
	SpotifyClientID     string
	SpotifyClientSecret string
	AppleMusicToken     string
	CronSecret          string
}

func LoadProviderConfig() ProviderConfig {
	return ProviderConfig{
		YouTubeAPIKey:       os.Getenv("MELONHUB_YOUTUBE_API_KEY"),
		SpotifyClientID:     os.Getenv("MELONHUB_SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("MELONHUB_SPOTIFY_CLIENT_SECRET"),
		AppleMusicToken:     os.Getenv("MELONHUB_APPLE_MUSIC_TOKEN"),
		CronSecret:          os.Getenv("MELONHUB_CRON_SECRET"),
	}
}
