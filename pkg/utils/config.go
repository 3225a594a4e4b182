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
	secret := os.Getenv("CINEHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("CINEHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "cinehub"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("CINEHUB_JWT_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			duration = time.Duration(h) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

// APIConfig holds credentials for the upstream content APIs. Empty keys are
// allowed at startup; fetches fail with a configuration error until set.
type APIConfig struct {
	OMDBKey    string
	YouTubeKey string
}

func LoadAPIConfig() APIConfig {
	return APIConfig{
		OMDBKey:    os.Getenv("CINEHUB_OMDB_API_KEY"),
		YouTubeKey: os.Getenv("CINEHUB_YOUTUBE_API_KEY"),
	}
}
