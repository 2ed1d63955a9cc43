package gamesvc

import (
	"errors"
	"os"
	"strings"
	"time"
)

type Config struct {
	BaseURL      string
	GameID       string
	Token        string
	HeaderName   string
	HeaderPrefix string
	Timeout      time.Duration
}

// ResolveConfig builds the adapter configuration from the environment.
// The bearer credential comes from CASINO_API_TOKEN, or from a token file
// (CASINO_API_TOKEN_FILE, then the well-known paths below).
func ResolveConfig() (Config, error) {
	cfg := Config{
		BaseURL: strings.TrimSpace(os.Getenv("CASINO_API_BASE")),
		GameID:  strings.TrimSpace(os.Getenv("CASINO_GAME_ID")),
		Timeout: 30 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000/api"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.GameID == "" {
		cfg.GameID = "1"
	}

	cfg.Token = strings.TrimSpace(os.Getenv("CASINO_API_TOKEN"))
	if cfg.Token == "" {
		cfg.Token = tokenFromFile()
	}
	if cfg.Token == "" {
		return Config{}, errors.New("credential missing: set CASINO_API_TOKEN or provide a token file")
	}

	cfg.HeaderName = strings.TrimSpace(os.Getenv("CASINO_API_TOKEN_HEADER"))
	if cfg.HeaderName == "" {
		cfg.HeaderName = "Authorization"
	}
	cfg.HeaderPrefix = os.Getenv("CASINO_API_TOKEN_PREFIX")
	if cfg.HeaderName == "Authorization" && strings.TrimSpace(cfg.HeaderPrefix) == "" {
		cfg.HeaderPrefix = "Bearer "
	}
	return cfg, nil
}

// Tries: CASINO_API_TOKEN_FILE, ./secrets/casino_token.txt,
// ./casino_token.txt, and /run/secrets/casino_token.
func tokenFromFile() string {
	var candidates []string
	if p := strings.TrimSpace(os.Getenv("CASINO_API_TOKEN_FILE")); p != "" {
		candidates = append(candidates, p)
	}
	candidates = append(candidates,
		"./secrets/casino_token.txt",
		"./casino_token.txt",
		"/run/secrets/casino_token",
	)
	for _, path := range candidates {
		if b, err := os.ReadFile(path); err == nil {
			if tok := strings.TrimSpace(string(b)); tok != "" {
				return tok
			}
		}
	}
	return ""
}
