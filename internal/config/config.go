package config

import (
	"fmt"
	"os"
	"strings"
)

// Config is the full process configuration, resolved once at startup.
// Credentials are validated here so a misconfigured deployment fails at
// boot instead of on the first request.
type Config struct {
	Port   string
	Region string

	// LLM completion endpoint. Either ANTHROPIC_API_KEY or CLAUDE_API_KEY
	// may supply the credential; the first one present wins.
	AnthropicAPIKey string
	AnthropicURL    string
	Model           string

	// External permit source.
	PermitsAPIKey string
	PermitsURL    string

	CORSOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            envOr("PORT", "8081"),
		Region:          envOr("DEFAULT_REGION", "CA"),
		AnthropicAPIKey: firstEnv("ANTHROPIC_API_KEY", "CLAUDE_API_KEY"),
		AnthropicURL:    os.Getenv("ANTHROPIC_BASE_URL"),
		Model:           os.Getenv("ANTHROPIC_MODEL"),
		PermitsAPIKey:   os.Getenv("SHOVELS_API_KEY"),
		PermitsURL:      os.Getenv("SHOVELS_BASE_URL"),
	}

	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("config: ANTHROPIC_API_KEY (or CLAUDE_API_KEY) is required")
	}
	if cfg.PermitsAPIKey == "" {
		return nil, fmt.Errorf("config: SHOVELS_API_KEY is required")
	}

	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}
