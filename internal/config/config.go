package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultSelectionTTL       = 24 * time.Hour
	DefaultRateLimitPerMinute = 30
)

// Config holds all configuration for the application
type Config struct {
	Discord   DiscordConfig
	Redis     RedisConfig
	Codex     CodexConfig
	RateLimit RateLimitConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string
	AppID   string
	GuildID string // Optional: registers commands on one guild instead of globally
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// URL is a redis:// URL; empty keeps selections in memory
	URL string
}

// CodexConfig configures the character catalog and selection storage
type CodexConfig struct {
	// CatalogPath overrides the embedded seed catalog when set
	CatalogPath  string
	SelectionTTL time.Duration
}

// RateLimitConfig limits interactions per user
type RateLimitConfig struct {
	PerMinute int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	ttl, err := getEnvAsDurationOrDefault("SELECTION_TTL", DefaultSelectionTTL)
	if err != nil {
		return nil, err
	}
	perMinute, err := getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", DefaultRateLimitPerMinute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Discord: DiscordConfig{
			Token:   os.Getenv("DISCORD_TOKEN"),
			AppID:   os.Getenv("DISCORD_APP_ID"),
			GuildID: os.Getenv("DISCORD_GUILD_ID"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Codex: CodexConfig{
			CatalogPath:  os.Getenv("CATALOG_PATH"),
			SelectionTTL: ttl,
		},
		RateLimit: RateLimitConfig{
			PerMinute: perMinute,
		},
	}

	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.Discord.AppID == "" {
		return nil, fmt.Errorf("DISCORD_APP_ID is required")
	}
	if cfg.Codex.SelectionTTL <= 0 {
		return nil, fmt.Errorf("SELECTION_TTL must be positive, got %s", cfg.Codex.SelectionTTL)
	}
	// Zero turns rate limiting off
	if cfg.RateLimit.PerMinute < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", cfg.RateLimit.PerMinute)
	}

	return cfg, nil
}

func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return intValue, nil
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
