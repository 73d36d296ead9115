package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Limits holds the user-input bounds and room-code parameters.
// They are injected into the components that use them rather than
// read from the environment at point of use.
type Limits struct {
	MaxTitleLength          int
	MaxDescLength           int
	MaxCharaNameLength      int
	MaxMessageContentLength int
	RPCodeLength            int
	RPCodeChars             string
}

// Config holds all configuration for the application.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	RedisURL    string
	SQLitePath  string

	// Salt mixed into the per-submitter moderation identifier.
	IPIDSalt string

	// Rate limiting
	RateLimitWhitelist []string // IPs or CIDRs exempt from rate limiting

	Limits Limits
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "./data/rpnow.db"),
		IPIDSalt:    os.Getenv("IPID_SALT"),
		Limits: Limits{
			MaxTitleLength:          getEnvInt("MAX_TITLE_LENGTH", 30),
			MaxDescLength:           getEnvInt("MAX_DESC_LENGTH", 255),
			MaxCharaNameLength:      getEnvInt("MAX_CHARA_NAME_LENGTH", 30),
			MaxMessageContentLength: getEnvInt("MAX_MESSAGE_CONTENT_LENGTH", 10000),
			RPCodeLength:            getEnvInt("RP_CODE_LENGTH", 8),
			RPCodeChars:             getEnv("RP_CODE_CHARS", "abcdefhjknpstxyz23456789"),
		},
	}

	// Parse whitelist (comma-separated IPs or CIDRs)
	if whitelist := os.Getenv("RATE_LIMIT_WHITELIST"); whitelist != "" {
		for _, entry := range strings.Split(whitelist, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				cfg.RateLimitWhitelist = append(cfg.RateLimitWhitelist, entry)
			}
		}
	}

	// In production, require a real database and an ipid salt
	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" {
			panic("DATABASE_URL is required in production")
		}
		if cfg.IPIDSalt == "" {
			panic("IPID_SALT is required in production")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
