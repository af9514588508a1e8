package config

import (
	"os"
	"strings"
)

// Config carries everything the router and gate need at construction time.
// There is no mutable process-wide settings state; main loads this once and
// passes it down.
type Config struct {
	Addr     string
	APIRoot  string
	MongoURI string
	MongoDB  string
	RedisAddr string

	JwtSecret []byte

	// APIKey is a static key that bypasses login and ownership checks when
	// presented in the X-Api-Key header. Empty disables the bypass.
	APIKey string

	// AllowedCategories restricts the service to topics in these forum
	// categories. Empty means every category is allowed.
	AllowedCategories []string

	// ForumBaseURL is the host forum's internal API, used for topic lookups
	// and permission checks.
	ForumBaseURL string
}

func FromEnv() Config {
	cfg := Config{
		Addr:         getenv("PORT", ":8080"),
		APIRoot:      getenv("API_ROOT", "/api/slotting"),
		MongoURI:     getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getenv("MONGO_DB", "slotboard"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		JwtSecret:    []byte(getenv("JWT_SECRET", "your_secret_key")),
		APIKey:       os.Getenv("API_KEY"),
		ForumBaseURL: getenv("FORUM_BASE_URL", "http://localhost:4567"),
	}
	if cfg.Addr[0] != ':' {
		cfg.Addr = ":" + cfg.Addr
	}
	if raw := os.Getenv("ALLOWED_CATEGORIES"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.AllowedCategories = append(cfg.AllowedCategories, p)
			}
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
