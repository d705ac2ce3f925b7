// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field maps to an
// environment variable.  Database settings are required; mail, Redis
// and broker settings are optional and their subsystems degrade
// gracefully when unset.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional
	DBHost string
	DBPort string
	DBName string

	SMTPHost string // optional; empty disables real mail delivery
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	CacheTTL  time.Duration // availability cache entry lifetime
	RateLimit int           // requests per client per window; 0 disables
	RateWin   time.Duration // rate limit window
}

// Load reads configuration from environment variables.  Missing
// required variables cause the program to exit with a fatal log
// message.
func Load() Config {
	return Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: atoi(getenv("SMTP_PORT", "587")),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		CacheTTL:  parseDur(getenv("AVAILABILITY_CACHE_TTL", "30s")),
		RateLimit: atoi(getenv("RATE_LIMIT", "60")),
		RateWin:   parseDur(getenv("RATE_LIMIT_WINDOW", "1m")),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
