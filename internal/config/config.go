package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Auth     AuthConfig
}

type AppConfig struct {
	ListenAddr string
	Env        string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type AuthConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string

	CookieSecure bool
	CookieDomain string

	RememberTTL time.Duration
	ResetTTL    time.Duration

	// DebugResetLinks puts the raw reset token into the forgot-password
	// response instead of relying on out-of-band delivery. Never enable
	// outside local testing.
	DebugResetLinks bool
}

func Load() Config {
	return Config{
		App: AppConfig{
			ListenAddr: getenv("LISTEN_ADDR", ":8080"),
			Env:        getenv("APP_ENV", "production"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Auth: AuthConfig{
			AdminName:       getenv("ADMIN_NAME", "Admin User"),
			AdminEmail:      getenv("ADMIN_EMAIL", "admin@donationtracker.local"),
			AdminPassword:   getenv("ADMIN_PASSWORD", "changeme123"),
			CookieSecure:    getenvBool("AUTH_COOKIE_SECURE", false),
			CookieDomain:    os.Getenv("AUTH_COOKIE_DOMAIN"),
			RememberTTL:     getenvDuration("REMEMBER_TOKEN_TTL", 14*24*time.Hour),
			ResetTTL:        getenvDuration("RESET_TOKEN_TTL", time.Hour),
			DebugResetLinks: getenvBool("DEBUG_RESET_LINKS", false),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
