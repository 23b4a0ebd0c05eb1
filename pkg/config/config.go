package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// DevJWTSecret is the fallback signing secret. It is refused in prod.
const DevJWTSecret = "dev-secret-change-me"

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often a pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	// Store selects the persistence backend. "memory" runs the API on seeded
	// in-process data for local front-end work.
	Store string

	// JWTSecret signs and verifies bearer tokens (HS256).
	JWTSecret string

	// RedisURL enables the stats cache when set, e.g. redis://localhost:6379/0.
	RedisURL      string
	StatsCacheTTL time.Duration

	// CORSAllowedOrigins is a comma-separated allowlist of browser origins.
	CORSAllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "eventmarket"),
			User:     env("DB_USER", "eventmarket"),
			Password: env("DB_PASSWORD", "eventmarket"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Store:              env("STORE", StorePostgres),
		JWTSecret:          env("JWT_SECRET", DevJWTSecret),
		RedisURL:           os.Getenv("REDIS_URL"),
		StatsCacheTTL:      envDuration("STATS_CACHE_TTL", 30*time.Second),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}

func (c Config) IsProd() bool {
	return c.AppEnv == "prod"
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
