// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrDatabaseURLRequired = errors.New("DATABASE_URL is required")

type Settings struct {
	AppTitle string
	Addr     string
	Env      string

	DatabaseURL   string
	QueryTimeout  time.Duration
	MaxConns      int32
	SnapshotReads bool

	RateLimitRPS   float64
	RateLimitBurst int

	CORSAllowedOrigins []string
	EnableHSTS         bool
}

func (s Settings) IsDev() bool {
	return s.Env == "dev" || s.Env == "development"
}

// LoadEnvFiles reads .env and .env.local into the process environment.
// Variables already set by the runtime are left untouched.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads settings from the environment after LoadEnvFiles.
func Load() (Settings, error) {
	LoadEnvFiles()
	return FromEnv()
}

// FromEnv reads settings from the current environment only.
func FromEnv() (Settings, error) {
	s := Settings{
		AppTitle:           getEnv("APP_TITLE", "Book Catalog"),
		Addr:               getEnv("APP_ADDR", ":8080"),
		Env:                getEnv("APP_ENV", "production"),
		DatabaseURL:        DatabaseURL(),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
	if s.DatabaseURL == "" {
		return Settings{}, ErrDatabaseURLRequired
	}

	var errs []error
	var err error

	if s.QueryTimeout, err = getDuration("DB_QUERY_TIMEOUT", 3*time.Second); err != nil {
		errs = append(errs, err)
	}
	maxConns, err := getInt("DB_MAX_CONNS", 10)
	if err != nil {
		errs = append(errs, err)
	}
	s.MaxConns = int32(maxConns)
	if s.SnapshotReads, err = getBool("CATALOG_SNAPSHOT_READS", false); err != nil {
		errs = append(errs, err)
	}
	if s.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 20); err != nil {
		errs = append(errs, err)
	}
	if s.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 40); err != nil {
		errs = append(errs, err)
	}
	if s.EnableHSTS, err = getBool("ENABLE_HSTS", false); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// DatabaseURL returns DATABASE_URL, falling back to DB_DSN.
func DatabaseURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	return os.Getenv("DB_DSN")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: expected a positive integer, got %q", key, v)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("%s: expected a positive number, got %q", key, v)
	}
	return f, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: expected a boolean, got %q", key, v)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: expected a positive duration, got %q", key, v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
