// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the listing service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	SupabaseURL string
	SupabaseKey string

	PageSize               int // listing page size
	RefreshIntervalMinutes int // cron snapshot-refresh cadence
	SessionTTLHours        int // admin session lifetime in Redis
}

// Load reads environment variables (and a .env file when present) and
// returns a validated Config.
func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for admin auth")
	}

	port := os.Getenv("LISTING_PORT")
	if port == "" {
		port = "8080"
	}

	pageSize, err := positiveIntEnv("PAGE_SIZE", 20)
	if err != nil {
		return nil, err
	}
	refresh, err := positiveIntEnv("REFRESH_INTERVAL_MINUTES", 5)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := positiveIntEnv("SESSION_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                   port,
		DatabaseURL:            dbURL,
		RedisURL:               redisURL,
		SupabaseURL:            supabaseURL,
		SupabaseKey:            supabaseKey,
		PageSize:               pageSize,
		RefreshIntervalMinutes: refresh,
		SessionTTLHours:        sessionTTL,
	}, nil
}

func positiveIntEnv(name string, fallback int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return v, nil
}
