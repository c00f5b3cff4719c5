// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration for the jobs service.
type Config struct {
	Port        string
	GRPCPort    string
	DatabaseURL string
	RedisURL    string

	// Importer settings. The importer stays idle when AdzunaAppID or
	// AdzunaAppKey is empty.
	AdzunaAppID         string
	AdzunaAppKey        string
	AdzunaCountry       string // e.g. "fr", "gb", "us"
	ImportIntervalHours int
	ImportTitles        []string
	ImportLocations     []string
	ImportRedFlags      []string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	interval := 6
	if s := os.Getenv("IMPORT_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("IMPORT_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	return &Config{
		Port:                envOr("JOBS_PORT", "8083"),
		GRPCPort:            envOr("JOBS_GRPC_PORT", "9083"),
		DatabaseURL:         dbURL,
		RedisURL:            redisURL,
		AdzunaAppID:         os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:        os.Getenv("ADZUNA_APP_KEY"),
		AdzunaCountry:       envOr("ADZUNA_COUNTRY", "fr"),
		ImportIntervalHours: interval,
		ImportTitles:        splitList(os.Getenv("IMPORT_TITLES")),
		ImportLocations:     splitList(os.Getenv("IMPORT_LOCATIONS")),
		ImportRedFlags:      splitList(os.Getenv("IMPORT_RED_FLAGS")),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated variable, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
