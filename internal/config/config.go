package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads .env from the current directory and sets env vars.
// Safe to call multiple times; existing env vars are not overwritten.
func Load() error {
	return godotenv.Load()
}

// GeminiAPIKey returns the Google Gemini API key. Read at request time and
// never logged; a blank value fails audits closed with config_error.
func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

// DataDir returns the directory for pipeline artifacts (completion cache).
func DataDir() string {
	if v := os.Getenv("ACCESSLENS_DATA_DIR"); v != "" {
		return v
	}
	return "data"
}

// AuditsDir returns the directory for persisted audit records.
func AuditsDir() string {
	if v := os.Getenv("ACCESSLENS_AUDITS_DIR"); v != "" {
		return v
	}
	return "data/audits"
}

// AuditsIndexLimit returns the max number of audits kept in index.json.
func AuditsIndexLimit() int {
	return positiveIntEnv("ACCESSLENS_AUDITS_INDEX_LIMIT", 50)
}

// AuditsMax returns the maximum number of audit records to retain.
// If unset or invalid, defaults to 200. Set to 0 to disable pruning.
func AuditsMax() int {
	if v := os.Getenv("ACCESSLENS_AUDITS_MAX"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return 200
}

// RateLimitMax returns the request budget per client in the trailing window.
func RateLimitMax() int {
	return positiveIntEnv("ACCESSLENS_RATE_LIMIT", 10)
}

func positiveIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
