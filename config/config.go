package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string // empty disables persistence
	CORSOrigins    []string
	SentencesFile  string
	TuningFile     string
	LogLevel       string
	LogEncoding    string
	PersistTimeout time.Duration
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	// a missing .env is fine, the environment may carry everything
	_ = godotenv.Load()

	cfg := Config{
		Port:           getenv("PORT", "4000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		CORSOrigins:    splitList(getenv("CORS_ORIGINS", "http://localhost:3000")),
		SentencesFile:  os.Getenv("SENTENCES_FILE"),
		TuningFile:     os.Getenv("TUNING_FILE"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogEncoding:    getenv("LOG_ENCODING", "json"),
		PersistTimeout: 5 * time.Second,
	}

	if raw := os.Getenv("PERSIST_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("PERSIST_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("PERSIST_TIMEOUT must be positive, got %s", d)
		}
		cfg.PersistTimeout = d
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
