package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	SQLitePath      string
	RedisAddr       string
	RedisPassword   string
	ContextCacheTTL time.Duration
	SummaryWorkers  int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cacheTTL := 24 * time.Hour
	if ttl := os.Getenv("CONTEXT_CACHE_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			cacheTTL = parsed
		}
	}

	workers := 3
	if w := os.Getenv("SUMMARY_WORKERS"); w != "" {
		if parsed, err := strconv.Atoi(w); err == nil && parsed > 0 {
			workers = parsed
		}
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SQLitePath:      getEnv("SQLITE_PATH", "assistant_core.db"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		ContextCacheTTL: cacheTTL,
		SummaryWorkers:  workers,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
