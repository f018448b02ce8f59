package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	CORS_ORIGIN string
	LOG_LEVEL   string
	LOG_FORMAT  string

	// RABBITMQ_URL is optional; tier upgrades are not published without it.
	RABBITMQ_URL string

	STORE_DRIVER    string
	BROWSE_DEBOUNCE time.Duration
	TIMEZONE        string

	// RATE_LIMIT_PER_MINUTE of 0 turns write throttling off.
	RATE_LIMIT_PER_MINUTE int
	RATE_LIMIT_BURST      int

	// Used by the browse client only.
	API_URL   string
	API_TOKEN string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	JWT_SECRET = mustEnv("JWT_SECRET")

	STORE_DRIVER = getEnv("STORE_DRIVER", StoreDriverPostgres)
	if STORE_DRIVER == StoreDriverPostgres {
		DB_URL = mustEnv("DB_URL")
	}

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_FORMAT = getEnv("LOG_FORMAT", "json")
	RABBITMQ_URL = getEnv("RABBITMQ_URL", "")
	TIMEZONE = getEnv("TIMEZONE", "UTC")
	BROWSE_DEBOUNCE = getDuration("BROWSE_DEBOUNCE", 300*time.Millisecond)
	RATE_LIMIT_PER_MINUTE = getInt("RATE_LIMIT_PER_MINUTE", 60)
	RATE_LIMIT_BURST = getInt("RATE_LIMIT_BURST", 10)
}

// LoadClientEnv loads what the browse client needs. It never exits on a
// missing server setting.
func LoadClientEnv() {
	_ = godotenv.Load()

	API_URL = getEnv("API_URL", "http://localhost:8080")
	API_TOKEN = getEnv("API_TOKEN", "")
	LOG_LEVEL = getEnv("LOG_LEVEL", "warn")
	LOG_FORMAT = getEnv("LOG_FORMAT", "console")
	BROWSE_DEBOUNCE = getDuration("BROWSE_DEBOUNCE", 300*time.Millisecond)
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("Invalid integer for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
