package config

import (
	"os"
	"strings"
)

// Config is everything the binaries read from the environment.
type Config struct {
	Port         string
	DatabaseDSN  string
	RedisAddr    string
	KafkaBrokers []string

	StripeSecretKey string
	PlaidBaseURL    string
	PlaidClientID   string
	PlaidSecret     string

	StorageDir     string
	StorageBaseURL string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from the environment. Call godotenv.Load
// first in main.
func Load() Config {
	return Config{
		Port:         getenv("PORT", "8080"),
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: strings.Split(getenv("KAFKA_BROKERS", "localhost:9092"), ","),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		PlaidBaseURL:    getenv("PLAID_BASE_URL", "https://sandbox.plaid.com"),
		PlaidClientID:   os.Getenv("PLAID_CLIENT_ID"),
		PlaidSecret:     os.Getenv("PLAID_SECRET"),

		StorageDir:     getenv("STORAGE_DIR", "uploads"),
		StorageBaseURL: getenv("STORAGE_BASE_URL", "http://localhost:8080/files"),
	}
}
