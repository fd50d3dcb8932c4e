package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the storefront reads from the environment.
type Config struct {
	HTTPPort string

	RedisAddr     string
	RedisPassword string

	SheetID   string
	SheetName string

	// Bound on how long request handlers wait for the first catalog load.
	CatalogWaitTimeout time.Duration
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration

	// The shop's WhatsApp number; order deep links target it.
	WhatsAppPhone string
}

// Load reads the environment, first applying a .env file when one exists.
func Load() *Config {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		SheetID:            getEnv("SHEET_ID", ""),
		SheetName:          getEnv("SHEET_NAME", "Products"),
		CatalogWaitTimeout: getDuration("CATALOG_WAIT_TIMEOUT", 3*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		WhatsAppPhone:      getEnv("WHATSAPP_PHONE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
