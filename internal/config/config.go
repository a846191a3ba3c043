package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DatasetPath      string
	DefaultTimeLimit int // seconds per turn
	DefaultLives     int
}

// Load reads configuration from the environment, with a .env file picked up
// in development. Missing values fall back to the defaults the game shipped
// with.
func Load() Config {
	_ = godotenv.Load() // best effort; absent in production

	addr := ":3001"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	return Config{
		Addr:             addr,
		DatasetPath:      envOr("GEOCHAIN_DATASET", "datasets/cleaned_CCS_dataset.csv"),
		DefaultTimeLimit: envIntOr("GEOCHAIN_TIME_LIMIT", 60),
		DefaultLives:     envIntOr("GEOCHAIN_LIVES", 3),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
