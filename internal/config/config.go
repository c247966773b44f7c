package config

import (
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port     string
	MongoURI string
	RedisURL string

	// JWTSecret signs and verifies access tokens. Empty disables auth
	// outside production.
	JWTSecret string

	// Scheduled job intervals
	TrendingUpdateInterval   time.Duration
	PopularityUpdateInterval time.Duration
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "3001"),
		MongoURI:  getEnv("MONGODB_URI", "mongodb://localhost:27017/lyricverse"),
		RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret: getEnv("JWT_SECRET", ""),

		TrendingUpdateInterval:   getDurationEnv("TRENDING_UPDATE_INTERVAL", 30*time.Minute),
		PopularityUpdateInterval: getDurationEnv("POPULARITY_UPDATE_INTERVAL", 3*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
