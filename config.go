package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	JwtSecret          string
	RoomTimeout        time.Duration
	MaxPlayers         int
	CatalogFile        string
	AllowedOrigins     []string
	RateLimitPerMinute int
	LogLevel           string
}

func LoadConfig() (*Config, error) {
	godotenv.Load()
	config := &Config{
		Port:        getEnv("PORT", "3000"),
		JwtSecret:   os.Getenv("JWT_SECRET"),
		CatalogFile: os.Getenv("CATALOG_FILE"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
	if config.JwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not provided")
	}
	timeoutMinutes, err := getEnvInt("ROOM_TIMEOUT_MINUTES", 10)
	if err != nil {
		return nil, err
	}
	if timeoutMinutes <= 0 {
		return nil, fmt.Errorf("ROOM_TIMEOUT_MINUTES must be positive, got %d", timeoutMinutes)
	}
	config.RoomTimeout = time.Duration(timeoutMinutes) * time.Minute
	if config.MaxPlayers, err = getEnvInt("MAX_PLAYERS", 0); err != nil {
		return nil, err
	}
	if config.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 30); err != nil {
		return nil, err
	}
	for _, origin := range strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			config.AllowedOrigins = append(config.AllowedOrigins, origin)
		}
	}
	return config, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func getEnv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return parsed, nil
}
