package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	for _, key := range []string{"PORT", "JWT_SECRET", "ROOM_TIMEOUT_MINUTES", "MAX_PLAYERS", "CATALOG_FILE", "ALLOWED_ORIGINS", "RATE_LIMIT_PER_MINUTE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	config, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, &Config{
		Port:               "3000",
		JwtSecret:          "secret",
		RoomTimeout:        10 * time.Minute,
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 30,
		LogLevel:           "info",
	}, config)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("ROOM_TIMEOUT_MINUTES", "3")
	t.Setenv("MAX_PLAYERS", "5")
	t.Setenv("CATALOG_FILE", "catalog.yaml")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", config.Port)
	assert.Equal(t, 3*time.Minute, config.RoomTimeout)
	assert.Equal(t, 5, config.MaxPlayers)
	assert.Equal(t, "catalog.yaml", config.CatalogFile)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, config.AllowedOrigins)
	assert.Zero(t, config.RateLimitPerMinute)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":  {},
		"bad timeout":     {"JWT_SECRET": "secret", "ROOM_TIMEOUT_MINUTES": "ten"},
		"zero timeout":    {"JWT_SECRET": "secret", "ROOM_TIMEOUT_MINUTES": "0"},
		"bad max players": {"JWT_SECRET": "secret", "MAX_PLAYERS": "many"},
		"bad rate limit":  {"JWT_SECRET": "secret", "RATE_LIMIT_PER_MINUTE": "1.5"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestMustLoadConfigPanics(t *testing.T) {
	clearConfigEnv(t)

	assert.Panics(t, func() { MustLoadConfig() })
}
