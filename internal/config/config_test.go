package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/chess-backend/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                ":3000",
		AllowedOrigins:      []string{"http://localhost:5173"},
		LogLevel:            "INFO",
		DBPath:              "file:test.db",
		ClockSeconds:        600,
		MatchmakingInterval: time.Second,
	}
}

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ADDR", "ALLOWED_ORIGINS", "LOG_LEVEL", "DB_PATH", "CLOCK_SECONDS", "MATCHMAKING_INTERVAL_MS"} {
		t.Setenv(key, "")
	}
	// Run from an empty directory so no stray .env is picked up.
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := config.Load()

	assert.Equal(t, validConfig().Addr, cfg.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "file:chess.db", cfg.DBPath)
	assert.Equal(t, 600, cfg.ClockSeconds)
	assert.Equal(t, 10*time.Minute, cfg.ClockDuration())
	assert.Equal(t, time.Second, cfg.MatchmakingInterval)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDR", ":9000")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CLOCK_SECONDS", "180")
	t.Setenv("MATCHMAKING_INTERVAL_MS", "250")

	cfg := config.Load()
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Minute, cfg.ClockDuration())
	assert.Equal(t, 250*time.Millisecond, cfg.MatchmakingInterval)
}

func TestLoadFromDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set, even empty
	// ones, so unset the one under test.
	require.NoError(t, os.Unsetenv("DB_PATH"))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(wd, ".env"), []byte("DB_PATH=file:dotenv.db\n"), 0o600))

	cfg := config.Load()
	assert.Equal(t, "file:dotenv.db", cfg.DBPath)
	require.NoError(t, os.Unsetenv("DB_PATH"))
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLOCK_SECONDS", "ten minutes")

	cfg := config.Load()
	assert.Equal(t, 600, cfg.ClockSeconds)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
		want   string
	}{
		{name: "empty addr", modify: func(c *config.Config) { c.Addr = "" }, want: "ADDR cannot be empty"},
		{name: "no origins", modify: func(c *config.Config) { c.AllowedOrigins = nil }, want: "ALLOWED_ORIGINS cannot be empty"},
		{name: "bad level", modify: func(c *config.Config) { c.LogLevel = "LOUD" }, want: "LOG_LEVEL"},
		{name: "empty db path", modify: func(c *config.Config) { c.DBPath = "" }, want: "DB_PATH cannot be empty"},
		{name: "zero clock", modify: func(c *config.Config) { c.ClockSeconds = 0 }, want: "CLOCK_SECONDS must be positive"},
		{name: "zero interval", modify: func(c *config.Config) { c.MatchmakingInterval = 0 }, want: "MATCHMAKING_INTERVAL_MS must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""
	cfg.DBPath = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR")
	assert.Contains(t, err.Error(), "DB_PATH")
}
