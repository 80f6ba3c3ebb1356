package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/benbeisheim/chess-backend/internal/logger"
)

type Config struct {
	Addr                string
	AllowedOrigins      []string
	LogLevel            string
	DBPath              string
	ClockSeconds        int
	MatchmakingInterval time.Duration
}

// Load reads a .env file when one exists, then the environment. Missing or
// malformed values fall back to defaults.
func Load() Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":3000"),
		AllowedOrigins:      envListOr("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		DBPath:              envOr("DB_PATH", "file:chess.db"),
		ClockSeconds:        envIntOr("CLOCK_SECONDS", 600),
		MatchmakingInterval: time.Duration(envIntOr("MATCHMAKING_INTERVAL_MS", 1000)) * time.Millisecond,
	}
}

// ClockDuration is the per side time control.
func (c Config) ClockDuration() time.Duration {
	return time.Duration(c.ClockSeconds) * time.Second
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("ALLOWED_ORIGINS cannot be empty"))
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if c.ClockSeconds <= 0 {
		errs = append(errs, fmt.Errorf("CLOCK_SECONDS must be positive, got %d", c.ClockSeconds))
	}
	if c.MatchmakingInterval <= 0 {
		errs = append(errs, fmt.Errorf("MATCHMAKING_INTERVAL_MS must be positive, got %s", c.MatchmakingInterval))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		logger.Warn("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
