// Package config loads viewer settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envFileName = ".env"

// Config holds all configuration values. The backend address is not part
// of it: datasource.Discover reads VAV_API_URL, which a .env file may set.
type Config struct {
	// Logging
	LogFile  string
	LogLevel slog.Level

	// IANA zone for rendered timestamps; empty means the local zone.
	Timezone string

	// EnvFile is the .env file that was loaded, if any.
	EnvFile string
}

// Load reads configuration from environment variables, after loading the
// nearest .env file (CWD, then parents). Variables already set in the
// environment win over the file.
func Load() Config {
	envFile := findEnvFile()
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			slog.Warn("failed to load env file", "file", envFile, "error", err)
			envFile = ""
		}
	}

	return Config{
		LogFile:  getEnv("VAV_LOG_FILE", filepath.Join(os.TempDir(), "vav.log")),
		LogLevel: ParseLogLevel(getEnv("VAV_LOG_LEVEL", "INFO")),
		Timezone: os.Getenv("VAV_TIMEZONE"),
		EnvFile:  envFile,
	}
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// ParseLogLevel maps a level name to a slog level. Unknown names are INFO.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// findEnvFile returns the nearest .env walking up from the working
// directory, or "" if there is none.
func findEnvFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, envFileName)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
