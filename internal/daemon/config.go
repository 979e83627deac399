// Package daemon manages the Moodlift daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Cohort    CohortConfig    `toml:"cohort"`
	Coach     CoachConfig     `toml:"coach"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// CohortConfig controls study-group assignment at signup.
type CohortConfig struct {
	// Cutoff is the registration rank below which users land in group A.
	Cutoff int `toml:"cutoff"`
}

// CoachConfig points at the OpenAI-compatible endpoint used for
// coaching messages. An empty endpoint disables generation; clients
// get the fixed fallback strings.
type CoachConfig struct {
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`
	Timeout  string `toml:"timeout"`
}

// TelemetryConfig controls the Prometheus /metrics endpoint.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := moodliftHome()
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8787,
		},
		Cohort: CohortConfig{
			Cutoff: 100,
		},
		Coach: CoachConfig{
			Endpoint: "",
			Model:    "gpt-4o-mini",
			Timeout:  "8s",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "moodlift.log"),
		},
	}
}

// LoadConfig reads config from ~/.moodlift/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(moodliftHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet, use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.moodlift/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(moodliftHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// CoachTimeout parses the configured coach timeout, defaulting to 8s.
func (c CoachConfig) CoachTimeout() time.Duration {
	return parseDuration(c.Timeout, 8*time.Second)
}

// parseDuration parses a duration string, returning a fallback on error.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// moodliftHome returns the Moodlift data directory.
func moodliftHome() string {
	if env := os.Getenv("MOODLIFT_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".moodlift")
}

// MoodliftHome is exported for use by other packages.
func MoodliftHome() string {
	return moodliftHome()
}
