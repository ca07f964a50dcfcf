// Package galleryconfig loads the small set of tunables the gallery core
// needs: poll cadence, backoff threshold, the three transport timeouts,
// and the log level. Everything has a sane default; the file is optional.
package galleryconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the ambient tunables for one nextgallery process.
type Config struct {
	PollInterval     time.Duration `yaml:"poll_interval"`
	BackoffThreshold int           `yaml:"backoff_threshold"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout"`
	SendTimeout      time.Duration `yaml:"send_timeout"`
	ReceiveTimeout   time.Duration `yaml:"receive_timeout"`
	LogLevel         string        `yaml:"log_level"`
}

// rawConfig mirrors Config's on-disk shape; durations are parsed from
// YAML as plain strings ("3s") via time.ParseDuration rather than
// yaml.v3's own duration support, which termtile's own config does not
// use either.
type rawConfig struct {
	PollInterval     string `yaml:"poll_interval"`
	BackoffThreshold int    `yaml:"backoff_threshold"`
	ConnectTimeout   string `yaml:"connect_timeout"`
	SendTimeout      string `yaml:"send_timeout"`
	ReceiveTimeout   string `yaml:"receive_timeout"`
	LogLevel         string `yaml:"log_level"`
}

// Default returns the config the gallery core runs with when no file is
// present or a field is left unset.
func Default() Config {
	return Config{
		PollInterval:     3 * time.Second,
		BackoffThreshold: 3,
		ConnectTimeout:   2 * time.Second,
		SendTimeout:      1 * time.Second,
		ReceiveTimeout:   5 * time.Second,
		LogLevel:         "info",
	}
}

// DefaultPath returns the standard location for the gallery config file.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("galleryconfig: home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "nextgallery", "config.yaml"), nil
}

// Load reads the config file at path, merging it onto Default(). A
// missing file is not an error; it is equivalent to an empty one.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("galleryconfig: read %s: %w", path, err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("galleryconfig: parse %s: %w", path, err)
	}

	if raw.PollInterval != "" {
		d, err := time.ParseDuration(raw.PollInterval)
		if err != nil {
			return Config{}, fmt.Errorf("galleryconfig: poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}
	if raw.BackoffThreshold > 0 {
		cfg.BackoffThreshold = raw.BackoffThreshold
	}
	if raw.ConnectTimeout != "" {
		d, err := time.ParseDuration(raw.ConnectTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("galleryconfig: connect_timeout: %w", err)
		}
		cfg.ConnectTimeout = d
	}
	if raw.SendTimeout != "" {
		d, err := time.ParseDuration(raw.SendTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("galleryconfig: send_timeout: %w", err)
		}
		cfg.SendTimeout = d
	}
	if raw.ReceiveTimeout != "" {
		d, err := time.ParseDuration(raw.ReceiveTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("galleryconfig: receive_timeout: %w", err)
		}
		cfg.ReceiveTimeout = d
	}
	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}

	return cfg, nil
}

// SlogLevel parses LogLevel into a slog.Level, falling back to
// slog.LevelInfo for an empty or unrecognized value rather than erroring;
// the field is ambient tuning, not input the process should refuse to
// start over.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
