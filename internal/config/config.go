// Package config loads the TOML configuration file and applies environment
// overrides for the values that should not live on disk.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Storage configures the photo and backup bucket.
type Storage struct {
	Endpoint      string `toml:"endpoint"`
	PublicBaseURL string `toml:"public_base_url"`
	Bucket        string `toml:"bucket"`
	Region        string `toml:"region"`
	AccessKey     string `toml:"access_key"`
	SecretKey     string `toml:"secret_key"`
}

type Config struct {
	BaseURL   string  `toml:"base_url"`
	AnonKey   string  `toml:"anon_key"`
	CachePath string  `toml:"cache_path"`
	LogLevel  string  `toml:"log_level"`
	Storage   Storage `toml:"storage"`
}

// Dir returns the per-user configuration directory, created on demand.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	dir := filepath.Join(base, "pantry")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// Load reads the config at path, or the default location when path is
// empty. A missing file yields the defaults; the file never has to exist.
func Load(path string) (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = filepath.Join(dir, "config.toml")
	}

	cfg := &Config{
		CachePath: filepath.Join(dir, "cache.db"),
		LogLevel:  "info",
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults plus environment only.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url is not set (config file or PANTRY_BASE_URL)")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("anon_key is not set (config file or PANTRY_ANON_KEY)")
	}
	return cfg, nil
}

// applyEnv lets the environment override file values, so credentials can
// stay out of the config file entirely.
func applyEnv(cfg *Config) {
	override(&cfg.BaseURL, "PANTRY_BASE_URL")
	override(&cfg.AnonKey, "PANTRY_ANON_KEY")
	override(&cfg.CachePath, "PANTRY_CACHE_PATH")
	override(&cfg.LogLevel, "PANTRY_LOG_LEVEL")
	override(&cfg.Storage.AccessKey, "PANTRY_STORAGE_ACCESS_KEY")
	override(&cfg.Storage.SecretKey, "PANTRY_STORAGE_SECRET_KEY")
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
