package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
base_url = "https://backend.example"
anon_key = "anon-key"
log_level = "debug"

[storage]
bucket = "recipe-photos"
region = "eu-west-3"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://backend.example" || cfg.AnonKey != "anon-key" {
		t.Errorf("cfg = %+v, want file values", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if cfg.Storage.Bucket != "recipe-photos" {
		t.Errorf("bucket = %q, want recipe-photos", cfg.Storage.Bucket)
	}
	if cfg.CachePath == "" {
		t.Error("cache path must default when the file omits it")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
base_url = "https://file.example"
anon_key = "file-key"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PANTRY_BASE_URL", "https://env.example")
	t.Setenv("PANTRY_STORAGE_SECRET_KEY", "env-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://env.example" {
		t.Errorf("base url = %q, want the env override", cfg.BaseURL)
	}
	if cfg.AnonKey != "file-key" {
		t.Errorf("anon key = %q, want the file value kept", cfg.AnonKey)
	}
	if cfg.Storage.SecretKey != "env-secret" {
		t.Errorf("secret = %q, want the env value", cfg.Storage.SecretKey)
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("PANTRY_BASE_URL", "https://env.example")
	t.Setenv("PANTRY_ANON_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://env.example" || cfg.AnonKey != "env-key" {
		t.Errorf("cfg = %+v, want env values", cfg)
	}
}

func TestLoadRequiresBaseURL(t *testing.T) {
	t.Setenv("PANTRY_BASE_URL", "")
	t.Setenv("PANTRY_ANON_KEY", "")

	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error when base_url is nowhere to be found")
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("base_url = ["), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
