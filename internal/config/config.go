package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Environment variables consulted for the AI credential, in order.
const (
	EnvAPIKey         = "LMEKKI_API_KEY"
	EnvAPIKeyFallback = "API_KEY"
)

// Profile is the [profile] table seeding the user's profile at startup.
type Profile struct {
	Name   string `toml:"name"`
	Avatar string `toml:"avatar"`
	Status string `toml:"status"`
}

// Config represents ~/.lmekki/config.toml.
type Config struct {
	APIKey  string  `toml:"api_key"`
	LogPath string  `toml:"log_path"`
	Profile Profile `toml:"profile"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Profile: Profile{
			Name:   "Lmekki",
			Avatar: "https://i.pravatar.cc/150?u=current-user",
			Status: "Available",
		},
	}
}

// Load reads config from the given path. Returns nil config and error if file missing.
// Unset profile fields fall back to Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	def := Default().Profile
	if cfg.Profile.Name == "" {
		cfg.Profile.Name = def.Name
	}
	if cfg.Profile.Avatar == "" {
		cfg.Profile.Avatar = def.Avatar
	}
	if cfg.Profile.Status == "" {
		cfg.Profile.Status = def.Status
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// ResolveAPIKey returns the AI credential: LMEKKI_API_KEY, then API_KEY, then api_key.
// An empty result means the AI-backed contact runs degraded.
func (c *Config) ResolveAPIKey() string {
	if v := os.Getenv(EnvAPIKey); v != "" {
		return v
	}
	if v := os.Getenv(EnvAPIKeyFallback); v != "" {
		return v
	}
	return c.APIKey
}
