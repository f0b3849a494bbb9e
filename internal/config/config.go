package config

import (
	"fmt"
	"time"

	"github.com/kalambet/filmdeck/internal/ghibli"
)

type Config struct {
	Server ServerConfig
	Source SourceConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port            int
	RefreshInterval string
	Token           string
}

type SourceConfig struct {
	URL     string
	Timeout string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4100,
		},
		Source: SourceConfig{
			URL: ghibli.DefaultURL,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.filmdeck.app) and the
// server token falls back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/filmdeck/config.json
// and the token falls back to $XDG_DATA_HOME/filmdeck/secrets.json.
//
// Environment variables (FILMDECK_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), NewKeychain())
}

func loadWith(b ConfigBackend, kc Keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Server.Token == "" {
		if tok, err := kc.Get(keychainService, serverTokenAccount); err == nil && tok != "" {
			cfg.Server.Token = tok
		}
	}

	if _, err := parseDuration(cfg.Source.Timeout); err != nil {
		return Config{}, fmt.Errorf("source.timeout: %w", err)
	}
	if _, err := parseDuration(cfg.Server.RefreshInterval); err != nil {
		return Config{}, fmt.Errorf("server.refresh_interval: %w", err)
	}

	return cfg, nil
}

// SourceTimeout is the per-request timeout for the films source; zero means none.
func (c Config) SourceTimeout() time.Duration {
	d, _ := parseDuration(c.Source.Timeout)
	return d
}

// RefreshInterval is the background refresh period; zero disables it.
func (c Config) RefreshInterval() time.Duration {
	d, _ := parseDuration(c.Server.RefreshInterval)
	return d
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
