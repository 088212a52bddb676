// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice    PracticeConfig    `toml:"practice"`
	Provider    ProviderConfig    `toml:"provider"`
	Storage     StorageConfig     `toml:"storage"`
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
	Server      ServerConfig      `toml:"server"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Mode     *string `toml:"mode"`
	Duration *int    `toml:"duration"`
	AI       *bool   `toml:"ai"`
	Corpus   *string `toml:"corpus"`
	WordList *string `toml:"wordlist"`
	Words    *int    `toml:"words"`
}

// ProviderConfig maps the generative text provider.
type ProviderConfig struct {
	Endpoint  *string `toml:"endpoint"`
	Model     *string `toml:"model"`
	APIKey    *string `toml:"api-key"`
	TimeoutMs *int    `toml:"timeout-ms"`
	Prompt    *string `toml:"prompt"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend       *string `toml:"backend"`
	Path          *string `toml:"path"`
	RedisAddr     *string `toml:"redis-addr"`
	RedisPassword *string `toml:"redis-password"`
	RedisDB       *int    `toml:"redis-db"`
	PostgresDSN   *string `toml:"postgres-dsn"`
}

// LeaderboardConfig maps leaderboard settings.
type LeaderboardConfig struct {
	Size *int `toml:"size"`
}

// ServerConfig maps the read-only HTTP view.
type ServerConfig struct {
	Addr *string `toml:"addr"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
