package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Mode != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[practice]
mode = "timed"
duration = 120
ai = true

[storage]
backend = "memory"

[leaderboard]
size = 10
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if StringOr(cfg.Practice.Mode, "") != "timed" {
		t.Fatalf("unexpected mode: %v", cfg.Practice.Mode)
	}
	if IntOr(cfg.Practice.Duration, 0) != 120 {
		t.Fatalf("unexpected duration")
	}
	if cfg.Practice.AI == nil || !*cfg.Practice.AI {
		t.Fatalf("expected ai enabled")
	}
	if StringOr(cfg.Storage.Backend, "") != "memory" {
		t.Fatalf("unexpected backend")
	}
	if IntOr(cfg.Leaderboard.Size, 0) != 10 {
		t.Fatalf("unexpected leaderboard size")
	}
}

func TestLoadConfigRejectsEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIKey, "secret")
	t.Setenv(EnvStorage, "redis")
	t.Setenv(EnvRedisDB, "3")
	backend := "sqlite"
	cfg := FileConfig{Storage: StorageConfig{Backend: &backend}}
	ApplyEnv(&cfg)
	if StringOr(cfg.Provider.APIKey, "") != "secret" {
		t.Fatalf("expected api key from env")
	}
	if StringOr(cfg.Storage.Backend, "") != "redis" {
		t.Fatalf("expected env backend to win")
	}
	if IntOr(cfg.Storage.RedisDB, 0) != 3 {
		t.Fatalf("expected redis db 3")
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultDBPath(); got != filepath.Join("/data", "typemaster", "typemaster.db") {
		t.Fatalf("unexpected db path %s", got)
	}
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "typemaster", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "typemaster", "typemaster.log") {
		t.Fatalf("unexpected log path %s", got)
	}
}
