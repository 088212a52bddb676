package config

import (
	"os"
	"strconv"
)

// Environment variables that take precedence over the config file.
const (
	EnvAPIKey      = "TYPEMASTER_API_KEY"
	EnvStorage     = "TYPEMASTER_STORAGE"
	EnvRedisAddr   = "TYPEMASTER_REDIS_ADDR"
	EnvPostgresDSN = "TYPEMASTER_POSTGRES_DSN"
	EnvRedisDB     = "TYPEMASTER_REDIS_DB"
)

// ApplyEnv overrides file values with any set environment variables.
func ApplyEnv(cfg *FileConfig) {
	if v, ok := lookupEnv(EnvAPIKey); ok {
		cfg.Provider.APIKey = &v
	}
	if v, ok := lookupEnv(EnvStorage); ok {
		cfg.Storage.Backend = &v
	}
	if v, ok := lookupEnv(EnvRedisAddr); ok {
		cfg.Storage.RedisAddr = &v
	}
	if v, ok := lookupEnv(EnvPostgresDSN); ok {
		cfg.Storage.PostgresDSN = &v
	}
	if _, ok := lookupEnv(EnvRedisDB); ok {
		db := EnvInt(EnvRedisDB, IntOr(cfg.Storage.RedisDB, 0))
		cfg.Storage.RedisDB = &db
	}
}

// StringOr returns *v or the fallback when v is nil.
func StringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

// IntOr returns *v or the fallback when v is nil.
func IntOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// EnvInt parses an integer environment variable, returning fallback when unset or invalid.
func EnvInt(key string, fallback int) int {
	v, ok := lookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
