// Package store persists typemaster state as whole JSON values under string keys.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Keys of the persisted values.
const (
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
	KeyResults     = "results"
	KeyLeaderboard = "leaderboard"
)

// Backend names.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Gateway is a key-value store of whole values. SetMany writes every pair
// or none of them.
type Gateway interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PostgresDSN   string
}

// PersistenceError reports that storage could not be read or written.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence reports whether err is a PersistenceError.
func IsPersistence(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg Config) (Gateway, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendSQLite:
		if cfg.Path == "" {
			return nil, errors.New("sqlite storage requires a path")
		}
		return OpenSQLite(cfg.Path)
	case BackendRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case BackendPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Memory is an in-process Gateway. State is lost on exit.
type Memory struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemory returns an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{values: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) SetMany(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = append([]byte(nil), v...)
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}
