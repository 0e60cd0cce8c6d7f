// Package store provides the durable client-side key/value storage that
// holds the persisted session and the student's connection list.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Well-known keys.
const (
	KeySession     = "eduportal.session"
	KeyConnections = "studentConnections"
)

// ErrCorrupt wraps a stored value that could not be decoded.
var ErrCorrupt = errors.New("corrupt stored value")

// Store is string-keyed storage with the semantics of browser local storage:
// a missing key is not an error, values are opaque strings.
type Store interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)

	// Lifecycle
	Close() error
}

// Open creates the store for driver. Drivers: "sqlite", "bolt", "memory".
func Open(ctx context.Context, driver, path string, logger *slog.Logger) (Store, error) {
	if driver != "memory" && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}
	switch driver {
	case "sqlite":
		st, err := NewSQLiteStore(path, logger)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return st, nil
	case "bolt":
		return NewBoltStore(path, logger)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// GetJSON decodes the value under key into v. It reports false when the key
// is absent. A value that does not decode returns an error wrapping ErrCorrupt.
func GetJSON(ctx context.Context, st Store, key string, v any) (bool, error) {
	raw, ok, err := st.GetItem(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, st Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return st.SetItem(ctx, key, string(data))
}
