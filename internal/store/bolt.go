package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/eduportal/internal/logging"
	"go.etcd.io/bbolt"
)

var itemsBucket = []byte("Items")

// BoltStore implements Store on a bbolt file.
type BoltStore struct {
	db     *bbolt.DB
	logger *slog.Logger
}

// NewBoltStore opens (or creates) the bbolt database at path.
func NewBoltStore(path string, logger *slog.Logger) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(itemsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltStore{db: db, logger: logging.Component(logger, "store")}, nil
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) GetItem(_ context.Context, key string) (string, bool, error) {
	s.logger.Debug("bolt", "op", "get", "key", key)

	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(itemsBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		// v is only valid inside the transaction.
		value = string(v)
		found = true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, found, nil
}

func (s *BoltStore) SetItem(_ context.Context, key, value string) error {
	s.logger.Debug("bolt", "op", "put", "key", key)

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(itemsBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *BoltStore) RemoveItem(_ context.Context, key string) error {
	s.logger.Debug("bolt", "op", "delete", "key", key)

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(itemsBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *BoltStore) Keys(_ context.Context) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(itemsBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}
