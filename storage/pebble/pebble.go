// Package pebble keeps each object under its own key in a pebble store.
package pebble

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/niclabs/p11pal/storage"
)

type DB struct {
	db *pebble.DB
}

// Open opens the store at path. opts may be nil.
func Open(path string, opts *pebble.Options) (*DB, error) {
	if opts == nil {
		opts = &pebble.Options{}
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

// InitStorage does nothing: pebble creates its files when opened.
func (s *DB) InitStorage(ctx context.Context) error {
	return nil
}

func (s *DB) Exists(ctx context.Context, name string) (bool, error) {
	_, closer, err := s.db.Get([]byte(name))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, closer.Close()
}

func (s *DB) Save(ctx context.Context, name string, data []byte) (int, error) {
	if err := s.db.Set([]byte(name), data, pebble.Sync); err != nil {
		return 0, fmt.Errorf("save %s: %w", name, err)
	}
	return len(data), nil
}

func (s *DB) Open(ctx context.Context, name string) (storage.Reader, error) {
	value, closer, err := s.db.Get([]byte(name))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	defer closer.Close()
	// value is only valid until closer is closed.
	data := make([]byte, len(value))
	copy(data, value)
	return storage.NewBytesReader(data, int64(len(data))), nil
}

func (s *DB) Delete(ctx context.Context, name string) error {
	if err := s.db.Delete([]byte(name), pebble.Sync); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (s *DB) CloseStorage() error {
	return s.db.Close()
}
