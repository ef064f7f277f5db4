// Package sqlite3 keeps each object as a row of a sqlite3 database.
package sqlite3

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/niclabs/p11pal/storage"
)

// DB is a wrapper over a sql.DB object, complying with the storage
// interface.
type DB struct {
	*sql.DB
}

func GetDatabase(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return &DB{
		DB: db,
	}, nil
}

// Creates the tables if they don't exist yet.
func (db *DB) InitStorage(ctx context.Context) error {
	for _, stmt := range CreateStmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("in stmt %s: %w", stmt, err)
		}
	}
	return nil
}

func (db *DB) Exists(ctx context.Context, name string) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, ExistsObjectQuery, name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (db *DB) Save(ctx context.Context, name string, data []byte) (int, error) {
	if data == nil {
		data = []byte{}
	}
	if _, err := db.ExecContext(ctx, SaveObjectQuery, name, data); err != nil {
		return 0, fmt.Errorf("save %s: %w", name, err)
	}
	return len(data), nil
}

func (db *DB) Open(ctx context.Context, name string) (storage.Reader, error) {
	var size int64
	var value []byte
	err := db.QueryRowContext(ctx, GetObjectQuery, name).Scan(&size, &value)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	return storage.NewBytesReader(value, size), nil
}

func (db *DB) Delete(ctx context.Context, name string) error {
	if _, err := db.ExecContext(ctx, DeleteObjectQuery, name); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (db *DB) CloseStorage() error {
	return db.Close()
}
