package core

import (
	"fmt"

	"github.com/niclabs/p11pal/storage"
	"github.com/niclabs/p11pal/storage/fs"
	"github.com/niclabs/p11pal/storage/pebble"
	"github.com/niclabs/p11pal/storage/sqlite3"
)

// NewStorage returns the storage backend named by storageType, configured
// from its own config section.
func NewStorage(storageType string) (storage.ObjectStorage, error) {
	switch storageType {
	case "fs", "":
		fsConfig, err := fs.GetConfig()
		if err != nil {
			return nil, fmt.Errorf("fs config not defined: %w", err)
		}
		return fs.New(fsConfig)
	case "sqlite3":
		sqliteConfig, err := sqlite3.GetConfig()
		if err != nil {
			return nil, fmt.Errorf("sqlite3 config not defined: %w", err)
		}
		return sqlite3.GetDatabase(sqliteConfig.Path)
	case "pebble":
		pebbleConfig, err := pebble.GetConfig()
		if err != nil {
			return nil, fmt.Errorf("pebble config not defined: %w", err)
		}
		return pebble.Open(pebbleConfig.Path, nil)
	default:
		return nil, fmt.Errorf("storage option not found: '%s'", storageType)
	}
}
