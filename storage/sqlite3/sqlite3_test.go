package sqlite3

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niclabs/p11pal/storage/storagetest"
)

func newDB(t *testing.T, path string) *DB {
	db, err := GetDatabase(path)
	require.NoError(t, err)
	require.NoError(t, db.InitStorage(context.Background()))
	return db
}

func TestDB(t *testing.T) {
	db := newDB(t, filepath.Join(t.TempDir(), "pal.db"))
	defer db.CloseStorage()

	storagetest.Run(t, db)
}

func TestDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pal.db")
	ctx := context.Background()

	db := newDB(t, path)
	_, err := db.Save(ctx, "cert.dat", []byte("certificate"))
	require.NoError(t, err)
	require.NoError(t, db.CloseStorage())

	// InitStorage is safe to run on an existing database.
	db = newDB(t, path)
	defer db.CloseStorage()
	assert.Equal(t, []byte("certificate"), storagetest.ReadAll(t, db, "cert.dat"))
}
