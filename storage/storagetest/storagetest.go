// Package storagetest checks that an ObjectStorage behaves the way the PAL
// expects from every backend.
package storagetest

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niclabs/p11pal/storage"
)

// Payload returns size random bytes.
func Payload(t *testing.T, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err)
	return data
}

// ReadAll reads the named entry and checks the reported size.
func ReadAll(t *testing.T, s storage.ObjectStorage, name string) []byte {
	t.Helper()
	reader, err := s.Open(context.Background(), name)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, reader.Size(), int64(len(data)))
	return data
}

// Run exercises s, which must be empty and already initialized.
func Run(t *testing.T, s storage.ObjectStorage) {
	ctx := context.Background()

	t.Run("MissingEntry", func(t *testing.T) {
		exists, err := s.Exists(ctx, "missing.dat")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = s.Open(ctx, "missing.dat")
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})

	t.Run("SaveAndOpen", func(t *testing.T) {
		for _, size := range []int{1, 100, 4096, 3 << 20} {
			data := Payload(t, size)
			n, err := s.Save(ctx, "object.dat", data)
			require.NoError(t, err)
			assert.Equal(t, size, n)

			exists, err := s.Exists(ctx, "object.dat")
			require.NoError(t, err)
			assert.True(t, exists)
			assert.Equal(t, data, ReadAll(t, s, "object.dat"))
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		_, err := s.Save(ctx, "overwrite.dat", []byte("a much longer first payload"))
		require.NoError(t, err)
		_, err = s.Save(ctx, "overwrite.dat", []byte("second"))
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), ReadAll(t, s, "overwrite.dat"))
	})

	t.Run("ZeroLength", func(t *testing.T) {
		n, err := s.Save(ctx, "empty.dat", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		exists, err := s.Exists(ctx, "empty.dat")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Empty(t, ReadAll(t, s, "empty.dat"))
	})

	t.Run("Delete", func(t *testing.T) {
		_, err := s.Save(ctx, "delete.dat", []byte("gone soon"))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, "delete.dat"))

		exists, err := s.Exists(ctx, "delete.dat")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Independent", func(t *testing.T) {
		_, err := s.Save(ctx, "one.dat", []byte("one"))
		require.NoError(t, err)
		_, err = s.Save(ctx, "two.dat", []byte("two"))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, "one.dat"))
		assert.Equal(t, []byte("two"), ReadAll(t, s, "two.dat"))
	})
}
