// Package storage defines where the PAL keeps object contents. Each object
// kind owns exactly one named entry; backends store its bytes verbatim.
package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when the named entry does not exist.
var ErrNotFound = errors.New("storage: entry not found")

// ObjectStorage persists opaque byte blobs under fixed names.
type ObjectStorage interface {
	// Executes the logic necessary to initialize the storage.
	InitStorage(ctx context.Context) error

	// Reports whether the named entry exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Replaces the content of the named entry with data, creating it if
	// needed. It returns the number of bytes written. Previous content is
	// lost even if the write fails.
	Save(ctx context.Context, name string, data []byte) (int, error)

	// Opens the named entry for reading, or returns ErrNotFound.
	Open(ctx context.Context, name string) (Reader, error)

	// Removes the named entry.
	Delete(ctx context.Context, name string) error

	// Finalizes the use of the storage. The storage is not usable
	// if this method is called.
	CloseStorage() error
}

// Reader reads an entry whose size is known before reading.
type Reader interface {
	io.ReadCloser
	// Size is the entry size reported by the backend when it was opened.
	Size() int64
}

// NewBytesReader returns a Reader over an in-memory copy of an entry,
// reporting size as its size.
func NewBytesReader(data []byte, size int64) Reader {
	return &bytesReader{Reader: bytes.NewReader(data), size: size}
}

type bytesReader struct {
	*bytes.Reader
	size int64
}

func (r *bytesReader) Size() int64 {
	return r.size
}

func (r *bytesReader) Close() error {
	return nil
}

// CountingReader counts the bytes consumed from the wrapped reader.
type CountingReader struct {
	io.Reader
	N int
}

func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.N += n
	return n, err
}
