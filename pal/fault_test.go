package pal

import (
	"context"
	"errors"

	"github.com/niclabs/p11pal/storage"
)

var errInjectedFault = errors.New("injected fault")

// faultStorage wraps a working storage and fails the calls selected by its
// fields.
type faultStorage struct {
	storage.ObjectStorage
	failSave   bool
	shortWrite bool
	failExists bool
	failOpen   bool
	failDelete bool
	// sizeDelta is added to the size reported by opened entries.
	sizeDelta int64
}

func (f *faultStorage) Save(ctx context.Context, name string, data []byte) (int, error) {
	if f.failSave {
		// The entry is truncated before the write fails.
		_, _ = f.ObjectStorage.Save(ctx, name, nil)
		return 0, errInjectedFault
	}
	n, err := f.ObjectStorage.Save(ctx, name, data)
	if f.shortWrite && n > 0 {
		n--
	}
	return n, err
}

func (f *faultStorage) Exists(ctx context.Context, name string) (bool, error) {
	if f.failExists {
		return false, errInjectedFault
	}
	return f.ObjectStorage.Exists(ctx, name)
}

func (f *faultStorage) Open(ctx context.Context, name string) (storage.Reader, error) {
	if f.failOpen {
		return nil, errInjectedFault
	}
	reader, err := f.ObjectStorage.Open(ctx, name)
	if err != nil || f.sizeDelta == 0 {
		return reader, err
	}
	return &resizedReader{Reader: reader, delta: f.sizeDelta}, nil
}

func (f *faultStorage) Delete(ctx context.Context, name string) error {
	if f.failDelete {
		return errInjectedFault
	}
	return f.ObjectStorage.Delete(ctx, name)
}

type resizedReader struct {
	storage.Reader
	delta int64
}

func (r *resizedReader) Size() int64 {
	return r.Reader.Size() + r.delta
}

// countingAllocator records outstanding heap buffers.
type countingAllocator struct {
	HeapAllocator
	allocs int
	frees  int
}

func (a *countingAllocator) Alloc(size int) ([]byte, error) {
	buf, err := a.HeapAllocator.Alloc(size)
	if err == nil {
		a.allocs++
	}
	return buf, err
}

func (a *countingAllocator) Free(buf []byte) {
	a.frees++
}
