// Package fs keeps each object in its own file, through the afs
// filesystem abstraction.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/niclabs/p11pal/storage"
)

// FileMode of created object files. Private keys live among them.
const FileMode os.FileMode = 0600

// DirMode of the base directory when InitStorage has to create it.
const DirMode os.FileMode = os.ModeDir | 0700

// Storage stores every entry as a file named after it under BaseURL.
type Storage struct {
	fs      afs.Service
	BaseURL string
}

// New returns a storage rooted at config.Directory. Relative local paths
// are resolved against the working directory.
func New(config *Config) (*Storage, error) {
	baseURL, err := toURL(config.Directory)
	if err != nil {
		return nil, err
	}
	return &Storage{
		fs:      afs.New(),
		BaseURL: baseURL,
	}, nil
}

func toURL(directory string) (string, error) {
	if strings.Contains(directory, "://") {
		return directory, nil
	}
	abs, err := filepath.Abs(directory)
	if err != nil {
		return "", fmt.Errorf("resolve directory %q: %w", directory, err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

func (s *Storage) entryURL(name string) string {
	return url.Join(s.BaseURL, name)
}

// InitStorage creates the base location if it does not exist yet. The
// files themselves are created on demand.
func (s *Storage) InitStorage(ctx context.Context) error {
	exists, err := s.fs.Exists(ctx, s.BaseURL)
	if err != nil {
		return fmt.Errorf("check %s: %w", s.BaseURL, err)
	}
	if exists {
		return nil
	}
	if err := s.fs.Create(ctx, s.BaseURL, DirMode, true); err != nil {
		return fmt.Errorf("create %s: %w", s.BaseURL, err)
	}
	return nil
}

func (s *Storage) Exists(ctx context.Context, name string) (bool, error) {
	return s.fs.Exists(ctx, s.entryURL(name))
}

func (s *Storage) Save(ctx context.Context, name string, data []byte) (int, error) {
	reader := &storage.CountingReader{Reader: bytes.NewReader(data)}
	if err := s.fs.Upload(ctx, s.entryURL(name), FileMode, reader); err != nil {
		return reader.N, fmt.Errorf("write %s: %w", name, err)
	}
	return reader.N, nil
}

func (s *Storage) Open(ctx context.Context, name string) (storage.Reader, error) {
	URL := s.entryURL(name)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if !exists {
		return nil, storage.ErrNotFound
	}
	// Only local files report a real size; other schemes (mem) report 0,
	// so their content is read up front and measured.
	if url.Scheme(URL, file.Scheme) != file.Scheme {
		data, err := s.fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return storage.NewBytesReader(data, int64(len(data))), nil
	}
	object, err := s.fs.Object(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	reader, err := s.fs.OpenURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return &fileReader{ReadCloser: reader, size: object.Size()}, nil
}

func (s *Storage) Delete(ctx context.Context, name string) error {
	if err := s.fs.Delete(ctx, s.entryURL(name)); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (s *Storage) CloseStorage() error {
	return s.fs.Close(s.BaseURL)
}
