// Package pal implements the object storage primitives of a PKCS #11
// token: four fixed objects, each kept as one opaque entry and addressed
// by a handle derived from its kind.
package pal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/miekg/pkcs11"
	"go.uber.org/zap"

	"github.com/niclabs/p11pal/objects"
	"github.com/niclabs/p11pal/storage"
)

// Store is the object store PAL. It is not safe for concurrent use.
type Store struct {
	storage   storage.ObjectStorage
	table     objects.Table
	allocator Allocator
	log       *zap.Logger
}

// ObjectValue is the content of a stored object. Data belongs to the
// caller until it is handed back to GetObjectValueCleanup.
type ObjectValue struct {
	Data      []byte
	IsPrivate bool
}

type Option func(*Store)

// WithTable replaces the default label table.
func WithTable(table objects.Table) Option {
	return func(s *Store) {
		s.table = table
	}
}

// WithAllocator replaces the default heap allocator.
func WithAllocator(allocator Allocator) Option {
	return func(s *Store) {
		s.allocator = allocator
	}
}

// WithLogger sets the logger. Stores log nothing by default.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

func New(objectStorage storage.ObjectStorage, opts ...Option) *Store {
	s := &Store{
		storage:   objectStorage,
		table:     objects.DefaultTable,
		allocator: HeapAllocator{},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("instance", uuid.NewString()))
	return s
}

// Initialize prepares the backend. It establishes no other state.
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.storage.InitStorage(ctx); err != nil {
		return s.fail(objects.NewError("Store.Initialize", err.Error(), pkcs11.CKR_FUNCTION_FAILED))
	}
	s.log.Debug("object store initialized")
	return nil
}

// SaveObject replaces the object named by label with data and returns its
// handle. Unknown labels and storage failures return InvalidHandle; in the
// latter case the previous content may already be gone.
func (s *Store) SaveObject(ctx context.Context, label *pkcs11.Attribute, data []byte) pkcs11.ObjectHandle {
	if label == nil {
		return objects.InvalidHandle
	}
	fileName, kind := s.table.LabelToKind(label.Value)
	if kind == objects.Invalid {
		s.log.Debug("save: unknown label", zap.ByteString("label", label.Value))
		return objects.InvalidHandle
	}
	n, err := s.storage.Save(ctx, fileName, data)
	if err == nil && n != len(data) {
		err = fmt.Errorf("short write: %d of %d bytes", n, len(data))
	}
	if err != nil {
		s.log.Error("save failed", zap.Stringer("kind", kind), zap.String("file", fileName), zap.Error(err))
		return objects.InvalidHandle
	}
	s.log.Debug("object saved", zap.Stringer("kind", kind), zap.Int("size", n))
	return kind.Handle()
}

// FindObject returns the handle of the object named by label if it has been
// stored, or InvalidHandle.
func (s *Store) FindObject(ctx context.Context, label []byte) pkcs11.ObjectHandle {
	fileName, kind := s.table.LabelToKind(label)
	if kind == objects.Invalid {
		return objects.InvalidHandle
	}
	exists, err := s.storage.Exists(ctx, fileName)
	if err != nil {
		s.log.Error("find failed", zap.Stringer("kind", kind), zap.String("file", fileName), zap.Error(err))
		return objects.InvalidHandle
	}
	if !exists {
		return objects.InvalidHandle
	}
	return kind.Handle()
}

// GetObjectValue reads the whole content of the object behind handle into
// a buffer from the store's allocator.
func (s *Store) GetObjectValue(ctx context.Context, handle pkcs11.ObjectHandle) (*ObjectValue, error) {
	fileName, isPrivate, err := objects.KindToFilename(handle)
	if err != nil {
		return nil, s.fail(err)
	}
	reader, err := s.storage.Open(ctx, fileName)
	if err != nil {
		return nil, s.fail(objects.NewError("Store.GetObjectValue", fmt.Sprintf("cannot open %s: %v", fileName, err), pkcs11.CKR_FUNCTION_FAILED))
	}
	defer reader.Close()

	size := reader.Size()
	if size < 0 || int64(int(size)) != size {
		return nil, s.fail(objects.NewError("Store.GetObjectValue", fmt.Sprintf("invalid size %d for %s", size, fileName), pkcs11.CKR_FUNCTION_FAILED))
	}
	data, err := s.allocator.Alloc(int(size))
	if err != nil {
		return nil, s.fail(objects.NewError("Store.GetObjectValue", err.Error(), pkcs11.CKR_HOST_MEMORY))
	}
	n, err := readFull(reader, data)
	if err != nil {
		s.allocator.Free(data)
		return nil, s.fail(objects.NewError("Store.GetObjectValue", fmt.Sprintf("cannot read %s: %v", fileName, err), pkcs11.CKR_FUNCTION_FAILED))
	}
	if int64(n) != size {
		s.allocator.Free(data)
		return nil, s.fail(objects.NewError("Store.GetObjectValue", fmt.Sprintf("%s changed while reading: got %d bytes, expected %d", fileName, n, size), pkcs11.CKR_FUNCTION_FAILED))
	}
	return &ObjectValue{Data: data, IsPrivate: isPrivate}, nil
}

// readFull fills buf and reports how many bytes the reader really held, so
// that an entry that grew after being opened is detected.
func readFull(reader io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(reader, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil
	}
	if err != nil {
		return n, err
	}
	var probe [1]byte
	extra, err := reader.Read(probe[:])
	if err != nil && !errors.Is(err, io.EOF) {
		return n, err
	}
	return n + extra, nil
}

// GetObjectValueCleanup releases a value returned by GetObjectValue. The
// buffer is zeroed first; the stored object is left alone.
func (s *Store) GetObjectValueCleanup(value *ObjectValue) {
	if value == nil || value.Data == nil {
		return
	}
	for i := range value.Data {
		value.Data[i] = 0
	}
	s.allocator.Free(value.Data)
	value.Data = nil
}

// DestroyObject removes the object behind handle. Destroying an object that
// was never stored succeeds.
func (s *Store) DestroyObject(ctx context.Context, handle pkcs11.ObjectHandle) error {
	fileName, _, err := objects.KindToFilename(handle)
	if err != nil {
		return s.fail(objects.NewError("Store.DestroyObject", err.Error(), pkcs11.CKR_OBJECT_HANDLE_INVALID))
	}
	exists, err := s.storage.Exists(ctx, fileName)
	if err != nil {
		return s.fail(objects.NewError("Store.DestroyObject", err.Error(), pkcs11.CKR_FUNCTION_FAILED))
	}
	if !exists {
		return nil
	}
	if err := s.storage.Delete(ctx, fileName); err != nil {
		return s.fail(objects.NewError("Store.DestroyObject", err.Error(), pkcs11.CKR_FUNCTION_FAILED))
	}
	s.log.Debug("object destroyed", zap.Stringer("kind", objects.Kind(handle)))
	return nil
}

// Label returns the label the store binds to kind.
func (s *Store) Label(kind objects.Kind) []byte {
	entry, ok := s.table.Entry(kind)
	if !ok {
		return nil
	}
	return bytes.Clone(entry.Label)
}

// Kind resolves label with the store's label table.
func (s *Store) Kind(label []byte) objects.Kind {
	_, kind := s.table.LabelToKind(label)
	return kind
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.storage.CloseStorage()
}

// fail logs err with its return value and returns it.
func (s *Store) fail(err error) error {
	var palErr *objects.Error
	if errors.As(err, &palErr) {
		s.log.Warn(palErr.Description, zap.String("who", palErr.Who), zap.Uint("code", uint(palErr.Code)))
	} else {
		s.log.Warn(err.Error())
	}
	return err
}
