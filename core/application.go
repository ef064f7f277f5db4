package core

import (
	"context"
	"fmt"

	"github.com/miekg/pkcs11"

	"github.com/niclabs/p11pal/objects"
	"github.com/niclabs/p11pal/pal"
)

// AllocatorFactory returns the allocator of a store whose buffers may not
// exceed maxSize bytes (0 means no limit).
type AllocatorFactory func(maxSize int) pal.Allocator

// HeapAllocatorFactory builds pal.HeapAllocator values.
func HeapAllocatorFactory(maxSize int) pal.Allocator {
	return pal.HeapAllocator{MaxSize: maxSize}
}

// NewStore builds the object store described by the config file at
// configPath (or the default locations when empty) and initializes it.
func NewStore(ctx context.Context, configPath string, allocator AllocatorFactory) (*pal.Store, error) {
	if err := LoadConfig(configPath); err != nil {
		return nil, objects.NewError("NewStore", fmt.Sprintf("cannot load config: %v", err), pkcs11.CKR_FUNCTION_FAILED)
	}
	config, err := GetConfig()
	if err != nil {
		return nil, objects.NewError("NewStore", fmt.Sprintf("cannot read config: %v", err), pkcs11.CKR_FUNCTION_FAILED)
	}
	logger, err := NewLogger(config.General)
	if err != nil {
		return nil, objects.NewError("NewStore", fmt.Sprintf("cannot create logger: %v", err), pkcs11.CKR_FUNCTION_FAILED)
	}
	objectStorage, err := NewStorage(config.PAL.StorageType)
	if err != nil {
		return nil, objects.NewError("NewStore", err.Error(), pkcs11.CKR_FUNCTION_FAILED)
	}
	store := pal.New(objectStorage,
		pal.WithTable(objects.NewTable(config.PAL.Labels)),
		pal.WithAllocator(allocator(config.PAL.MaxObjectSize)),
		pal.WithLogger(logger),
	)
	if err := store.Initialize(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
