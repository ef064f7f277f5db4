package main

/*
#include "pkcs11pal.h"
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/miekg/pkcs11"

	"github.com/niclabs/p11pal/objects"
	"github.com/niclabs/p11pal/pal"
)

// cAllocator hands out malloc'd buffers, so that C callers hold memory the
// Go runtime does not manage.
type cAllocator struct {
	maxSize int
}

func newCAllocator(maxSize int) pal.Allocator {
	return cAllocator{maxSize: maxSize}
}

func (a cAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 || (a.maxSize > 0 && size > a.maxSize) {
		return nil, objects.NewError("cAllocator.Alloc", fmt.Sprintf("cannot allocate %d bytes", size), pkcs11.CKR_HOST_MEMORY)
	}
	// malloc(0) may return NULL; keep one byte so every buffer has an address.
	capacity := size
	if capacity == 0 {
		capacity = 1
	}
	ptr := C.malloc(C.size_t(capacity))
	if ptr == nil {
		return nil, objects.NewError("cAllocator.Alloc", "malloc failed", pkcs11.CKR_HOST_MEMORY)
	}
	return unsafe.Slice((*byte)(ptr), capacity)[:size], nil
}

func (a cAllocator) Free(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	C.free(unsafe.Pointer(unsafe.SliceData(buf)))
}

// cBuffer rebuilds a buffer previously returned by Alloc from its address.
func cBuffer(ptr unsafe.Pointer, size int) []byte {
	capacity := size
	if capacity == 0 {
		capacity = 1
	}
	return unsafe.Slice((*byte)(ptr), capacity)[:size]
}
