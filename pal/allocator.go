package pal

import (
	"fmt"

	"github.com/miekg/pkcs11"

	"github.com/niclabs/p11pal/objects"
)

// Allocator provides the buffers handed to callers of GetObjectValue.
// Every buffer obtained from Alloc is given back through Free exactly once.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
}

// HeapAllocator allocates Go memory. A positive MaxSize caps the size of a
// single buffer.
type HeapAllocator struct {
	MaxSize int
}

func (a HeapAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 || (a.MaxSize > 0 && size > a.MaxSize) {
		return nil, objects.NewError("HeapAllocator.Alloc", fmt.Sprintf("cannot allocate %d bytes", size), pkcs11.CKR_HOST_MEMORY)
	}
	return make([]byte, size), nil
}

// Free leaves the buffer to the garbage collector.
func (a HeapAllocator) Free(buf []byte) {}
