package main

/*
#include "pkcs11pal.h"
*/
import "C"
import (
	"unsafe"

	"github.com/miekg/pkcs11"
)

// cAttribute copies attr into C memory, the way a token library passes a
// label template. A nil value leaves pValue NULL.
func cAttribute(attr *pkcs11.Attribute) (C.CK_ATTRIBUTE_PTR, func()) {
	ptr := C.CK_ATTRIBUTE_PTR(C.malloc(C.size_t(C.sizeof_CK_ATTRIBUTE)))
	ptr._type = C.CK_ATTRIBUTE_TYPE(attr.Type)
	ptr.pValue = nil
	ptr.ulValueLen = C.CK_ULONG(len(attr.Value))
	if attr.Value != nil {
		ptr.pValue = C.CBytes(attr.Value)
	}
	return ptr, func() {
		if ptr.pValue != nil {
			C.free(ptr.pValue)
		}
		C.free(unsafe.Pointer(ptr))
	}
}

// cBytes copies data into C memory. Empty data gives NULL.
func cBytes(data []byte) (C.CK_BYTE_PTR, C.CK_ULONG, func()) {
	if len(data) == 0 {
		return nil, 0, func() {}
	}
	ptr := C.CBytes(data)
	return C.CK_BYTE_PTR(ptr), C.CK_ULONG(len(data)), func() { C.free(ptr) }
}

func cHandle(handle pkcs11.ObjectHandle) C.CK_OBJECT_HANDLE {
	return C.CK_OBJECT_HANDLE(handle)
}

func goHandle(handle C.CK_OBJECT_HANDLE) pkcs11.ObjectHandle {
	return pkcs11.ObjectHandle(handle)
}

func goRV(rv C.CK_RV) pkcs11.Error {
	return pkcs11.Error(rv)
}

// cObjectValue holds the output arguments of PKCS11_PAL_GetObjectValue.
type cObjectValue struct {
	data      C.CK_BYTE_PTR
	size      C.CK_ULONG
	isPrivate C.CK_BBOOL
}

func (v *cObjectValue) get(handle pkcs11.ObjectHandle) pkcs11.Error {
	return goRV(PKCS11_PAL_GetObjectValue(cHandle(handle), &v.data, &v.size, &v.isPrivate))
}

func (v *cObjectValue) cleanup() {
	PKCS11_PAL_GetObjectValueCleanup(v.data, v.size)
	v.data = nil
	v.size = 0
}

func (v *cObjectValue) isNull() bool {
	return v.data == nil
}

func (v *cObjectValue) private() bool {
	return v.isPrivate == ckTrue
}

func (v *cObjectValue) bytes() []byte {
	if v.data == nil {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(v.data), C.int(v.size))
}
