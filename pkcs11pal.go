package main

/*
#include "pkcs11pal.h"
*/
import "C"
import (
	"context"
	"os"
	"unsafe"

	"github.com/miekg/pkcs11"

	"github.com/niclabs/p11pal/core"
	"github.com/niclabs/p11pal/objects"
	"github.com/niclabs/p11pal/pal"
)

// ConfigEnv names the environment variable holding an explicit config file.
const ConfigEnv = "P11PAL_CONFIG"

const (
	ckFalse C.CK_BBOOL = 0
	ckTrue  C.CK_BBOOL = 1
)

var Store *pal.Store

func main() {}

func getStore() (*pal.Store, error) {
	if Store != nil {
		return Store, nil
	}
	store, err := core.NewStore(context.Background(), os.Getenv(ConfigEnv), newCAllocator)
	if err != nil {
		return nil, err
	}
	Store = store
	return Store, nil
}

func errorToRV(err error) C.CK_RV {
	return C.CK_RV(objects.ErrorToRV(err))
}

//export PKCS11_PAL_Initialize
func PKCS11_PAL_Initialize() C.CK_RV {
	_, err := getStore()
	return errorToRV(err)
}

//export PKCS11_PAL_SaveObject
func PKCS11_PAL_SaveObject(pxLabel C.CK_ATTRIBUTE_PTR, pucData C.CK_BYTE_PTR, ulDataSize C.CK_ULONG) C.CK_OBJECT_HANDLE {
	store, err := getStore()
	if err != nil || pxLabel == nil {
		return C.CK_OBJECT_HANDLE(objects.InvalidHandle)
	}
	label := &pkcs11.Attribute{Type: uint(pxLabel._type)}
	if pxLabel.pValue != nil {
		label.Value = C.GoBytes(pxLabel.pValue, C.int(pxLabel.ulValueLen))
	}
	var data []byte
	if pucData != nil && ulDataSize > 0 {
		data = unsafe.Slice((*byte)(unsafe.Pointer(pucData)), int(ulDataSize))
	}
	return C.CK_OBJECT_HANDLE(store.SaveObject(context.Background(), label, data))
}

//export PKCS11_PAL_FindObject
func PKCS11_PAL_FindObject(pxLabel C.CK_BYTE_PTR, usLength C.CK_ULONG) C.CK_OBJECT_HANDLE {
	store, err := getStore()
	if err != nil || pxLabel == nil {
		return C.CK_OBJECT_HANDLE(objects.InvalidHandle)
	}
	label := C.GoBytes(unsafe.Pointer(pxLabel), C.int(usLength))
	return C.CK_OBJECT_HANDLE(store.FindObject(context.Background(), label))
}

//export PKCS11_PAL_GetObjectValue
func PKCS11_PAL_GetObjectValue(xHandle C.CK_OBJECT_HANDLE, ppucData *C.CK_BYTE_PTR, pulDataSize C.CK_ULONG_PTR, pIsPrivate *C.CK_BBOOL) C.CK_RV {
	if ppucData == nil || pulDataSize == nil || pIsPrivate == nil {
		return C.CK_RV(pkcs11.CKR_ARGUMENTS_BAD)
	}
	store, err := getStore()
	if err != nil {
		return errorToRV(err)
	}
	value, err := store.GetObjectValue(context.Background(), pkcs11.ObjectHandle(xHandle))
	if err != nil {
		return errorToRV(err)
	}
	*ppucData = C.CK_BYTE_PTR(unsafe.Pointer(unsafe.SliceData(value.Data)))
	*pulDataSize = C.CK_ULONG(len(value.Data))
	*pIsPrivate = ckFalse
	if value.IsPrivate {
		*pIsPrivate = ckTrue
	}
	return C.CK_RV(pkcs11.CKR_OK)
}

//export PKCS11_PAL_GetObjectValueCleanup
func PKCS11_PAL_GetObjectValueCleanup(pucData C.CK_BYTE_PTR, ulDataSize C.CK_ULONG) {
	if pucData == nil {
		return
	}
	store, err := getStore()
	if err != nil {
		// Buffers only come from a live store; free it without zeroing.
		C.free(unsafe.Pointer(pucData))
		return
	}
	store.GetObjectValueCleanup(&pal.ObjectValue{
		Data: cBuffer(unsafe.Pointer(pucData), int(ulDataSize)),
	})
}

//export PKCS11_PAL_DestroyObject
func PKCS11_PAL_DestroyObject(xHandle C.CK_OBJECT_HANDLE) C.CK_RV {
	store, err := getStore()
	if err != nil {
		return errorToRV(err)
	}
	return errorToRV(store.DestroyObject(context.Background(), pkcs11.ObjectHandle(xHandle)))
}
