package objects

import (
	"bytes"
	"fmt"

	"github.com/miekg/pkcs11"
)

// Default labels used by token libraries for the provisioned objects.
const (
	LabelDeviceCertificate = "Device Cert"
	LabelDevicePrivateKey  = "Device Priv TLS Key"
	LabelDevicePublicKey   = "Device Pub TLS Key"
	LabelCodeVerification  = "Code Verify Key"
)

// Entry names. They are part of the on-disk layout and must not change.
const (
	FileNameCertificate    = "FreeRTOS_P11_Certificate.dat"
	FileNamePrivateKey     = "FreeRTOS_P11_Key.dat"
	FileNamePublicKey      = "FreeRTOS_P11_PubKey.dat"
	FileNameCodeSigningKey = "FreeRTOS_P11_CodeSignKey.dat"
)

// Labels holds the label bound to each kind. Empty fields keep the default.
type Labels struct {
	Certificate    string
	PrivateKey     string
	PublicKey      string
	CodeSigningKey string
}

// Entry binds a kind to its label, its storage name and its sensitivity.
type Entry struct {
	Kind     Kind
	Label    []byte
	FileName string
	Private  bool
}

// Table is the fixed lookup table of storable objects. Its order is the
// priority order used when resolving labels.
type Table []Entry

// DefaultTable uses the default labels.
var DefaultTable = NewTable(Labels{})

// NewTable builds the lookup table, overriding the default labels with the
// non-empty ones in labels.
func NewTable(labels Labels) Table {
	return Table{
		{Certificate, labelOrDefault(labels.Certificate, LabelDeviceCertificate), FileNameCertificate, false},
		{PrivateKey, labelOrDefault(labels.PrivateKey, LabelDevicePrivateKey), FileNamePrivateKey, true},
		{PublicKey, labelOrDefault(labels.PublicKey, LabelDevicePublicKey), FileNamePublicKey, false},
		{CodeSigningKey, labelOrDefault(labels.CodeSigningKey, LabelCodeVerification), FileNameCodeSigningKey, false},
	}
}

func labelOrDefault(label, def string) []byte {
	if label == "" {
		return []byte(def)
	}
	return []byte(label)
}

// LabelToKind resolves a label to its storage name and kind. The label is
// read as a C string: bytes after the first NUL are ignored. A nil or
// unknown label returns ("", Invalid).
func (table Table) LabelToKind(label []byte) (string, Kind) {
	if label == nil {
		return "", Invalid
	}
	if i := bytes.IndexByte(label, 0); i >= 0 {
		label = label[:i]
	}
	for _, entry := range table {
		if bytes.Equal(label, entry.Label) {
			return entry.FileName, entry.Kind
		}
	}
	return "", Invalid
}

// Entry returns the table entry of kind.
func (table Table) Entry(kind Kind) (Entry, bool) {
	for _, entry := range table {
		if entry.Kind == kind {
			return entry, true
		}
	}
	return Entry{}, false
}

// LabelToKind resolves a label against DefaultTable.
func LabelToKind(label []byte) (string, Kind) {
	return DefaultTable.LabelToKind(label)
}

// KindToFilename resolves a handle to its storage name and sensitivity.
// It does not look at the storage. Labels play no part here, so any table
// gives the same answer.
func KindToFilename(handle pkcs11.ObjectHandle) (fileName string, isPrivate bool, err error) {
	entry, ok := DefaultTable.Entry(Kind(handle))
	if !ok {
		return "", false, NewError("objects.KindToFilename", fmt.Sprintf("unknown object handle %d", handle), pkcs11.CKR_KEY_HANDLE_INVALID)
	}
	return entry.FileName, entry.Private, nil
}
