package objects

import (
	"errors"
	"testing"

	"github.com/miekg/pkcs11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelToKind(t *testing.T) {
	cases := []struct {
		label    []byte
		fileName string
		kind     Kind
	}{
		{[]byte(LabelDeviceCertificate), FileNameCertificate, Certificate},
		{[]byte(LabelDevicePrivateKey), FileNamePrivateKey, PrivateKey},
		{[]byte(LabelDevicePublicKey), FileNamePublicKey, PublicKey},
		{[]byte(LabelCodeVerification), FileNameCodeSigningKey, CodeSigningKey},
		{[]byte(LabelDeviceCertificate + "\x00"), FileNameCertificate, Certificate},
		{[]byte(LabelDevicePublicKey + "\x00trailing"), FileNamePublicKey, PublicKey},
		{[]byte("Device"), "", Invalid},
		{[]byte(LabelDeviceCertificate + "s"), "", Invalid},
		{[]byte{}, "", Invalid},
		{nil, "", Invalid},
	}
	for _, c := range cases {
		fileName, kind := LabelToKind(c.label)
		assert.Equal(t, c.fileName, fileName, "label %q", c.label)
		assert.Equal(t, c.kind, kind, "label %q", c.label)
	}
}

func TestNewTable_Overrides(t *testing.T) {
	table := NewTable(Labels{Certificate: "My Cert"})

	fileName, kind := table.LabelToKind([]byte("My Cert"))
	assert.Equal(t, FileNameCertificate, fileName)
	assert.Equal(t, Certificate, kind)

	_, kind = table.LabelToKind([]byte(LabelDeviceCertificate))
	assert.Equal(t, Invalid, kind)

	_, kind = table.LabelToKind([]byte(LabelDevicePrivateKey))
	assert.Equal(t, PrivateKey, kind)
}

func TestKindToFilename(t *testing.T) {
	for _, entry := range DefaultTable {
		fileName, isPrivate, err := KindToFilename(entry.Kind.Handle())
		require.NoError(t, err)
		assert.Equal(t, entry.FileName, fileName)
		assert.Equal(t, entry.Kind == PrivateKey, isPrivate)
	}

	for _, handle := range []pkcs11.ObjectHandle{0, 5, 1 << 20} {
		fileName, _, err := KindToFilename(handle)
		assert.Empty(t, fileName)
		assert.True(t, errors.Is(err, pkcs11.Error(pkcs11.CKR_KEY_HANDLE_INVALID)))
	}
}

func TestHandlesAreStable(t *testing.T) {
	assert.Equal(t, pkcs11.ObjectHandle(0), InvalidHandle)
	assert.Equal(t, pkcs11.ObjectHandle(1), PrivateKey.Handle())
	assert.Equal(t, pkcs11.ObjectHandle(2), PublicKey.Handle())
	assert.Equal(t, pkcs11.ObjectHandle(3), Certificate.Handle())
	assert.Equal(t, pkcs11.ObjectHandle(4), CodeSigningKey.Handle())
}

func TestKindByName(t *testing.T) {
	kind, ok := KindByName("code-signing-key")
	assert.True(t, ok)
	assert.Equal(t, CodeSigningKey, kind)

	_, ok = KindByName("invalid")
	assert.False(t, ok)
	assert.Equal(t, "invalid", Kind(42).String())
}

func TestErrorToRV(t *testing.T) {
	assert.Equal(t, pkcs11.Error(pkcs11.CKR_OK), ErrorToRV(nil))
	assert.Equal(t, pkcs11.Error(pkcs11.CKR_GENERAL_ERROR), ErrorToRV(errors.New("boom")))

	err := NewError("test", "host memory", pkcs11.CKR_HOST_MEMORY)
	assert.Equal(t, pkcs11.Error(pkcs11.CKR_HOST_MEMORY), ErrorToRV(err))
	assert.Equal(t, "test: host memory", err.Error())
}
