package objects

import "github.com/miekg/pkcs11"

// Kind is one of the fixed categories of objects the PAL can store.
// Its numeric value is also the object handle given to the token library.
type Kind uint

const (
	// Invalid is never a valid object. PKCS #11 reserves handle 0.
	Invalid Kind = iota
	PrivateKey
	PublicKey
	Certificate
	CodeSigningKey
)

// InvalidHandle is returned by handle-producing operations when the
// object cannot be resolved or stored.
const InvalidHandle = pkcs11.ObjectHandle(Invalid)

var kindNames = map[Kind]string{
	Invalid:        "invalid",
	PrivateKey:     "private-key",
	PublicKey:      "public-key",
	Certificate:    "certificate",
	CodeSigningKey: "code-signing-key",
}

func (kind Kind) String() string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	return kindNames[Invalid]
}

// Handle returns the object handle derived from the kind.
func (kind Kind) Handle() pkcs11.ObjectHandle {
	return pkcs11.ObjectHandle(kind)
}

// KindByName returns the kind with the given name, as printed by String.
func KindByName(name string) (Kind, bool) {
	for kind, kindName := range kindNames {
		if kind != Invalid && kindName == name {
			return kind, true
		}
	}
	return Invalid, false
}
