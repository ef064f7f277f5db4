package objects

import (
	"errors"
	"fmt"

	"github.com/miekg/pkcs11"
)

// Error is a failure that maps to a PKCS #11 return value.
type Error struct {
	Who         string
	Description string
	Code        pkcs11.Error
}

func NewError(who, description string, code uint) *Error {
	return &Error{
		Who:         who,
		Description: description,
		Code:        pkcs11.Error(code),
	}
}

func (err *Error) Error() string {
	return fmt.Sprintf("%s: %s", err.Who, err.Description)
}

// Is matches errors carrying the same return value, so callers can test
// against a bare pkcs11.Error.
func (err *Error) Is(target error) bool {
	switch t := target.(type) {
	case pkcs11.Error:
		return err.Code == t
	case *Error:
		return err.Code == t.Code
	}
	return false
}

// ErrorToRV extracts the return value from an error. Errors not produced by
// this package are reported as CKR_GENERAL_ERROR.
func ErrorToRV(err error) pkcs11.Error {
	if err == nil {
		return pkcs11.Error(pkcs11.CKR_OK)
	}
	var palErr *Error
	if errors.As(err, &palErr) {
		return palErr.Code
	}
	return pkcs11.Error(pkcs11.CKR_GENERAL_ERROR)
}
