package orm

import (
	"github.com/iov-one/rill/errors"
)

// ValidateSequence returns an error if this is not an 8-byte
// value as expected for a sequence generated primary key
func ValidateSequence(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "sequence missing")
	}
	if len(id) != 8 {
		return errors.Wrap(errors.ErrInvalidInput, "sequence is invalid length (expect 8 bytes)")
	}
	return nil
}
