package cash

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/coin"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/migration"
)

const (
	maxMemoSize int = 128
	maxRefSize  int = 64
)

func init() {
	migration.MustRegister(1, &SendMsg{}, migration.NoModification)
}

var _ rill.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message.
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible.
func (s *SendMsg) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if coin.IsEmpty(s.Amount) || !s.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive SendMsg: %#v", s)
	}
	if err := s.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := s.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := s.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(s.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInvalidInput, "memo too long")
	}
	if len(s.Ref) > maxRefSize {
		return errors.Wrap(errors.ErrInvalidInput, "ref too long")
	}
	return nil
}
