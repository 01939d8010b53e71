package stream

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/coin"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/migration"
)

func init() {
	migration.MustRegister(1, &CreateStreamMsg{}, migration.NoModification)
	migration.MustRegister(1, &SubscribeMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateStreamMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdatePositionMsg{}, migration.NoModification)
	migration.MustRegister(1, &WithdrawMsg{}, migration.NoModification)
	migration.MustRegister(1, &ExitStreamMsg{}, migration.NoModification)
	migration.MustRegister(1, &FinalizeStreamMsg{}, migration.NoModification)
	migration.MustRegister(1, &CancelStreamMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateConfigurationMsg{}, migration.NoModification)
}

var _ rill.Msg = (*CreateStreamMsg)(nil)

func (CreateStreamMsg) Path() string {
	return "stream/create"
}

func (msg *CreateStreamMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if msg.Name == "" {
		return errors.Wrap(errors.ErrEmpty, "name")
	}
	if len(msg.Name) > maxNameSize {
		return errors.Wrap(errors.ErrInvalidInput, "name too long")
	}
	if !coin.IsCC(msg.InDenom) {
		return errors.Wrapf(errors.ErrCurrency, "invalid input ticker: %s", msg.InDenom)
	}
	if !coin.IsCC(msg.OutDenom) {
		return errors.Wrapf(errors.ErrCurrency, "invalid output ticker: %s", msg.OutDenom)
	}
	if msg.InDenom == msg.OutDenom {
		return errors.Wrap(errors.ErrCurrency, "input and output ticker must differ")
	}
	if err := msg.Treasury.Validate(); err != nil {
		return errors.Wrap(err, "treasury")
	}
	if msg.StartTime <= 0 {
		return errors.Wrap(errors.ErrEmpty, "start time")
	}
	if msg.EndTime <= msg.StartTime {
		return errors.Wrap(errors.ErrInvalidState, "end time must be after start time")
	}
	if msg.OutTotal <= 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "out total")
	}
	return nil
}

var _ rill.Msg = (*SubscribeMsg)(nil)

func (SubscribeMsg) Path() string {
	return "stream/subscribe"
}

func (msg *SubscribeMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(msg.StreamID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "stream id")
	}
	if msg.Amount <= 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "amount must be positive")
	}
	return nil
}

var _ rill.Msg = (*UpdateStreamMsg)(nil)

func (UpdateStreamMsg) Path() string {
	return "stream/update_stream"
}

func (msg *UpdateStreamMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(msg.StreamID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "stream id")
	}
	return nil
}

var _ rill.Msg = (*UpdatePositionMsg)(nil)

func (UpdatePositionMsg) Path() string {
	return "stream/update_position"
}

func (msg *UpdatePositionMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(msg.StreamID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "stream id")
	}
	return nil
}

var _ rill.Msg = (*WithdrawMsg)(nil)

func (WithdrawMsg) Path() string {
	return "stream/withdraw"
}

func (msg *WithdrawMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(msg.StreamID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "stream id")
	}
	return nil
}

var _ rill.Msg = (*ExitStreamMsg)(nil)

func (ExitStreamMsg) Path() string {
	return "stream/exit"
}

func (msg *ExitStreamMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(msg.StreamID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "stream id")
	}
	return nil
}

var _ rill.Msg = (*FinalizeStreamMsg)(nil)

func (FinalizeStreamMsg) Path() string {
	return "stream/finalize"
}

func (msg *FinalizeStreamMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(msg.StreamID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "stream id")
	}
	return nil
}

var _ rill.Msg = (*CancelStreamMsg)(nil)

func (CancelStreamMsg) Path() string {
	return "stream/cancel"
}

func (msg *CancelStreamMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(msg.StreamID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "stream id")
	}
	return nil
}

var _ rill.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "stream/update_configuration"
}

func (msg *UpdateConfigurationMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if msg.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}
