package stream

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/gconf"
	"github.com/iov-one/rill/migration"
)

func init() {
	migration.MustRegister(1, &Configuration{}, migration.NoModification)
}

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := c.FeeCollector.Validate(); err != nil {
		return errors.Wrap(err, "fee collector")
	}
	if c.StreamCreationFee != nil {
		if err := c.StreamCreationFee.Validate(); err != nil {
			return errors.Wrap(err, "stream creation fee")
		}
		if !c.StreamCreationFee.IsNonNegative() {
			return errors.Wrap(errors.ErrInvalidAmount, "stream creation fee")
		}
	}
	if c.ExitFee != nil {
		if err := c.ExitFee.Validate(); err != nil {
			return errors.Wrap(err, "exit fee")
		}
		if c.ExitFee.Compare(rill.Fraction{Numerator: 1, Denominator: 1}) > 0 {
			return errors.Wrap(errors.ErrInvalidAmount, "exit fee greater than one")
		}
	}
	if c.MinStreamDuration < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "min stream duration")
	}
	if c.MinWaitUntilStart < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "min wait until start")
	}
	return nil
}

func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "stream", &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
