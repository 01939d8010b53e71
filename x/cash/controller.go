package cash

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/coin"
	"github.com/iov-one/rill/errors"
)

// Controller is the functionality needed by other handlers to move tokens
// between accounts. BaseController is the standard implementation.
type Controller interface {
	// Balance returns the amount of funds stored under given account
	// address.
	Balance(rill.KVStore, rill.Address) (coin.Coins, error)

	// MoveCoins removes funds from the source account and adds them to
	// the destination account.
	MoveCoins(store rill.KVStore, src rill.Address, dest rill.Address, amount coin.Coin) error

	// CoinMint adds the given amount of funds to the account with given
	// address.
	CoinMint(rill.KVStore, rill.Address, coin.Coin) error
}

// BaseController implements Controller over a wallet bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount of funds stored under given account address.
func (c BaseController) Balance(store rill.KVStore, src rill.Address) (coin.Coins, error) {
	var wallet Set
	if err := c.bucket.One(store, src, &wallet); err != nil {
		return nil, errors.Wrap(err, "cannot get wallet")
	}
	return coin.Coins(wallet.Coins), nil
}

// MoveCoins moves the given amount from src to dest. If src doesn't exist,
// or doesn't have sufficient coins, it fails.
func (c BaseController) MoveCoins(store rill.KVStore, src rill.Address, dest rill.Address, amount coin.Coin) error {
	if amount.IsZero() {
		return nil
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive send: %#v", &amount)
	}

	var sender Set
	if err := c.bucket.One(store, src, &sender); err != nil {
		return errors.Wrap(err, "cannot get source wallet")
	}
	if !coin.Coins(sender.Coins).Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "funds %#v", &amount)
	}
	remaining, err := coin.Coins(sender.Coins).Subtract(amount)
	if err != nil {
		return err
	}
	sender.SetCoins(remaining)
	if _, err := c.bucket.Put(store, src, &sender); err != nil {
		return errors.Wrap(err, "cannot update source wallet")
	}

	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return errors.Wrap(err, "cannot get destination wallet")
	}
	total, err := coin.Coins(recipient.Coins).Add(amount)
	if err != nil {
		return err
	}
	recipient.SetCoins(total)
	if _, err := c.bucket.Put(store, dest, recipient); err != nil {
		return errors.Wrap(err, "cannot update destination wallet")
	}
	return nil
}

// CoinMint attempts to add the given amount of coins to the destination
// address, creating the account if it does not exist.
func (c BaseController) CoinMint(store rill.KVStore, dest rill.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive issue: %#v", &amount)
	}

	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return errors.Wrap(err, "cannot get destination wallet")
	}
	total, err := coin.Coins(recipient.Coins).Add(amount)
	if err != nil {
		return err
	}
	recipient.SetCoins(total)
	if _, err := c.bucket.Put(store, dest, recipient); err != nil {
		return errors.Wrap(err, "cannot update destination wallet")
	}
	return nil
}
