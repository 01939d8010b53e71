package cash

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/coin"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/migration"
	"github.com/iov-one/rill/orm"
)

func init() {
	migration.MustRegister(1, &Set{}, migration.NoModification)
}

var _ orm.Model = (*Set)(nil)

// Validate requires that all coins are in alphabetical order and that each
// coin is valid.
func (s *Set) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return coin.Coins(s.Coins).Validate()
}

// Copy makes a new set with the same coins.
func (s *Set) Copy() orm.CloneableData {
	return &Set{
		Metadata: s.Metadata.Copy(),
		Coins:    coin.Coins(s.Coins).Clone(),
	}
}

// SetCoins allows to set coins held by this wallet.
func (s *Set) SetCoins(coins []*coin.Coin) {
	s.Coins = coins
}

// Bucket is a storage of all the wallets.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket initializes a wallet bucket with a schema migrating layer on
// top.
func NewBucket() Bucket {
	b := orm.NewModelBucket("cash", &Set{})
	return Bucket{
		ModelBucket: migration.NewModelBucket("cash", b),
	}
}

// GetOrCreate returns the wallet of given address. If it does not exist yet
// an empty wallet is returned, not yet persisted.
func (b Bucket) GetOrCreate(db rill.ReadOnlyKVStore, key rill.Address) (*Set, error) {
	var set Set
	switch err := b.One(db, key, &set); {
	case err == nil:
		return &set, nil
	case errors.ErrNotFound.Is(err):
		return &Set{
			Metadata: &rill.Metadata{Schema: 1},
		}, nil
	default:
		return nil, err
	}
}

// RegisterQuery registers the wallet bucket on the query router.
func RegisterQuery(qr rill.QueryRouter) {
	NewBucket().Register("wallets", qr)
}
