package cash

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/coin"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/migration"
)

// GenesisAccount is used to parse the json from genesis file
// use rill.Address, so address in hex, not base64
type GenesisAccount struct {
	Address rill.Address `json:"address"`
	Coins   coin.Coins   `json:"coins"`
}

// Initializer fulfils the Initializer interface to load accounts from the
// genesis file
type Initializer struct{}

var _ rill.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account info from genesis and save it to
// the database
func (Initializer) FromGenesis(opts rill.Options, kv rill.KVStore) error {
	accounts := []GenesisAccount{}
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return err
	}
	migration.MustInitPkg(kv, "cash")
	bucket := NewBucket()
	for _, acc := range accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrap(err, "genesis account address")
		}
		wallet, err := bucket.GetOrCreate(kv, acc.Address)
		if err != nil {
			return err
		}
		coins, err := coin.NormalizeCoins(acc.Coins)
		if err != nil {
			return errors.Wrap(err, "genesis account coins")
		}
		wallet.SetCoins(coins)
		if _, err := bucket.Put(kv, acc.Address, wallet); err != nil {
			return errors.Wrap(err, "save genesis wallet")
		}
	}
	return nil
}
