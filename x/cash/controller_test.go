package cash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/rill/coin"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/migration"
	"github.com/iov-one/rill/rilltest"
	"github.com/iov-one/rill/store"
)

func TestMoveCoins(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "cash")

	alice := rilltest.RandCond().Address()
	bob := rilltest.RandCond().Address()
	charlie := rilltest.RandCond().Address()

	ctrl := NewController(NewBucket())
	require.NoError(t, ctrl.CoinMint(db, alice, coin.NewCoin(100, 0, "DIN")))

	// Cannot move more than the wallet holds.
	err := ctrl.MoveCoins(db, alice, bob, coin.NewCoin(200, 0, "DIN"))
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	// Cannot move a negative amount.
	err = ctrl.MoveCoins(db, alice, bob, coin.NewCoin(-5, 0, "DIN"))
	assert.True(t, errors.ErrInvalidAmount.Is(err))

	// Cannot move from an empty wallet.
	err = ctrl.MoveCoins(db, charlie, bob, coin.NewCoin(1, 0, "DIN"))
	assert.True(t, errors.ErrNotFound.Is(err))

	// A proper move updates both wallets.
	require.NoError(t, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(40, 0, "DIN")))

	balance, err := ctrl.Balance(db, alice)
	require.NoError(t, err)
	assert.True(t, balance.Equals(mustCombineCoins(t, coin.NewCoin(60, 0, "DIN"))))

	balance, err = ctrl.Balance(db, bob)
	require.NoError(t, err)
	assert.True(t, balance.Equals(mustCombineCoins(t, coin.NewCoin(40, 0, "DIN"))))

	// Moving zero coins is a no-op, not an error.
	require.NoError(t, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(0, 0, "DIN")))
}

func TestCoinMint(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "cash")

	alice := rilltest.RandCond().Address()

	ctrl := NewController(NewBucket())

	require.NoError(t, ctrl.CoinMint(db, alice, coin.NewCoin(10, 0, "DIN")))
	require.NoError(t, ctrl.CoinMint(db, alice, coin.NewCoin(5, 0, "DIN")))
	require.NoError(t, ctrl.CoinMint(db, alice, coin.NewCoin(2, 0, "OUT")))

	err := ctrl.CoinMint(db, alice, coin.NewCoin(-2, 0, "OUT"))
	assert.True(t, errors.ErrInvalidAmount.Is(err))

	balance, err := ctrl.Balance(db, alice)
	require.NoError(t, err)
	want := mustCombineCoins(t,
		coin.NewCoin(15, 0, "DIN"),
		coin.NewCoin(2, 0, "OUT"),
	)
	assert.True(t, balance.Equals(want))
}

// mustCombineCoins has one return value for tests...
func mustCombineCoins(t testing.TB, cs ...coin.Coin) coin.Coins {
	t.Helper()
	combined, err := coin.CombineCoins(cs...)
	require.NoError(t, err)
	return combined
}
