package cash

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/rill"
	"github.com/iov-one/rill/coin"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/migration"
	"github.com/iov-one/rill/rilltest"
	"github.com/iov-one/rill/store"
)

func TestSendHandler(t *testing.T) {
	alice := rilltest.RandCond()
	bob := rilltest.RandCond()

	cases := map[string]struct {
		signer  rill.Condition
		msg     *SendMsg
		wantErr *errors.Error
		// balance expected on the destination wallet afterwards
		wantDest coin.Coins
	}{
		"authorized send": {
			signer: alice,
			msg: &SendMsg{
				Metadata:    &rill.Metadata{Schema: 1},
				Source:      alice.Address(),
				Destination: bob.Address(),
				Amount:      coin.NewCoinp(30, 0, "DIN"),
			},
			wantDest: coin.Coins{coin.NewCoinp(30, 0, "DIN")},
		},
		"missing source signature": {
			signer: bob,
			msg: &SendMsg{
				Metadata:    &rill.Metadata{Schema: 1},
				Source:      alice.Address(),
				Destination: bob.Address(),
				Amount:      coin.NewCoinp(30, 0, "DIN"),
			},
			wantErr: errors.ErrUnauthorized,
		},
		"non-positive amount": {
			signer: alice,
			msg: &SendMsg{
				Metadata:    &rill.Metadata{Schema: 1},
				Source:      alice.Address(),
				Destination: bob.Address(),
				Amount:      coin.NewCoinp(0, 0, "DIN"),
			},
			wantErr: errors.ErrInvalidAmount,
		},
		"missing metadata": {
			signer: alice,
			msg: &SendMsg{
				Source:      alice.Address(),
				Destination: bob.Address(),
				Amount:      coin.NewCoinp(30, 0, "DIN"),
			},
			wantErr: errors.ErrMetadata,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			migration.MustInitPkg(db, "cash")

			ctrl := NewController(NewBucket())
			require.NoError(t, ctrl.CoinMint(db, alice.Address(), coin.NewCoin(100, 0, "DIN")))

			auth := &rilltest.Auth{Signer: tc.signer}
			h := NewSendHandler(auth, ctrl)

			ctx := context.Background()
			tx := &rilltest.Tx{Msg: tc.msg}

			if _, err := h.Check(ctx, db, tx); tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err))
			} else {
				require.NoError(t, err)
			}

			_, err := h.Deliver(ctx, db, tx)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err))
				return
			}
			require.NoError(t, err)

			balance, err := ctrl.Balance(db, bob.Address())
			require.NoError(t, err)
			assert.True(t, balance.Equals(tc.wantDest))
		})
	}
}
