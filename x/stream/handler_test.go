package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/rill"
	"github.com/iov-one/rill/app"
	"github.com/iov-one/rill/coin"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/gconf"
	"github.com/iov-one/rill/migration"
	"github.com/iov-one/rill/rilltest"
	"github.com/iov-one/rill/store"
	"github.com/iov-one/rill/x/cash"
)

type testEnv struct {
	db        rill.CacheableKVStore
	router    *app.Router
	auth      *rilltest.CtxAuth
	control   cash.Controller
	streams   *StreamBucket
	positions *PositionBucket

	admin     rill.Condition
	creator   rill.Condition
	alice     rill.Condition
	bob       rill.Condition
	treasury  rill.Address
	collector rill.Address
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		db:        store.MemStore(),
		router:    app.NewRouter(),
		auth:      &rilltest.CtxAuth{Key: "auth"},
		streams:   NewStreamBucket(),
		positions: NewPositionBucket(),
		admin:     rilltest.RandCond(),
		creator:   rilltest.RandCond(),
		alice:     rilltest.RandCond(),
		bob:       rilltest.RandCond(),
		treasury:  rilltest.RandCond().Address(),
		collector: rilltest.RandCond().Address(),
	}
	migration.MustInitPkg(env.db, "stream", "cash")

	conf := Configuration{
		Metadata:          &rill.Metadata{Schema: 1},
		Owner:             env.admin.Address(),
		FeeCollector:      env.collector,
		StreamCreationFee: coin.NewCoinp(10, 0, "FEE"),
		ExitFee:           &rill.Fraction{Numerator: 1, Denominator: 10},
		MinStreamDuration: 10,
		MinWaitUntilStart: 0,
	}
	require.NoError(t, gconf.Save(env.db, "stream", &conf))

	env.control = cash.NewController(cash.NewBucket())
	RegisterRoutes(env.router, env.auth, env.control)

	require.NoError(t, env.control.CoinMint(env.db, env.creator.Address(), coin.NewCoin(1000, 0, "OUT")))
	require.NoError(t, env.control.CoinMint(env.db, env.creator.Address(), coin.NewCoin(10, 0, "FEE")))
	require.NoError(t, env.control.CoinMint(env.db, env.alice.Address(), coin.NewCoin(100, 0, "DIN")))
	require.NoError(t, env.control.CoinMint(env.db, env.bob.Address(), coin.NewCoin(100, 0, "DIN")))
	return env
}

func (env *testEnv) ctx(now int64, signers ...rill.Condition) rill.Context {
	ctx := rill.WithBlockTime(context.Background(), time.Unix(now, 0))
	return env.auth.SetConditions(ctx, signers...)
}

func (env *testEnv) deliver(ctx rill.Context, msg rill.Msg) (*rill.DeliverResult, error) {
	return env.router.Deliver(ctx, env.db, &rilltest.Tx{Msg: msg})
}

// createStream creates a default stream selling 1000 OUT for DIN between
// t=100 and t=200 and returns its ID.
func (env *testEnv) createStream(t *testing.T) []byte {
	t.Helper()
	res, err := env.deliver(env.ctx(50, env.creator), &CreateStreamMsg{
		Metadata:  &rill.Metadata{Schema: 1},
		Name:      "genesis sale",
		InDenom:   "DIN",
		OutDenom:  "OUT",
		Treasury:  env.treasury,
		StartTime: 100,
		EndTime:   200,
		OutTotal:  1000,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Data)
	return res.Data
}

func (env *testEnv) balance(t *testing.T, addr rill.Address) coin.Coins {
	t.Helper()
	balance, err := env.control.Balance(env.db, addr)
	switch {
	case err == nil:
		return balance
	case errors.ErrNotFound.Is(err):
		return nil
	default:
		t.Fatalf("cannot load balance: %+v", err)
		return nil
	}
}

func assertBalance(t *testing.T, got coin.Coins, want ...coin.Coin) {
	t.Helper()
	wantCoins, err := coin.CombineCoins(want...)
	require.NoError(t, err)
	if !got.Equals(wantCoins) {
		t.Fatalf("unexpected balance: got %v, want %v", got, wantCoins)
	}
}

func TestCreateStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.createStream(t)

	var s Stream
	require.NoError(t, env.streams.One(env.db, id, &s))
	assert.Equal(t, STATUS_PENDING, s.Status)
	assert.Equal(t, int64(1000), s.OutTotal)
	// Fees are snapshot at creation time.
	assert.True(t, s.CreationFee.Equals(coin.NewCoin(10, 0, "FEE")))
	require.NotNil(t, s.ExitFee)

	// The supply and the creation fee are escrowed on the stream account.
	assertBalance(t, env.balance(t, s.Address),
		coin.NewCoin(1000, 0, "OUT"), coin.NewCoin(10, 0, "FEE"))
	assertBalance(t, env.balance(t, env.creator.Address()))
}

func TestCreateStreamRequirements(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]struct {
		msg     *CreateStreamMsg
		signer  rill.Condition
		wantErr *errors.Error
	}{
		"duration too short": {
			msg: &CreateStreamMsg{
				Metadata:  &rill.Metadata{Schema: 1},
				Name:      "short", InDenom: "DIN", OutDenom: "OUT",
				Treasury:  env.treasury,
				StartTime: 100, EndTime: 105, OutTotal: 1000,
			},
			signer:  env.creator,
			wantErr: errors.ErrInvalidState,
		},
		"start in the past": {
			msg: &CreateStreamMsg{
				Metadata:  &rill.Metadata{Schema: 1},
				Name:      "late", InDenom: "DIN", OutDenom: "OUT",
				Treasury:  env.treasury,
				StartTime: 10, EndTime: 200, OutTotal: 1000,
			},
			signer:  env.creator,
			wantErr: errors.ErrInvalidState,
		},
		"same denom": {
			msg: &CreateStreamMsg{
				Metadata:  &rill.Metadata{Schema: 1},
				Name:      "loop", InDenom: "DIN", OutDenom: "DIN",
				Treasury:  env.treasury,
				StartTime: 100, EndTime: 200, OutTotal: 1000,
			},
			signer:  env.creator,
			wantErr: errors.ErrCurrency,
		},
		"insufficient funds": {
			msg: &CreateStreamMsg{
				Metadata:  &rill.Metadata{Schema: 1},
				Name:      "broke", InDenom: "DIN", OutDenom: "OUT",
				Treasury:  env.treasury,
				StartTime: 100, EndTime: 200, OutTotal: 1000,
			},
			signer:  env.alice,
			wantErr: errors.ErrInsufficientAmount,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := env.deliver(env.ctx(50, tc.signer), tc.msg)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestSubscribeAndWithdraw(t *testing.T) {
	env := newTestEnv(t)
	id := env.createStream(t)

	// Alice takes all shares at start, Bob joins at half time with the
	// same deposit.
	_, err := env.deliver(env.ctx(100, env.alice), &SubscribeMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id, Amount: 100,
	})
	require.NoError(t, err)
	_, err = env.deliver(env.ctx(150, env.bob), &SubscribeMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id, Amount: 100,
	})
	require.NoError(t, err)

	var s Stream
	require.NoError(t, env.streams.One(env.db, id, &s))
	assert.Equal(t, int64(200), s.TotalShares)
	assert.Equal(t, int64(200), s.SpentIn)
	assert.Equal(t, int64(500), s.DistributedTotal)

	_, err = env.deliver(env.ctx(200, env.alice), &WithdrawMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	require.NoError(t, err)
	assertBalance(t, env.balance(t, env.alice.Address()), coin.NewCoin(750, 0, "OUT"))

	// Withdraw is idempotent, a second call pays nothing more.
	_, err = env.deliver(env.ctx(210, env.alice), &WithdrawMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	require.NoError(t, err)
	assertBalance(t, env.balance(t, env.alice.Address()), coin.NewCoin(750, 0, "OUT"))
}

func TestSubscribeRequiresActiveStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.createStream(t)

	// Before the start time the stream is pending.
	_, err := env.deliver(env.ctx(60, env.alice), &SubscribeMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id, Amount: 100,
	})
	assert.True(t, ErrStreamNotActive.Is(err))

	// After the end time it is ended.
	_, err = env.deliver(env.ctx(300, env.alice), &SubscribeMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id, Amount: 100,
	})
	assert.True(t, ErrStreamNotActive.Is(err))

	// Unknown streams cannot be subscribed to.
	_, err = env.deliver(env.ctx(150, env.alice), &SubscribeMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: []byte("unknown!"), Amount: 100,
	})
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestUpdateStreamAndPosition(t *testing.T) {
	env := newTestEnv(t)
	id := env.createStream(t)

	_, err := env.deliver(env.ctx(100, env.alice), &SubscribeMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id, Amount: 100,
	})
	require.NoError(t, err)

	// Anyone can poke a stream forward.
	_, err = env.deliver(env.ctx(150, env.bob), &UpdateStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	require.NoError(t, err)

	var s Stream
	require.NoError(t, env.streams.One(env.db, id, &s))
	assert.Equal(t, int64(500), s.DistributedTotal)
	assert.Equal(t, rill.UnixTime(150), s.LastUpdated)

	_, err = env.deliver(env.ctx(150, env.alice), &UpdatePositionMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	require.NoError(t, err)

	var pos Position
	require.NoError(t, env.positions.One(env.db, positionKey(id, env.alice.Address()), &pos))
	assert.Equal(t, int64(500), pos.Earned)

	// Without a position there is nothing to reconcile.
	_, err = env.deliver(env.ctx(150, env.bob), &UpdatePositionMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestExitStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.createStream(t)

	_, err := env.deliver(env.ctx(100, env.alice), &SubscribeMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id, Amount: 100,
	})
	require.NoError(t, err)

	// Leaving at half time pays out what was earned so far and refunds
	// the deposit.
	_, err = env.deliver(env.ctx(150, env.alice), &ExitStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	require.NoError(t, err)
	assertBalance(t, env.balance(t, env.alice.Address()),
		coin.NewCoin(500, 0, "OUT"), coin.NewCoin(100, 0, "DIN"))

	var s Stream
	require.NoError(t, env.streams.One(env.db, id, &s))
	assert.Equal(t, int64(0), s.TotalShares)
	assert.Equal(t, int64(0), s.SpentIn)

	err = env.positions.One(env.db, positionKey(id, env.alice.Address()), &Position{})
	assert.True(t, errors.ErrNotFound.Is(err))

	// A second exit has no position to close.
	_, err = env.deliver(env.ctx(160, env.alice), &ExitStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestExitRightAfterSubscribe(t *testing.T) {
	env := newTestEnv(t)
	id := env.createStream(t)

	_, err := env.deliver(env.ctx(100, env.alice), &SubscribeMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id, Amount: 100,
	})
	require.NoError(t, err)

	// Nothing accrued yet, the full deposit comes back.
	_, err = env.deliver(env.ctx(100, env.alice), &ExitStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	require.NoError(t, err)
	assertBalance(t, env.balance(t, env.alice.Address()), coin.NewCoin(100, 0, "DIN"))

	var s Stream
	require.NoError(t, env.streams.One(env.db, id, &s))
	assert.Equal(t, int64(0), s.TotalShares)
	assert.Equal(t, int64(0), s.DistributedTotal)
}

func TestFinalizeStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.createStream(t)

	_, err := env.deliver(env.ctx(100, env.alice), &SubscribeMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id, Amount: 100,
	})
	require.NoError(t, err)
	_, err = env.deliver(env.ctx(150, env.bob), &SubscribeMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id, Amount: 100,
	})
	require.NoError(t, err)

	// Too early.
	_, err = env.deliver(env.ctx(150, env.creator), &FinalizeStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	assert.True(t, ErrStreamNotEnded.Is(err))

	_, err = env.deliver(env.ctx(200, env.creator), &FinalizeStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	require.NoError(t, err)

	// Proceeds of 200 DIN minus the 10% exit fee go to the treasury. The
	// exit fee and the creation fee go to the fee collector.
	assertBalance(t, env.balance(t, env.treasury), coin.NewCoin(180, 0, "DIN"))
	assertBalance(t, env.balance(t, env.collector),
		coin.NewCoin(20, 0, "DIN"), coin.NewCoin(10, 0, "FEE"))

	var s Stream
	require.NoError(t, env.streams.One(env.db, id, &s))
	assert.Equal(t, STATUS_FINALIZED, s.Status)
	assert.Equal(t, int64(1000), s.DistributedTotal)

	// Earnings can still be withdrawn after finalization.
	_, err = env.deliver(env.ctx(250, env.bob), &WithdrawMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	require.NoError(t, err)
	assertBalance(t, env.balance(t, env.bob.Address()), coin.NewCoin(250, 0, "OUT"))

	// But leaving is no longer possible.
	_, err = env.deliver(env.ctx(250, env.bob), &ExitStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	assert.True(t, ErrStreamNotActive.Is(err))

	// And finalizing twice is not.
	_, err = env.deliver(env.ctx(250, env.creator), &FinalizeStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	assert.True(t, ErrAlreadyFinalized.Is(err))
}

func TestFinalizeStreamWithoutSubscribers(t *testing.T) {
	env := newTestEnv(t)
	id := env.createStream(t)

	_, err := env.deliver(env.ctx(200, env.creator), &FinalizeStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	require.NoError(t, err)

	// Nothing was sold so the whole supply is returned to the treasury.
	assertBalance(t, env.balance(t, env.treasury), coin.NewCoin(1000, 0, "OUT"))
	assertBalance(t, env.balance(t, env.collector), coin.NewCoin(10, 0, "FEE"))
}

func TestCancelStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.createStream(t)

	_, err := env.deliver(env.ctx(100, env.alice), &SubscribeMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id, Amount: 100,
	})
	require.NoError(t, err)

	// Only the configuration owner can cancel.
	_, err = env.deliver(env.ctx(150, env.alice), &CancelStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = env.deliver(env.ctx(150, env.admin), &CancelStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	require.NoError(t, err)

	// Everything but the deposits is swept to the treasury.
	assertBalance(t, env.balance(t, env.treasury),
		coin.NewCoin(1000, 0, "OUT"), coin.NewCoin(10, 0, "FEE"))

	var s Stream
	require.NoError(t, env.streams.One(env.db, id, &s))
	assert.Equal(t, STATUS_CANCELLED, s.Status)
	assertBalance(t, env.balance(t, s.Address), coin.NewCoin(100, 0, "DIN"))

	// Subscribers get their deposit back, nothing else.
	_, err = env.deliver(env.ctx(160, env.alice), &ExitStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	require.NoError(t, err)
	assertBalance(t, env.balance(t, env.alice.Address()), coin.NewCoin(100, 0, "DIN"))

	// No new deposits are accepted.
	_, err = env.deliver(env.ctx(170, env.bob), &SubscribeMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id, Amount: 50,
	})
	assert.True(t, ErrStreamNotActive.Is(err))

	// A cancelled stream cannot be cancelled again or finalized.
	_, err = env.deliver(env.ctx(250, env.admin), &CancelStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	assert.True(t, ErrStreamNotActive.Is(err))
	_, err = env.deliver(env.ctx(250, env.creator), &FinalizeStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	assert.True(t, ErrStreamNotActive.Is(err))
}

func TestCancelEndedStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.createStream(t)

	_, err := env.deliver(env.ctx(300, env.admin), &CancelStreamMsg{
		Metadata: &rill.Metadata{Schema: 1}, StreamID: id,
	})
	assert.True(t, ErrStreamNotActive.Is(err))
}

func TestUpdateConfiguration(t *testing.T) {
	env := newTestEnv(t)

	msg := &UpdateConfigurationMsg{
		Metadata: &rill.Metadata{Schema: 1},
		Patch: &Configuration{
			Metadata:          &rill.Metadata{Schema: 1},
			Owner:             env.admin.Address(),
			FeeCollector:      env.collector,
			MinStreamDuration: 60,
		},
	}

	// Only the configuration owner can change it.
	_, err := env.deliver(env.ctx(50, env.alice), msg)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = env.deliver(env.ctx(50, env.admin), msg)
	require.NoError(t, err)

	conf, err := loadConf(env.db)
	require.NoError(t, err)
	assert.Equal(t, rill.UnixDuration(60), conf.MinStreamDuration)
	// Zero value fields in the patch keep their previous value.
	require.NotNil(t, conf.StreamCreationFee)
	assert.True(t, conf.StreamCreationFee.Equals(coin.NewCoin(10, 0, "FEE")))
}
