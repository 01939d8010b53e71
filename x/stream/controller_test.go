package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/rill"
	"github.com/iov-one/rill/fixed"
	"github.com/iov-one/rill/rilltest"
)

func newTestStream() *Stream {
	return &Stream{
		Metadata:    &rill.Metadata{Schema: 1},
		Name:        "genesis sale",
		InDenom:     "DIN",
		OutDenom:    "OUT",
		Treasury:    rilltest.RandCond().Address(),
		StartTime:   100,
		EndTime:     200,
		OutTotal:    1000,
		DistIndex:   fixed.Zero(),
		LastUpdated: 100,
		Status:      STATUS_ACTIVE,
		Address:     Condition([]byte("stream-1")).Address(),
	}
}

func newTestPosition(s *Stream, shares int64) *Position {
	s.TotalShares += shares
	s.SpentIn += shares
	return &Position{
		Metadata:      &rill.Metadata{Schema: 1},
		Owner:         rilltest.RandCond().Address(),
		Shares:        shares,
		IndexSnapshot: s.DistIndex,
		PendingEarned: fixed.Zero(),
		Spent:         shares,
		LastUpdated:   s.LastUpdated,
	}
}

func TestTimeWeightedDistribution(t *testing.T) {
	s := newTestStream()

	// First subscriber holds all shares for the first half of the sale,
	// then half of them for the second half. It must end up with three
	// quarters of the supply.
	first := newTestPosition(s, 100)

	require.NoError(t, syncStream(s, 150))
	assert.Equal(t, int64(500), s.DistributedTotal)

	second := newTestPosition(s, 100)

	require.NoError(t, syncStream(s, 200))
	assert.Equal(t, int64(1000), s.DistributedTotal)
	assert.Equal(t, STATUS_ENDED, s.Status)

	require.NoError(t, syncPosition(s, first))
	require.NoError(t, syncPosition(s, second))
	assert.Equal(t, int64(750), first.Earned)
	assert.Equal(t, int64(250), second.Earned)
	assert.True(t, first.PendingEarned.IsZero())
	assert.True(t, second.PendingEarned.IsZero())
}

func TestNothingDistributedWithoutSubscribers(t *testing.T) {
	s := newTestStream()

	require.NoError(t, syncStream(s, 150))
	assert.Equal(t, int64(0), s.DistributedTotal)
	assert.Equal(t, rill.UnixTime(150), s.LastUpdated)
	assert.Equal(t, STATUS_ACTIVE, s.Status)

	// A late subscriber is not backdated. The whole supply is distributed
	// over the remaining window instead.
	pos := newTestPosition(s, 40)
	require.NoError(t, syncStream(s, 200))
	require.NoError(t, syncPosition(s, pos))
	assert.Equal(t, int64(1000), s.DistributedTotal)
	assert.Equal(t, int64(1000), pos.Earned)
}

func TestSupplyLeftoverAfterGap(t *testing.T) {
	s := newTestStream()
	pos := newTestPosition(s, 100)

	require.NoError(t, syncStream(s, 150))
	require.NoError(t, syncPosition(s, pos))
	assert.Equal(t, int64(500), pos.Earned)

	// All shares leave at half time. The remaining supply stays on the
	// stream and is not distributed to anyone.
	s.TotalShares -= pos.Shares
	s.SpentIn -= pos.Spent

	require.NoError(t, syncStream(s, 200))
	assert.Equal(t, int64(500), s.DistributedTotal)
	assert.Equal(t, int64(500), s.OutTotal-s.DistributedTotal)
}

func TestSyncIsIdempotent(t *testing.T) {
	s := newTestStream()
	pos := newTestPosition(s, 100)

	require.NoError(t, syncStream(s, 150))
	require.NoError(t, syncPosition(s, pos))
	earned := pos.Earned

	// Repeating the same sync must not change anything.
	require.NoError(t, syncStream(s, 150))
	require.NoError(t, syncPosition(s, pos))
	assert.Equal(t, earned, pos.Earned)
	assert.Equal(t, int64(500), s.DistributedTotal)
}

func TestNoDistributionBeforeStart(t *testing.T) {
	s := newTestStream()
	s.Status = STATUS_PENDING
	_ = newTestPosition(s, 100)

	require.NoError(t, syncStream(s, 50))
	assert.Equal(t, STATUS_PENDING, s.Status)
	assert.Equal(t, int64(0), s.DistributedTotal)
}

func TestNoDistributionAfterEnd(t *testing.T) {
	s := newTestStream()
	pos := newTestPosition(s, 100)

	// Syncing way past the end must distribute exactly the supply, not
	// more.
	require.NoError(t, syncStream(s, 5000))
	require.NoError(t, syncPosition(s, pos))
	assert.Equal(t, int64(1000), s.DistributedTotal)
	assert.Equal(t, int64(1000), pos.Earned)

	require.NoError(t, syncStream(s, 6000))
	require.NoError(t, syncPosition(s, pos))
	assert.Equal(t, int64(1000), s.DistributedTotal)
	assert.Equal(t, int64(1000), pos.Earned)
}

func TestFractionalAccrualCarriesOver(t *testing.T) {
	s := newTestStream()
	// Three shares over a supply of 1000 does not divide evenly.
	pos := newTestPosition(s, 3)

	var earned int64
	for _, now := range []rill.UnixTime{125, 150, 175, 200} {
		require.NoError(t, syncStream(s, now))
		require.NoError(t, syncPosition(s, pos))
		require.True(t, pos.Earned >= earned, "earned must be monotone")
		earned = pos.Earned
	}
	assert.Equal(t, int64(1000), s.DistributedTotal)
	// The sole subscriber collects the whole supply up to index rounding
	// dust below a single token.
	assert.Equal(t, int64(999), pos.Earned)
	assert.False(t, pos.PendingEarned.IsZero())
}

func TestTerminalStatesAreNotLeft(t *testing.T) {
	s := newTestStream()
	s.Status = STATUS_CANCELLED
	require.NoError(t, syncStream(s, 150))
	assert.Equal(t, STATUS_CANCELLED, s.Status)
	assert.Equal(t, int64(0), s.DistributedTotal)

	s = newTestStream()
	s.Status = STATUS_FINALIZED
	require.NoError(t, syncStream(s, 150))
	assert.Equal(t, STATUS_FINALIZED, s.Status)
}

func TestProjectionsDoNotModifyState(t *testing.T) {
	s := newTestStream()
	pos := newTestPosition(s, 100)

	viewS, err := StreamAt(s, 150)
	require.NoError(t, err)
	assert.Equal(t, int64(500), viewS.DistributedTotal)
	assert.Equal(t, int64(0), s.DistributedTotal)

	viewP, err := PositionAt(s, pos, 150)
	require.NoError(t, err)
	assert.Equal(t, int64(500), viewP.Earned)
	assert.Equal(t, int64(0), pos.Earned)
}
