package rill

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixTimeUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantErr  bool
		wantTime UnixTime
	}{
		"zero UNIX time": {
			raw:      "0",
			wantTime: 0,
		},
		"zero time in seconds": {
			raw:      "1234567890",
			wantTime: 1234567890,
		},
		"negative UNIX time": {
			raw:     "-1234567890",
			wantErr: true,
		},
		"string time format": {
			raw:      `"2019-04-04T11:35:40Z"`,
			wantTime: 1554377740,
		},
		"invalid string time format": {
			raw:     `"two days ago"`,
			wantErr: true,
		},
		"float is not a valid time": {
			raw:     "123.456",
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTime, got)
		})
	}
}

func TestUnixTimeAdd(t *testing.T) {
	now := AsUnixTime(time.Now())

	assert.Equal(t, now+2, now.Add(2*time.Second))
	assert.Equal(t, now-2, now.Add(-2*time.Second))
	// Less than a second is truncated.
	assert.Equal(t, now, now.Add(999*time.Millisecond))
}

func TestUnixTimeRoundTrip(t *testing.T) {
	now := time.Now()
	u := AsUnixTime(now)
	assert.Equal(t, now.Unix(), u.Time().Unix())
	assert.False(t, u.IsZero())
	assert.True(t, UnixTime(0).IsZero())
}

func TestUnixDurationUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw     string
		wantErr bool
		wantDur UnixDuration
	}{
		"number of seconds": {
			raw:     "123",
			wantDur: 123,
		},
		"zero": {
			raw:     "0",
			wantDur: 0,
		},
		"negative number of seconds": {
			raw:     "-94",
			wantDur: -94,
		},
		"duration string": {
			raw:     `"2h"`,
			wantDur: AsUnixDuration(2 * time.Hour),
		},
		"negative duration string": {
			raw:     `"-3m"`,
			wantDur: AsUnixDuration(-3 * time.Minute),
		},
		"invalid duration string": {
			raw:     `"fortnight"`,
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixDuration
			err := json.Unmarshal([]byte(tc.raw), &got)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantDur, got)
		})
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	ctx := WithBlockTime(context.Background(), now)

	assert.True(t, IsExpired(ctx, AsUnixTime(now.Add(-time.Minute))))
	// Expiration is inclusive the block time.
	assert.True(t, IsExpired(ctx, AsUnixTime(now)))
	assert.False(t, IsExpired(ctx, AsUnixTime(now.Add(time.Minute))))
}

func TestIsExpiredRequiresBlockTime(t *testing.T) {
	assert.Panics(t, func() {
		IsExpired(context.Background(), AsUnixTime(time.Now()))
	})
}
