package fixed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/rill/errors"
)

func TestDecZeroValue(t *testing.T) {
	var d Dec

	assert.True(t, d.IsZero())
	assert.Equal(t, "0", d.String())
	assert.True(t, d.Equal(Zero()))

	sum, err := d.Add(mustFromInt64(t, 4))
	require.NoError(t, err)
	assert.Equal(t, "4", sum.String())
}

func TestDecFromRatio(t *testing.T) {
	cases := map[string]struct {
		num     int64
		den     int64
		want    string
		wantErr *errors.Error
	}{
		"whole result": {
			num: 10, den: 2,
			want: "5",
		},
		"fractional result": {
			num: 1, den: 3,
			want: "0.333333333333333333",
		},
		"half": {
			num: 1, den: 2,
			want: "0.5",
		},
		"zero numerator": {
			num: 0, den: 5,
			want: "0",
		},
		"zero division": {
			num: 1, den: 0,
			wantErr: errors.ErrInvalidInput,
		},
		"negative numerator": {
			num: -1, den: 2,
			wantErr: errors.ErrUnderflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			d, err := FromRatio(tc.num, tc.den)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %q error, got %+v", tc.wantErr, err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, d.String())
		})
	}
}

func TestDecSub(t *testing.T) {
	a := mustFromInt64(t, 7)
	b := mustFromInt64(t, 3)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "4", diff.String())

	if _, err := b.Sub(a); !errors.ErrUnderflow.Is(err) {
		t.Fatalf("subtracting a bigger value must underflow, got %+v", err)
	}
}

func TestDecMulQuoRoundTrip(t *testing.T) {
	// 1/3 * 3 is one scaled unit short of a whole because of the single
	// rounding step in the division.
	third, err := mustFromInt64(t, 1).QuoInt(3)
	require.NoError(t, err)

	back, err := third.MulInt(3)
	require.NoError(t, err)
	assert.Equal(t, "0.999999999999999999", back.String())
}

func TestDecSplit(t *testing.T) {
	d, err := FromRatio(7, 2)
	require.NoError(t, err)

	whole, frac, err := d.Split()
	require.NoError(t, err)
	assert.Equal(t, int64(3), whole)
	assert.Equal(t, "0.5", frac.String())

	// Splitting the remainder again yields no whole part.
	whole, _, err = frac.Split()
	require.NoError(t, err)
	assert.Equal(t, int64(0), whole)
}

func TestDecCompare(t *testing.T) {
	small, err := FromRatio(1, 3)
	require.NoError(t, err)
	bigger, err := FromRatio(1, 2)
	require.NoError(t, err)

	assert.Equal(t, -1, small.Compare(bigger))
	assert.Equal(t, 1, bigger.Compare(small))
	assert.Equal(t, 0, small.Compare(small))
	assert.True(t, Zero().Equal(Dec{}))
}

func TestDecSerialization(t *testing.T) {
	d, err := FromRatio(123456, 1000)
	require.NoError(t, err)

	raw, err := d.Marshal()
	require.NoError(t, err)
	assert.Equal(t, d.Size(), len(raw))

	var out Dec
	require.NoError(t, out.Unmarshal(raw))
	assert.True(t, d.Equal(out))

	// Zero value serializes to no bytes.
	raw, err = Zero().Marshal()
	require.NoError(t, err)
	assert.Equal(t, 0, len(raw))
	var zero Dec
	require.NoError(t, zero.Unmarshal(raw))
	assert.True(t, zero.IsZero())
}

func TestMulRatio(t *testing.T) {
	cases := map[string]struct {
		amount  int64
		num     int64
		den     int64
		want    int64
		wantErr *errors.Error
	}{
		"whole result": {
			amount: 1000, num: 50, den: 100,
			want: 500,
		},
		"rounds toward zero": {
			amount: 10, num: 1, den: 3,
			want: 3,
		},
		"full ratio": {
			amount: 750, num: 100, den: 100,
			want: 750,
		},
		"intermediate exceeds 64 bits": {
			// amount*num does not fit int64 but the quotient does.
			amount: 1 << 62, num: 100, den: 200,
			want: 1 << 61,
		},
		"zero amount": {
			amount: 0, num: 1, den: 2,
			want: 0,
		},
		"zero division": {
			amount: 1, num: 1, den: 0,
			wantErr: errors.ErrInvalidInput,
		},
		"negative amount": {
			amount: -1, num: 1, den: 2,
			wantErr: errors.ErrUnderflow,
		},
		"quotient overflow": {
			amount: 1 << 62, num: 100, den: 1,
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := MulRatio(tc.amount, tc.num, tc.den)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %q error, got %+v", tc.wantErr, err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func mustFromInt64(t *testing.T, n int64) Dec {
	t.Helper()
	d, err := FromInt64(n)
	require.NoError(t, err)
	return d
}
