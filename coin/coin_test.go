package coin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/rill/errors"
)

func TestCompareCoin(t *testing.T) {
	cases := []struct {
		a      Coin
		b      Coin
		expect int
	}{
		{
			NewCoin(20, 1234, "ABC"),
			NewCoin(19, 999999999, "ABC"),
			1,
		},
		{
			NewCoin(0, -2, "FOO"),
			NewCoin(0, 1, "FOO"),
			-1,
		},
		{
			NewCoin(-4, -2456, "BAR"),
			NewCoin(-4, -4567, "BAR"),
			1,
		},
		{
			NewCoin(1, 0, "XYZ"),
			NewCoin(1, 0, "XYZ"),
			0,
		},
	}

	for idx, tc := range cases {
		cmp := tc.a.Compare(tc.b)
		assert.Equal(t, tc.expect, cmp, "%d", idx)
	}
}

func TestValidCoin(t *testing.T) {
	cases := []struct {
		coin            Coin
		valid           bool
		normalized      Coin
		normalizedValid bool
	}{
		// interger and fraction with same sign
		{
			NewCoin(4, -123456789, "FOO"),
			false,
			NewCoin(3, 876543211, "FOO"),
			true,
		},
		// invalid institution
		{
			NewCoin(1, 0, "of"),
			false,
			NewCoin(1, 0, "of"),
			false,
		},
		// make sure issuer is maintained throughout
		{
			NewCoin(2, -1500500500, "ABC"),
			false,
			NewCoin(0, 499499500, "ABC"),
			true,
		},
		// from negative to positive rollover
		{
			NewCoin(-1, 1777888111, "ABC"),
			false,
			NewCoin(0, 777888111, "ABC"),
			true,
		},
		{
			NewCoin(0, -100, "DIN"),
			true,
			NewCoin(0, -100, "DIN"),
			true,
		},
		{
			NewCoin(MaxInt, MaxFrac, "DIN"),
			true,
			NewCoin(MaxInt, MaxFrac, "DIN"),
			true,
		},
	}

	for idx, tc := range cases {
		// Validate this one
		err := tc.coin.Validate()
		// normalize and check if there are still errors
		nrm, nerr := tc.coin.normalize()
		if nerr == nil {
			nerr = nrm.Validate()
		}

		if tc.valid {
			assert.NoError(t, err, "%d", idx)
		} else {
			assert.Error(t, err, "%d", idx)
		}
		assert.Equal(t, tc.normalized, nrm, "%d", idx)
		assert.True(t, tc.normalized.Equals(nrm), "%d", idx)

		if tc.normalizedValid {
			assert.NoError(t, nerr, "%d", idx)
		} else {
			assert.Error(t, nerr, "%d", idx)
		}
	}
}

func TestAddCoin(t *testing.T) {
	base := NewCoin(17, 2345566, "DEF")
	cases := map[string]struct {
		a, b    Coin
		wantRes Coin
		wantErr *errors.Error
	}{
		"plus and minus equals 0": {
			a:       base,
			b:       base.Negative(),
			wantRes: NewCoin(0, 0, "DEF"),
		},
		"wrong types": {
			a:       NewCoin(1, 2, "FOO"),
			b:       NewCoin(2, 3, "BAR"),
			wantErr: errors.ErrCurrency,
		},
		"normal math": {
			a:       NewCoin(7, 5000, "ABC"),
			b:       NewCoin(-4, -12000, "ABC"),
			wantRes: NewCoin(2, 999993000, "ABC"),
		},
		"overflow": {
			a:       NewCoin(MaxInt, 0, "DIN"),
			b:       NewCoin(2, 0, "DIN"),
			wantErr: errors.ErrOverflow,
		},
		"adding to zero coin": {
			a:       NewCoin(0, 0, ""),
			b:       NewCoin(1, 0, "DIN"),
			wantRes: NewCoin(1, 0, "DIN"),
		},
		"adding a zero coin": {
			a:       NewCoin(1, 0, "DIN"),
			b:       NewCoin(0, 0, ""),
			wantRes: NewCoin(1, 0, "DIN"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res, err := tc.a.Add(tc.b)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %q error, got %+v", tc.wantErr, err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantRes, res)
		})
	}
}

func TestCoinGTE(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		other   Coin
		wantGte bool
	}{
		"greater by fraction": {
			coin:    NewCoin(1, 1, "DOGE"),
			other:   NewCoin(1, 0, "DOGE"),
			wantGte: true,
		},
		"equal": {
			coin:    NewCoin(1, 2, "DOGE"),
			other:   NewCoin(1, 2, "DOGE"),
			wantGte: true,
		},
		"different type": {
			coin:    NewCoin(1, 2, "DOGE"),
			other:   NewCoin(1, 2, "BTC"),
			wantGte: false,
		},
		"less than": {
			coin:    NewCoin(0, 2, "DOGE"),
			other:   NewCoin(1, 1, "DOGE"),
			wantGte: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if tc.coin.IsGTE(tc.other) != tc.wantGte {
				t.Errorf("want greater-or-equal: %v", tc.wantGte)
			}
		})
	}
}

func TestCoinMultiply(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		times   int64
		want    Coin
		wantErr *errors.Error
	}{
		"zero value coin": {
			coin:  NewCoin(0, 0, "DOGE"),
			times: 666,
			want:  NewCoin(0, 0, "DOGE"),
		},
		"simple multiply": {
			coin:  NewCoin(1, 0, "DOGE"),
			times: 3,
			want:  NewCoin(3, 0, "DOGE"),
		},
		"multiply with normalization": {
			coin:  NewCoin(0, FracUnit/2, "DOGE"),
			times: 3,
			want:  NewCoin(1, FracUnit/2, "DOGE"),
		},
		"multiply zero times": {
			coin:  NewCoin(1, 1, "DOGE"),
			times: 0,
			want:  NewCoin(0, 0, "DOGE"),
		},
		"multiply negative times": {
			coin:  NewCoin(1, 1, "DOGE"),
			times: -2,
			want:  NewCoin(-2, -2, "DOGE"),
		},
		"overflow of a whole value": {
			coin:    NewCoin(1<<62, 0, "DOGE"),
			times:   4,
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.coin.Multiply(tc.times)
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

func TestCoinString(t *testing.T) {
	cases := map[string]struct {
		coin Coin
		want string
	}{
		"whole coin":             {NewCoin(123, 0, "DIN"), "123 DIN"},
		"whole and fractional":   {NewCoin(1, 500000000, "DIN"), "1.5 DIN"},
		"only fractional":        {NewCoin(0, 1, "DIN"), "0.000000001 DIN"},
		"negative coin":          {NewCoin(-2, -500000000, "DIN"), "-2.5 DIN"},
		"no ticker":              {NewCoin(1, 0, ""), "1"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.coin.String())
		})
	}
}

func TestParseHumanFormat(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Coin
		wantErr bool
	}{
		"whole only":           {raw: "123 DIN", want: NewCoin(123, 0, "DIN")},
		"with fractional":      {raw: "1.5 DIN", want: NewCoin(1, 500000000, "DIN")},
		"negative":             {raw: "-2.5 DIN", want: NewCoin(-2, -500000000, "DIN")},
		"no ticker":            {raw: "123", wantErr: true},
		"invalid ticker":       {raw: "1 din", wantErr: true},
		"not a number":         {raw: "many DIN", wantErr: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
