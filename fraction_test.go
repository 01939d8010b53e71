package rill

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFractionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		raw     string
		wantErr bool
		want    Fraction
	}{
		"human readable fraction": {
			raw:  `"2/3"`,
			want: Fraction{Numerator: 2, Denominator: 3},
		},
		"human readable whole number": {
			raw:  `"4"`,
			want: Fraction{Numerator: 4, Denominator: 1},
		},
		"object notation": {
			raw:  `{"numerator": 1, "denominator": 2}`,
			want: Fraction{Numerator: 1, Denominator: 2},
		},
		"not a fraction": {
			raw:     `"one half"`,
			wantErr: true,
		},
		"negative numerator": {
			raw:     `"-1/2"`,
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got Fraction
			err := json.Unmarshal([]byte(tc.raw), &got)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFractionValidate(t *testing.T) {
	assert.NoError(t, Fraction{Numerator: 1, Denominator: 2}.Validate())
	// Zero value fraction is allowed for it represents no value.
	assert.NoError(t, Fraction{}.Validate())
	assert.Error(t, Fraction{Numerator: 1, Denominator: 0}.Validate())
}

func TestFractionCompare(t *testing.T) {
	cases := map[string]struct {
		a, b Fraction
		want int
	}{
		"equal": {
			a:    Fraction{Numerator: 1, Denominator: 2},
			b:    Fraction{Numerator: 2, Denominator: 4},
			want: 0,
		},
		"less than": {
			a:    Fraction{Numerator: 1, Denominator: 3},
			b:    Fraction{Numerator: 1, Denominator: 2},
			want: -1,
		},
		"greater than": {
			a:    Fraction{Numerator: 3, Denominator: 4},
			b:    Fraction{Numerator: 2, Denominator: 3},
			want: 1,
		},
		"zero denominator is the smallest": {
			a:    Fraction{Numerator: 100, Denominator: 0},
			b:    Fraction{Numerator: 0, Denominator: 1},
			want: -1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Compare(tc.b))
		})
	}
}

func TestFractionNormalize(t *testing.T) {
	got := Fraction{Numerator: 12, Denominator: 8}.Normalize()
	assert.Equal(t, Fraction{Numerator: 3, Denominator: 2}, got)
}

func TestFractionString(t *testing.T) {
	cases := map[string]struct {
		frac *Fraction
		want string
	}{
		"nil":          {nil, "nil"},
		"zero":         {&Fraction{}, "0"},
		"whole number": {&Fraction{Numerator: 4, Denominator: 1}, "4"},
		"fraction":     {&Fraction{Numerator: 2, Denominator: 3}, "2/3"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.frac.String())
		})
	}
}
