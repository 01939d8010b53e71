package rill

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/rill/errors"
)

func TestCondition(t *testing.T) {
	other := NewCondition("some", "such", []byte("data"))

	cases := map[string]struct {
		perm    Condition
		isErr   bool
		ext     string
		typ     string
		data    []byte
		serial  string
	}{
		"valid sigs condition": {
			perm:   NewCondition("sigs", "ed25519", []byte{1, 2, 3, 4}),
			ext:    "sigs",
			typ:    "ed25519",
			data:   []byte{1, 2, 3, 4},
			serial: "sigs/ed25519/01020304",
		},
		"valid other condition": {
			perm:   other,
			ext:    "some",
			typ:    "such",
			data:   []byte("data"),
			serial: "some/such/64617461",
		},
		"missing data section": {
			perm:  Condition("fo/ba"),
			isErr: true,
		},
		"invalid extension characters": {
			perm:  Condition("dings/bums*/berlin"),
			isErr: true,
		},
		"empty": {
			perm:  Condition(""),
			isErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ext, typ, data, err := tc.perm.Parse()
			if tc.isErr {
				assert.Error(t, err)
				assert.Error(t, tc.perm.Validate())
				return
			}
			require.NoError(t, err)
			assert.NoError(t, tc.perm.Validate())
			assert.Equal(t, tc.ext, ext)
			assert.Equal(t, tc.typ, typ)
			assert.Equal(t, tc.data, data)
			assert.Equal(t, tc.serial, tc.perm.String())

			addr := tc.perm.Address()
			assert.NoError(t, addr.Validate())
			assert.True(t, tc.perm.Equals(tc.perm))
			assert.False(t, tc.perm.Equals(other) && tc.ext != "some")
		})
	}
}

func TestConditionAddressDeterministic(t *testing.T) {
	a := NewCondition("sigs", "ed25519", []byte("foo")).Address()
	b := NewCondition("sigs", "ed25519", []byte("foo")).Address()
	c := NewCondition("sigs", "ed25519", []byte("bar")).Address()

	assert.Equal(t, AddressLength, len(a))
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestAddressValidate(t *testing.T) {
	cases := map[string]struct {
		addr    Address
		wantErr *errors.Error
	}{
		"valid": {
			addr: make(Address, AddressLength),
		},
		"nil": {
			addr:    nil,
			wantErr: errors.ErrEmpty,
		},
		"too short": {
			addr:    make(Address, AddressLength-1),
			wantErr: errors.ErrInvalidInput,
		},
		"too long": {
			addr:    make(Address, AddressLength+1),
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.addr.Validate()
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %q error, got %+v", tc.wantErr, err)
				}
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAddressUnmarshalJSON(t *testing.T) {
	fromHex := func(t *testing.T, s string) Address {
		t.Helper()
		a, err := ParseAddress(s)
		require.NoError(t, err)
		return a
	}

	cases := map[string]struct {
		json    string
		wantErr bool
		want    Address
	}{
		"default hex": {
			json: `"6865782d61646472657373000000000000000000"`,
			want: fromHex(t, "6865782d61646472657373000000000000000000"),
		},
		"hex prefix": {
			json: `"hex:6865782d61646472657373000000000000000000"`,
			want: fromHex(t, "6865782d61646472657373000000000000000000"),
		},
		"cond prefix": {
			json: `"cond:foo/bar/636f6e646974696f6e64617461"`,
			want: NewCondition("foo", "bar", []byte("conditiondata")).Address(),
		},
		"empty": {
			json: `""`,
			want: nil,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: true,
		},
		"unknown format": {
			json:    `"flying-squirrel:zzz"`,
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if !bytes.Equal(a, tc.want) {
				t.Fatalf("want %q, got %q", tc.want, a)
			}
		})
	}
}
