package rilltest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/rill"
)

// ParseAddress takes an address in a human readable format and returns its
// binary representation. This function is a test helper built on top of the
// rill.ParseAddress functionality.
func ParseAddress(t testing.TB, encodedAddress string) rill.Address {
	t.Helper()

	addr, err := rill.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// RandCond returns a random sigs/ed25519 condition, usable wherever a unique
// signer identity is needed in tests.
func RandCond() rill.Condition {
	data := make([]byte, 32)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return rill.NewCondition("sigs", "ed25519", data)
}
