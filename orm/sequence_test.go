package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/rill/store"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	s := NewSequence("std", "seq")
	other := NewSequence("std", "other")

	for i := int64(1); i < 10; i++ {
		val, err := s.NextInt(db)
		if err != nil {
			t.Fatalf("cannot increment: %+v", err)
		}
		if val != i {
			t.Fatalf("want %d, got %d", i, val)
		}
	}

	// the other sequence is independent
	val, err := other.NextInt(db)
	if err != nil {
		t.Fatalf("cannot increment: %+v", err)
	}
	if val != 1 {
		t.Fatalf("want 1, got %d", val)
	}

	// bytes keys are sequential as well
	a, err := s.NextVal(db)
	if err != nil {
		t.Fatalf("cannot increment: %+v", err)
	}
	b, err := s.NextVal(db)
	if err != nil {
		t.Fatalf("cannot increment: %+v", err)
	}
	if bytes.Compare(a, b) >= 0 {
		t.Fatalf("keys not ascending: %x %x", a, b)
	}
	if DecodeSequence(b) != DecodeSequence(a)+1 {
		t.Fatalf("values not sequential: %x %x", a, b)
	}
}

func TestSequenceLatest(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("std", "seq")

	if _, err := s.NextInt(db); err != nil {
		t.Fatalf("cannot increment: %+v", err)
	}

	val, raw, err := s.Latest(db)
	if err != nil {
		t.Fatalf("cannot read: %+v", err)
	}
	if val != 1 {
		t.Fatalf("want 1, got %d", val)
	}
	if DecodeSequence(raw) != 1 {
		t.Fatalf("unexpected raw value: %x", raw)
	}

	// Latest must not modify the state.
	if val, _, _ := s.Latest(db); val != 1 {
		t.Fatalf("Latest modified the sequence: %d", val)
	}
}
