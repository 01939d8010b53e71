package orm

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/store"
)

// badge is a test model that serializes as JSON. Good enough for the
// storage tests without depending on any serialization code generation.
type badge struct {
	Owner string
	Power int64
}

var _ Model = (*badge)(nil)

func (b *badge) Marshal() ([]byte, error) {
	return json.Marshal(b)
}

func (b *badge) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, b)
}

func (b *badge) Validate() error {
	if b.Power < 0 {
		return errors.Wrap(errors.ErrInvalidModel, "negative power")
	}
	return nil
}

func (b *badge) Copy() CloneableData {
	return &badge{Owner: b.Owner, Power: b.Power}
}

func TestModelBucket(t *testing.T) {
	db := store.MemStore()

	b := NewModelBucket("badge", &badge{})

	if _, err := b.Put(db, []byte("bond"), &badge{Owner: "james", Power: 7}); err != nil {
		t.Fatalf("cannot save: %+v", err)
	}

	var loaded badge
	if err := b.One(db, []byte("bond"), &loaded); err != nil {
		t.Fatalf("cannot load: %+v", err)
	}
	if loaded.Owner != "james" || loaded.Power != 7 {
		t.Fatalf("unexpected result: %+v", loaded)
	}

	if err := b.Delete(db, []byte("bond")); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}
	if err := b.Delete(db, []byte("bond")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
	if err := b.One(db, []byte("bond"), &loaded); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
}

func TestModelBucketPutSequence(t *testing.T) {
	db := store.MemStore()

	b := NewModelBucket("badge", &badge{},
		WithIDSequence(NewSequence("badge", "id")))

	// Using a nil key to insert means the key will be generated.
	key1, err := b.Put(db, nil, &badge{Owner: "q", Power: 1})
	if err != nil {
		t.Fatalf("cannot save: %+v", err)
	}
	key2, err := b.Put(db, nil, &badge{Owner: "m", Power: 2})
	if err != nil {
		t.Fatalf("cannot save: %+v", err)
	}

	if err := ValidateSequence(key1); err != nil {
		t.Fatalf("invalid generated key: %+v", err)
	}
	if DecodeSequence(key1)+1 != DecodeSequence(key2) {
		t.Fatalf("keys are not sequential: %x %x", key1, key2)
	}

	var loaded badge
	if err := b.One(db, key2, &loaded); err != nil {
		t.Fatalf("cannot load: %+v", err)
	}
	if loaded.Owner != "m" {
		t.Fatalf("unexpected result: %+v", loaded)
	}
}

func TestModelBucketPutRequiresKey(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("badge", &badge{})

	if _, err := b.Put(db, nil, &badge{Owner: "q"}); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("want invalid input, got %+v", err)
	}
}

func TestModelBucketPutValidates(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("badge", &badge{})

	if _, err := b.Put(db, []byte("x"), &badge{Power: -1}); !errors.ErrInvalidModel.Is(err) {
		t.Fatalf("want invalid model, got %+v", err)
	}
}

func TestModelBucketHas(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("badge", &badge{})

	if _, err := b.Put(db, []byte("bond"), &badge{Owner: "james"}); err != nil {
		t.Fatalf("cannot save: %+v", err)
	}

	if err := b.Has(db, []byte("bond")); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
	if err := b.Has(db, nil); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
	if err := b.Has(db, []byte("moneypenny")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
}
