package migration

import (
	"testing"

	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/store"
)

func TestCurrentSchema(t *testing.T) {
	db := store.MemStore()
	b := NewSchemaBucket()

	if _, err := b.CurrentSchema(db, "mypkg"); !errors.ErrNotFound.Is(err) {
		t.Fatalf("uninitialized package must return not found, got %+v", err)
	}

	MustInitPkg(db, "mypkg")

	if ver, err := b.CurrentSchema(db, "mypkg"); err != nil {
		t.Fatalf("cannot get current schema: %s", err)
	} else if ver != 1 {
		t.Fatalf("want schema version 1, got %d", ver)
	}

	// Initialization is idempotent.
	MustInitPkg(db, "mypkg")

	if _, err := b.Create(db, &Schema{
		Metadata: &rill.Metadata{Schema: 1},
		Pkg:      "mypkg",
		Version:  2,
	}); err != nil {
		t.Fatalf("cannot bump schema version: %s", err)
	}

	if ver, err := b.CurrentSchema(db, "mypkg"); err != nil {
		t.Fatalf("cannot get current schema: %s", err)
	} else if ver != 2 {
		t.Fatalf("want schema version 2, got %d", ver)
	}
}

func TestSchemaVersionsAreSequential(t *testing.T) {
	db := store.MemStore()
	b := NewSchemaBucket()

	MustInitPkg(db, "mypkg")

	// A gap in the version sequence is not allowed.
	if _, err := b.Create(db, &Schema{
		Metadata: &rill.Metadata{Schema: 1},
		Pkg:      "mypkg",
		Version:  4,
	}); !errors.ErrDuplicate.Is(err) {
		t.Fatalf("registering a version with a gap must fail, got %+v", err)
	}

	// A package must be initialized with version one.
	if _, err := b.Create(db, &Schema{
		Metadata: &rill.Metadata{Schema: 1},
		Pkg:      "otherpkg",
		Version:  3,
	}); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("initializing with a version other than 1 must fail, got %+v", err)
	}
}
