package migration

import (
	"testing"

	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/orm"
	"github.com/iov-one/rill/store"
)

func TestSchemaVersionedModelBucket(t *testing.T) {
	const thisPkgName = "testpkg"

	reg := newRegister()

	reg.MustRegister(1, &MyModel{}, NoModification)
	reg.MustRegister(2, &MyModel{}, func(db rill.ReadOnlyKVStore, m Migratable) error {
		msg := m.(*MyModel)
		msg.Cnt += 2
		return msg.err
	})

	db := store.MemStore()

	schema := NewSchemaBucket()
	if _, err := schema.Create(db, &Schema{Metadata: &rill.Metadata{Schema: 1}, Pkg: thisPkgName, Version: 1}); err != nil {
		t.Fatalf("cannot register schema version: %s", err)
	}

	b := NewModelBucket(thisPkgName, orm.NewModelBucket("mymodel", &MyModel{}))

	// Use a custom register instead of the global one to avoid pollution
	// from the application during tests.
	b.useRegister(reg)

	if _, err := b.Put(db, []byte("schema_one"), &MyModel{
		Metadata: &rill.Metadata{Schema: 1},
		Cnt:      5,
	}); err != nil {
		t.Fatalf("cannot save model one: %s", err)
	}

	var m1 MyModel
	if err := b.One(db, []byte("schema_one"), &m1); err != nil {
		t.Fatalf("cannot get model one: %s", err)
	} else if m1.Metadata.Schema != 1 || m1.Cnt != 5 {
		t.Fatalf("unexpected result model: %#v", m1)
	}

	// Storing a model with a schema version higher than currently active
	// is not allowed.
	if _, err := b.Put(db, []byte("schema_two"), &MyModel{
		Metadata: &rill.Metadata{Schema: 2},
		Cnt:      11,
	}); !errors.ErrSchema.Is(err) {
		t.Fatalf("storing an object with an unknown schema version: %s", err)
	}

	// Bumping a schema should unlock saving entities with a higher
	// schema version.
	if _, err := schema.Create(db, &Schema{Metadata: &rill.Metadata{Schema: 1}, Pkg: thisPkgName, Version: 2}); err != nil {
		t.Fatalf("cannot register schema version: %s", err)
	}

	if _, err := b.Put(db, []byte("schema_two"), &MyModel{
		Metadata: &rill.Metadata{Schema: 2},
		Cnt:      11,
	}); err != nil {
		t.Fatalf("cannot save second object after schema version update: %s", err)
	}

	// Now that the schema was upgraded, all returned models must use it.
	// This means that returned models metadata schema must be set to two
	// and the payload must be updated.
	var m2 MyModel
	if err := b.One(db, []byte("schema_one"), &m2); err != nil {
		t.Fatalf("cannot get first model: %s", err)
	} else if m2.Metadata.Schema != 2 || m2.Cnt != 5+2 {
		t.Fatalf("unexpected result model: %#v", m2)
	}

	var m3 MyModel
	if err := b.One(db, []byte("schema_two"), &m3); err != nil {
		t.Fatalf("cannot get second model: %s", err)
	} else if m3.Metadata.Schema != 2 || m3.Cnt != 11 {
		t.Fatalf("unexpected result model: %#v", m3)
	}

	// A model without a schema version set defaults to the current one.
	if _, err := b.Put(db, []byte("no_schema"), &MyModel{
		Metadata: &rill.Metadata{},
		Cnt:      1,
	}); err != nil {
		t.Fatalf("cannot save model without schema: %s", err)
	}
	var m4 MyModel
	if err := b.One(db, []byte("no_schema"), &m4); err != nil {
		t.Fatalf("cannot get model: %s", err)
	} else if m4.Metadata.Schema != 2 {
		t.Fatalf("unexpected schema version: %#v", m4)
	}
}
