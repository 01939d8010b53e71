package migration

import (
	"testing"

	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/gconf"
	"github.com/iov-one/rill/rilltest"
	"github.com/iov-one/rill/store"
)

func TestSchemaMigratingHandler(t *testing.T) {
	const thisPkgName = "testpkg"

	reg := newRegister()

	reg.MustRegister(1, &MyMsg{}, NoModification)
	reg.MustRegister(2, &MyMsg{}, func(db rill.ReadOnlyKVStore, m Migratable) error {
		msg := m.(*MyMsg)
		msg.Content += " m2"
		return msg.err
	})

	db := store.MemStore()

	schema := NewSchemaBucket()
	if _, err := schema.Create(db, &Schema{Metadata: &rill.Metadata{Schema: 1}, Pkg: thisPkgName, Version: 1}); err != nil {
		t.Fatalf("cannot register schema version: %s", err)
	}

	handler := SchemaMigratingHandler(thisPkgName, &rilltest.Handler{})
	// Use a custom register instead of the global one to avoid pollution
	// from the application during tests.
	handler.(*schemaMigratingHandler).migrations = reg

	// Message has the same schema version as the currently active one so
	// no migration must be applied. The handler migrates the message in
	// place, the `msg` reference observes any modification.
	msg := &MyMsg{
		Metadata: &rill.Metadata{Schema: 1},
		Content:  "foo",
	}
	if _, err := handler.Check(nil, db, &rilltest.Tx{Msg: msg}); err != nil {
		t.Fatalf("check failed: %+v", err)
	}
	if msg.Metadata.Schema != 1 || msg.Content != "foo" {
		t.Fatalf("message must not be migrated: %#v", msg)
	}
	if _, err := handler.Deliver(nil, db, &rilltest.Tx{Msg: msg}); err != nil {
		t.Fatalf("deliver failed: %+v", err)
	}
	if msg.Metadata.Schema != 1 || msg.Content != "foo" {
		t.Fatalf("message must not be migrated: %#v", msg)
	}

	// Bumping the schema must cause all further calls to migrate the
	// message first.
	if _, err := schema.Create(db, &Schema{Metadata: &rill.Metadata{Schema: 1}, Pkg: thisPkgName, Version: 2}); err != nil {
		t.Fatalf("cannot register schema version: %s", err)
	}

	if _, err := handler.Deliver(nil, db, &rilltest.Tx{Msg: msg}); err != nil {
		t.Fatalf("deliver failed: %+v", err)
	}
	if msg.Metadata.Schema != 2 || msg.Content != "foo m2" {
		t.Fatalf("message must be migrated to the second version: %#v", msg)
	}

	// A message that is already migrated must not be upgraded again.
	msg = &MyMsg{
		Metadata: &rill.Metadata{Schema: 2},
		Content:  "bar",
	}
	if _, err := handler.Deliver(nil, db, &rilltest.Tx{Msg: msg}); err != nil {
		t.Fatalf("deliver failed: %+v", err)
	}
	if msg.Metadata.Schema != 2 || msg.Content != "bar" {
		t.Fatalf("message must not be migrated: %#v", msg)
	}
}

func TestUpgradeSchemaHandler(t *testing.T) {
	admin := rilltest.RandCond()

	db := store.MemStore()

	if err := gconf.Save(db, "migration", &Configuration{
		Metadata: &rill.Metadata{Schema: 1},
		Admin:    admin.Address(),
	}); err != nil {
		t.Fatalf("cannot save configuration: %s", err)
	}

	MustInitPkg(db, "mypkg")

	handler := upgradeSchemaHandler{
		bucket: NewSchemaBucket(),
		auth:   &rilltest.Auth{Signer: admin},
	}

	tx := &rilltest.Tx{Msg: &UpgradeSchemaMsg{
		Metadata: &rill.Metadata{Schema: 1},
		Pkg:      "mypkg",
	}}
	if _, err := handler.Deliver(nil, db, tx); err != nil {
		t.Fatalf("cannot upgrade schema: %+v", err)
	}

	if ver, err := NewSchemaBucket().CurrentSchema(db, "mypkg"); err != nil {
		t.Fatalf("cannot get current schema: %s", err)
	} else if ver != 2 {
		t.Fatalf("want schema version 2, got %d", ver)
	}

	// An upgrade message for a not initialized package registers the
	// first schema version.
	tx = &rilltest.Tx{Msg: &UpgradeSchemaMsg{
		Metadata: &rill.Metadata{Schema: 1},
		Pkg:      "otherpkg",
	}}
	if _, err := handler.Deliver(nil, db, tx); err != nil {
		t.Fatalf("cannot upgrade schema: %+v", err)
	}
	if ver, err := NewSchemaBucket().CurrentSchema(db, "otherpkg"); err != nil {
		t.Fatalf("cannot get current schema: %s", err)
	} else if ver != 1 {
		t.Fatalf("want schema version 1, got %d", ver)
	}
}

func TestUpgradeSchemaRequiresAdminSignature(t *testing.T) {
	admin := rilltest.RandCond()

	db := store.MemStore()

	if err := gconf.Save(db, "migration", &Configuration{
		Metadata: &rill.Metadata{Schema: 1},
		Admin:    admin.Address(),
	}); err != nil {
		t.Fatalf("cannot save configuration: %s", err)
	}

	MustInitPkg(db, "mypkg")

	handler := upgradeSchemaHandler{
		bucket: NewSchemaBucket(),
		auth:   &rilltest.Auth{Signer: rilltest.RandCond()},
	}

	tx := &rilltest.Tx{Msg: &UpgradeSchemaMsg{
		Metadata: &rill.Metadata{Schema: 1},
		Pkg:      "mypkg",
	}}
	if _, err := handler.Check(nil, db, tx); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized, got %+v", err)
	}
	if _, err := handler.Deliver(nil, db, tx); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized, got %+v", err)
	}

	if ver, err := NewSchemaBucket().CurrentSchema(db, "mypkg"); err != nil {
		t.Fatalf("cannot get current schema: %s", err)
	} else if ver != 1 {
		t.Fatalf("schema version must not change, got %d", ver)
	}
}
