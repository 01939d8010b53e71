package migration

import (
	"reflect"

	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
)

// Migratable is implemented by both messages and models that support schema
// versioning. Every migratable entity must carry its metadata with the
// schema version as the first attribute.
type Migratable interface {
	GetMetadata() *rill.Metadata
	Validate() error
}

// Migrator is a function that migrates a data entity from the previous to
// the declared schema version.
type Migrator func(db rill.ReadOnlyKVStore, msgOrModel Migratable) error

// NoModification is a migration function that migrates data that requires no
// change. It should be used to register migrations that only bump the schema
// version.
func NoModification(db rill.ReadOnlyKVStore, msgOrModel Migratable) error {
	return nil
}

func newRegister() *register {
	return &register{
		migrations: make(map[payloadVersion]Migrator),
	}
}

type register struct {
	migrations map[payloadVersion]Migrator
}

// payloadVersion references a message or a model at a given schema version.
type payloadVersion struct {
	payload reflect.Type
	version uint32
}

func (r *register) MustRegister(migrationTo uint32, msgOrModel Migratable, fn Migrator) {
	if err := r.Register(migrationTo, msgOrModel, fn); err != nil {
		panic(err)
	}
}

func (r *register) Register(migrationTo uint32, msgOrModel Migratable, fn Migrator) error {
	if migrationTo == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "zero schema version is not allowed")
	}

	tp := reflect.TypeOf(msgOrModel)
	for tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}
	if tp.Kind() != reflect.Struct {
		return errors.Wrapf(errors.ErrInvalidInput, "only struct can be migrated, got %T", msgOrModel)
	}

	// Migrations must be registered in a sequential order with no gaps.
	if migrationTo > 1 {
		prev := payloadVersion{payload: tp, version: migrationTo - 1}
		if _, ok := r.migrations[prev]; !ok {
			return errors.Wrapf(errors.ErrInvalidInput, "missing migration to version %d", migrationTo-1)
		}
	}

	pv := payloadVersion{
		version: migrationTo,
		payload: tp,
	}
	if _, ok := r.migrations[pv]; ok {
		return errors.Wrapf(errors.ErrDuplicate, "already registered: %s.%s:%d", tp.PkgPath(), tp.Name(), migrationTo)
	}
	r.migrations[pv] = fn
	return nil
}

// Apply updates a payload by applying all missing data migrations. Even a no
// modification migration is updating the metadata to point to the latest
// data format version.
//
// Because changes are applied directly on the passed payload, even if this
// function fails some of the data migrations might be applied.
//
// The Validate method is called only on the final version of the payload.
func (r *register) Apply(db rill.ReadOnlyKVStore, msgOrModel Migratable, migrateTo uint32) error {
	if migrateTo == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "zero schema version is not allowed")
	}

	tp := reflect.TypeOf(msgOrModel)
	for tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}
	if tp.Kind() != reflect.Struct {
		return errors.Wrapf(errors.ErrInvalidInput, "only struct can be migrated, got %T", msgOrModel)
	}

	meta := msgOrModel.GetMetadata()
	if meta == nil {
		return errors.Wrap(errors.ErrMetadata, "nil metadata")
	}
	if meta.Schema == 0 {
		return errors.Wrap(errors.ErrMetadata, "schema version not set")
	}

	for v := meta.Schema + 1; v <= migrateTo; v++ {
		migrate, ok := r.migrations[payloadVersion{payload: tp, version: v}]
		if !ok {
			return errors.Wrapf(errors.ErrSchema, "migration to version %d missing", v)
		}
		if err := migrate(db, msgOrModel); err != nil {
			return errors.Wrapf(err, "migration to version %d", v)
		}
		meta.Schema = v
	}

	if err := msgOrModel.Validate(); err != nil {
		return errors.Wrap(err, "validation")
	}
	return nil
}

// reg is a globally available register instance that must be used during the
// runtime to register migrations.
// register is declared as a separate type so that it can be tested without
// worrying about the global state.
var reg = newRegister()

// MustRegister registers a migration function to run when upgrading a
// message or a model to given schema version. It panics on a duplicate or an
// otherwise invalid registration.
func MustRegister(migrationTo uint32, msgOrModel Migratable, fn Migrator) {
	reg.MustRegister(migrationTo, msgOrModel, fn)
}
