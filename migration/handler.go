package migration

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/x"
)

const pathUpgradeSchemaMsg = "migration/upgrade_schema"

// SchemaMigratingHandler returns a handler that will ensure incoming
// messages are in the current schema version format. If a message in an
// older schema is handled then it is first migrated. Messages that cannot be
// migrated to the current schema version return a migration error. This
// functionality is executed before the decorated handler and it is
// completely transparent to the wrapped handler.
func SchemaMigratingHandler(packageName string, h rill.Handler) rill.Handler {
	return &schemaMigratingHandler{
		handler:     h,
		packageName: packageName,
		schema:      NewSchemaBucket(),
		migrations:  reg,
	}
}

type schemaMigratingHandler struct {
	handler     rill.Handler
	packageName string
	schema      *SchemaBucket
	migrations  *register
}

func (h *schemaMigratingHandler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	if err := h.migrate(db, tx); err != nil {
		return nil, errors.Wrap(err, "migration")
	}
	return h.handler.Check(ctx, db, tx)
}

func (h *schemaMigratingHandler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	if err := h.migrate(db, tx); err != nil {
		return nil, errors.Wrap(err, "migration")
	}
	return h.handler.Deliver(ctx, db, tx)
}

func (h *schemaMigratingHandler) migrate(db rill.ReadOnlyKVStore, tx rill.Tx) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "get msg")
	}
	return migrate(h.migrations, h.schema, h.packageName, db, msg)
}

// SchemaMigratingRegistry decorates given registry to always wrap registered
// handlers with a schema migrating handler of given package.
func SchemaMigratingRegistry(packageName string, r rill.Registry) rill.Registry {
	return &schemaMigratingRegistry{
		pkg: packageName,
		reg: r,
	}
}

type schemaMigratingRegistry struct {
	pkg string
	reg rill.Registry
}

func (r *schemaMigratingRegistry) Handle(path string, h rill.Handler) {
	r.reg.Handle(path, SchemaMigratingHandler(r.pkg, h))
}

// RegisterRoutes registers migration message handlers.
func RegisterRoutes(r rill.Registry, auth x.Authenticator) {
	bucket := NewSchemaBucket()
	r.Handle(pathUpgradeSchemaMsg, &upgradeSchemaHandler{
		bucket: bucket,
		auth:   auth,
	})
}

type upgradeSchemaHandler struct {
	bucket *SchemaBucket
	auth   x.Authenticator
}

func (h *upgradeSchemaHandler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &rill.CheckResult{}, nil
}

func (h *upgradeSchemaHandler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	ver, err := h.bucket.CurrentSchema(db, msg.Pkg)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return nil, errors.Wrap(err, "current schema version")
	}

	schema := Schema{
		Metadata: &rill.Metadata{Schema: 1},
		Pkg:      msg.Pkg,
		Version:  ver + 1,
	}
	obj, err := h.bucket.Create(db, &schema)
	if err != nil {
		return nil, errors.Wrap(err, "create schema version")
	}

	return &rill.DeliverResult{Data: obj.Key()}, nil
}

func (h *upgradeSchemaHandler) validate(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*UpgradeSchemaMsg, error) {
	var msg UpgradeSchemaMsg
	if err := rill.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	conf := mustLoadConf(db)
	if !h.auth.HasAddress(ctx, conf.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature required")
	}

	return &msg, nil
}
