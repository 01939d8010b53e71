/*

Package migration provides tooling necessary for working with schema
versioned entities. Functionality provided here can be applied both to
messages and models.

Global preparation.

1. update application genesis to provide a "migration" configuration,

2. register the migration message handler using the RegisterRoutes function,

3. register the migration bucket query using the RegisterQuery function.

Extension integration.

1. update all protobuf message declarations that are to be schema versioned.
The first attribute must be the metadata. For example:

    import "codec.proto";
    message MyMessage {
      rill.Metadata metadata = 1;
      ...
    }

Make sure that whenever you create a new entity the metadata attribute is
provided, as nil metadata is not valid.

2. register your migration functions in the package init. Schema version is
declared per package, not per entity, so each upgrade must provide a
migration function for all entities. Use migration.NoModification for those
entities that require no change. For example:

    func init() {
        migration.MustRegister(1, &MyModel{}, migration.NoModification)
        migration.MustRegister(1, &MyMessage{}, migration.NoModification)
    }

3. wrap your bucket with migration.NewModelBucket to ensure all models are
always migrated to the latest schema before use,

4. wrap your registry with migration.SchemaMigratingRegistry to ensure all
messages are migrated to the latest schema before being passed to a handler,

5. make sure the Metadata.Schema attribute of newly created messages is set.
This is not necessary for models as it will default to the current schema
version.

*/
package migration
