package stream

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/gconf"
	"github.com/iov-one/rill/migration"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ rill.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial stream configuration from genesis and save
// it in the database.
func (*Initializer) FromGenesis(opts rill.Options, kv rill.KVStore) error {
	migration.MustInitPkg(kv, "stream")
	return gconf.InitConfig(kv, opts, "stream", &Configuration{})
}
