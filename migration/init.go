package migration

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ rill.Initializer = Initializer{}

// FromGenesis will parse initial configuration from genesis and save it to
// the database. Packages listed under the "initialize_schema" option get
// their first schema version registered.
func (Initializer) FromGenesis(opts rill.Options, kv rill.KVStore) error {
	if err := gconf.InitConfig(kv, opts, "migration", &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	var pkgs []string
	if err := opts.ReadOptions("initialize_schema", &pkgs); err != nil {
		return errors.Wrap(err, "initialize schema")
	}
	// Schema versioning must always be enabled for this package.
	pkgs = append(pkgs, "migration")

	bucket := NewSchemaBucket()
	for _, name := range pkgs {
		_, err := bucket.Create(kv, &Schema{
			Metadata: &rill.Metadata{Schema: 1},
			Pkg:      name,
			Version:  1,
		})
		// Duplicated initializations are ignored.
		if err != nil && !errors.ErrDuplicate.Is(err) {
			return errors.Wrapf(err, "initialize %q schema", name)
		}
	}
	return nil
}
