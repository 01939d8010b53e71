//nolint
package store

import "github.com/iov-one/rill"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = rill.ReadOnlyKVStore
type SetDeleter = rill.SetDeleter
type KVStore = rill.KVStore
type Batch = rill.Batch
type Iterator = rill.Iterator
type CacheableKVStore = rill.CacheableKVStore
type KVCacheWrap = rill.KVCacheWrap
type Model = rill.Model
