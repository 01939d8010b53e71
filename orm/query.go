package orm

import (
	"github.com/iov-one/rill"
)

// queryPrefix returns a list of all models with the given key prefix,
// in ascending order by key.
func queryPrefix(db rill.ReadOnlyKVStore, prefix []byte) ([]rill.Model, error) {
	start, end := prefixRange(prefix)
	itr, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and increment the last byte, carrying over any
	// overflow and dropping the overflowed bytes
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for l := len(end) - 1; l >= 0; l-- {
		end[l]++
		if end[l] != 0 {
			return prefix, end[:l+1]
		}
	}
	// the whole prefix is 0xff... iterate to the end of the keyspace
	return prefix, nil
}

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr rill.Iterator) ([]rill.Model, error) {
	defer itr.Close()

	var res []rill.Model
	for itr.Valid() {
		mod := rill.Model{
			Key:   append([]byte(nil), itr.Key()...),
			Value: append([]byte(nil), itr.Value()...),
		}
		res = append(res, mod)
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}
