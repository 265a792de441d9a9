package orm

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
)

// queryPrefix returns all entries which key starts with given prefix.
func queryPrefix(db bazaar.ReadOnlyKVStore, prefix []byte) ([]bazaar.Model, error) {
	iter, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	return store.ReadAll(iter)
}

// queryKey returns the single entry stored under key, or nothing on a
// miss.
func queryKey(db bazaar.ReadOnlyKVStore, key []byte) ([]bazaar.Model, error) {
	value, err := db.Get(key)
	if err != nil || value == nil {
		return nil, err
	}
	return []bazaar.Model{bazaar.Pair(key, value)}, nil
}

// prefixEnd returns the smallest key that is greater than every key that
// starts with given prefix. Nil is returned when no such key exists.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// RegisterQuery exposes the raw store content under the "/" path. Data is
// the full database key, or the key prefix when used with the prefix
// modifier.
func RegisterQuery(qr bazaar.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db bazaar.ReadOnlyKVStore, mod string, data []byte) ([]bazaar.Model, error) {
	switch mod {
	case bazaar.KeyQueryMod:
		if len(data) == 0 {
			return nil, errors.Wrap(errors.ErrInput, "empty key")
		}
		return queryKey(db, data)
	case bazaar.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
