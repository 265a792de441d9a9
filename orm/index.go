package orm

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

const indexPrefix = "_i."

var validIndexName = regexp.MustCompile(`^[a-z_]{3,40}$`).MatchString

// Indexer returns the secondary key of an object. A nil key leaves the
// object out of the index.
type Indexer func(Object) ([]byte, error)

// Index maps a secondary key to primary keys. A unique index stores a
// single primary key per entry, otherwise a MultiRef.
type Index struct {
	name   string
	prefix []byte
	unique bool
	index  Indexer
	// refKey turns a primary key into the full database key of the object.
	refKey func([]byte) []byte
}

var _ bazaar.QueryHandler = Index{}

// NewIndex panics on a name that is not 3 to 40 lower case letters or
// underscores.
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	if !validIndexName(name) {
		panic(fmt.Sprintf("invalid index name %q", name))
	}
	return Index{
		name:   name,
		prefix: []byte(indexPrefix + name + ":"),
		unique: unique,
		index:  indexer,
		refKey: refKey,
	}
}

// IndexKey returns a fresh slice holding the prefixed secondary key.
func (i Index) IndexKey(key []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+len(key))
	return append(append(out, i.prefix...), key...)
}

// Update moves the entry of an object from its previous version to the
// next one. A nil prev inserts, a nil next removes. Both versions must
// share the primary key.
func (i Index) Update(db bazaar.KVStore, prev, next Object) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "index update without objects")
	}
	if prev != nil && next != nil && !bytes.Equal(prev.Key(), next.Key()) {
		return errors.Wrap(errors.ErrImmutable, "cannot modify the primary key of an object")
	}

	var from, to []byte
	var err error
	if prev != nil {
		if from, err = i.index(prev); err != nil {
			return err
		}
	}
	if next != nil {
		if to, err = i.index(next); err != nil {
			return err
		}
	}
	if prev != nil && next != nil && bytes.Equal(from, to) {
		return nil
	}
	if from != nil {
		if err := i.remove(db, from, prev.Key()); err != nil {
			return err
		}
	}
	if to != nil {
		return i.insert(db, to, next.Key())
	}
	return nil
}

// GetAt returns the primary keys stored under the secondary key.
func (i Index) GetAt(db bazaar.ReadOnlyKVStore, key []byte) ([][]byte, error) {
	refs, err := i.load(db, i.IndexKey(key))
	if err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

func (i Index) load(db bazaar.ReadOnlyKVStore, dbKey []byte) (MultiRef, error) {
	raw, err := db.Get(dbKey)
	switch {
	case err != nil:
		return MultiRef{}, err
	case raw == nil:
		return MultiRef{}, nil
	case i.unique:
		return MultiRef{Refs: [][]byte{raw}}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return MultiRef{}, errors.Wrapf(err, "unmarshal index %s", i.name)
	}
	return refs, nil
}

func (i Index) store(db bazaar.KVStore, dbKey []byte, refs MultiRef) error {
	switch {
	case len(refs.Refs) == 0:
		return db.Delete(dbKey)
	case i.unique:
		return db.Set(dbKey, refs.Refs[0])
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbKey, raw)
}

func (i Index) insert(db bazaar.KVStore, key, pk []byte) error {
	dbKey := i.IndexKey(key)
	refs, err := i.load(db, dbKey)
	if err != nil {
		return err
	}
	if i.unique && len(refs.Refs) != 0 {
		return errors.Wrapf(errors.ErrDuplicate, "unique index %s", i.name)
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	return i.store(db, dbKey, refs)
}

func (i Index) remove(db bazaar.KVStore, key, pk []byte) error {
	dbKey := i.IndexKey(key)
	refs, err := i.load(db, dbKey)
	if err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	return i.store(db, dbKey, refs)
}

// Query returns the indexed objects, not the index entries. With the
// prefix modifier data is a prefix of the secondary key.
func (i Index) Query(db bazaar.ReadOnlyKVStore, mod string, data []byte) ([]bazaar.Model, error) {
	var secondary [][]byte
	switch mod {
	case bazaar.KeyQueryMod:
		secondary = [][]byte{data}
	case bazaar.PrefixQueryMod:
		entries, err := queryPrefix(db, i.IndexKey(data))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			secondary = append(secondary, e.Key[len(i.prefix):])
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}

	var res []bazaar.Model
	for _, key := range secondary {
		refs, err := i.GetAt(db, key)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			dbKey := i.refKey(ref)
			value, err := db.Get(dbKey)
			if err != nil {
				return nil, err
			}
			res = append(res, bazaar.Pair(dbKey, value))
		}
	}
	return res, nil
}
