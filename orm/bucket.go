/*
Package orm stores typed models in prefixed sections of a key value store.

Every bucket owns the "<name>:" key prefix and holds a single model type.
A bucket may carry secondary indexes, each kept in its own
"_i.<bucket>_<index>:" prefix, and sequences for generated keys. Buckets
and indexes answer ABCI queries once registered with a QueryRouter.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// SeqID names the sequence used for generated primary keys.
const SeqID = "id"

var validBucketName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// Bucket is the untyped storage layer behind a ModelBucket. proto is
// cloned to decode every stored value.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Cloneable
	indexes map[string]Index
}

var _ bazaar.QueryHandler = Bucket{}

// NewBucket panics on a name that is not 3 to 20 lower case letters or
// underscores.
func NewBucket(name string, proto Cloneable) Bucket {
	if !validBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{name: name, prefix: []byte(name + ":"), proto: proto}
}

func (b Bucket) Name() string {
	return b.name
}

// DBKey returns a fresh slice holding the prefixed key.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(out, b.prefix...), key...)
}

// Sequence returns the named sequence scoped to this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// WithIndex returns a copy of the bucket maintaining one more index.
// Adding the same name twice panics.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("bucket %s: index %q registered twice", b.name, name))
	}
	indexes := make(map[string]Index, len(b.indexes)+1)
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	indexes[name] = NewIndex(b.name+"_"+name, indexer, unique, b.DBKey)
	b.indexes = indexes
	return b
}

// Register exposes the bucket at "/<name>" and each index at
// "/<name>/<index>". An empty name uses the bucket name.
func (b Bucket) Register(name string, r bazaar.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
	for idxName, idx := range b.indexes {
		r.Register("/"+name+"/"+idxName, idx)
	}
}

// Query looks up data as a primary key, or as a key prefix with the prefix
// modifier.
func (b Bucket) Query(db bazaar.ReadOnlyKVStore, mod string, data []byte) ([]bazaar.Model, error) {
	switch mod {
	case bazaar.KeyQueryMod:
		return queryKey(db, b.DBKey(data))
	case bazaar.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// Get returns nil without an error when nothing is stored under key.
func (b Bucket) Get(db bazaar.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	return b.Parse(key, raw)
}

// Parse decodes a stored value into a new object with the given key.
func (b Bucket) Parse(key, raw []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s", b.name)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates and writes obj, updating every index first.
func (b Bucket) Save(db bazaar.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.reindex(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

// Delete removes key and its index entries. Deleting a missing key is not
// an error.
func (b Bucket) Delete(db bazaar.KVStore, key []byte) error {
	if err := b.reindex(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// reindex moves every index entry of key from its stored version to next.
// A nil next removes the entries.
func (b Bucket) reindex(db bazaar.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && next == nil {
		return nil
	}
	for name, idx := range b.indexes {
		if err := idx.Update(db, prev, next); err != nil {
			return errors.Wrapf(err, "index %s", name)
		}
	}
	return nil
}

// GetIndexed loads every object referenced by the named index under key.
func (b Bucket) GetIndexed(db bazaar.ReadOnlyKVStore, name string, key []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "bucket %s has no %q index", b.name, name)
	}
	refs, err := idx.GetAt(db, key)
	if err != nil {
		return nil, err
	}
	objs := make([]Object, 0, len(refs))
	for _, ref := range refs {
		obj, err := b.Get(db, ref)
		if err != nil {
			return nil, err
		}
		if obj != nil {
			objs = append(objs, obj)
		}
	}
	return objs, nil
}
