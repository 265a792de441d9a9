package orm

import (
	"reflect"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// ModelBucket stores a single model type under its primary key.
type ModelBucket interface {
	// One loads the model stored under key into dest. It fails with
	// ErrNotFound for a missing key and ErrType when dest has the wrong
	// type.
	One(db bazaar.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns ErrNotFound unless key is stored.
	Has(db bazaar.ReadOnlyKVStore, key []byte) error

	// ByIndex appends every model the named index holds under key to dest,
	// a pointer to a slice of models or of model pointers, and returns
	// their primary keys. No match leaves dest untouched.
	ByIndex(db bazaar.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) (keys [][]byte, err error)

	// Put validates and stores m, overwriting any previous value. An empty
	// key is taken from the bucket sequence. The used key is returned.
	Put(db bazaar.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes key or fails with ErrNotFound.
	Delete(db bazaar.KVStore, key []byte) error

	// Register exposes the bucket and its indexes to queries.
	Register(name string, r bazaar.QueryRouter)
}

// ModelSlicePtr is a *[]M or *[]*M for the bucket model M, checked at
// runtime.
type ModelSlicePtr interface{}

// ModelBucketOption configures a bucket in NewModelBucket.
type ModelBucketOption func(mb *modelBucket)

// WithIndex maintains an index of the values returned by indexer. A unique
// index refuses a second model with the same value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.b = mb.b.WithIndex(name, indexer, unique)
	}
}

// WithIDSequence replaces the sequence used for generated keys.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.idSeq = s
	}
}

// NewModelBucket returns a bucket holding models of the type of m.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	b := NewBucket(name, NewRecord(nil, m))
	mb := &modelBucket{
		b:     b,
		idSeq: b.Sequence(SeqID),
		model: structType(m),
	}
	for _, opt := range opts {
		opt(mb)
	}
	return mb
}

type modelBucket struct {
	b     Bucket
	idSeq Sequence
	// model is the struct type, never the pointer type.
	model reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func structType(m interface{}) reflect.Type {
	t := reflect.TypeOf(m)
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

func (mb *modelBucket) Register(name string, r bazaar.QueryRouter) {
	mb.b.Register(name, r)
}

func (mb *modelBucket) One(db bazaar.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	got := reflect.ValueOf(obj.Value())
	if !got.Type().AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrType, "%T cannot be loaded into %T", obj.Value(), dest)
	}
	reflect.ValueOf(dest).Elem().Set(got.Elem())
	return nil
}

func (mb *modelBucket) ByIndex(db bazaar.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error) {
	objs, err := mb.b.GetIndexed(db, indexName, key)
	if err != nil || len(objs) == 0 {
		return nil, err
	}
	slice, ofPointers, err := mb.sliceTarget(dest)
	if err != nil {
		return nil, err
	}

	keys := make([][]byte, len(objs))
	for i, obj := range objs {
		v := reflect.ValueOf(obj.Value())
		if !ofPointers {
			v = v.Elem()
		}
		slice.Set(reflect.Append(slice, v))
		keys[i] = obj.Key()
	}
	return keys, nil
}

// sliceTarget checks dest is a non nil pointer to a slice of this
// bucket's model, by value or by pointer, and returns the slice.
func (mb *modelBucket) sliceTarget(dest ModelSlicePtr) (reflect.Value, bool, error) {
	ptr := reflect.ValueOf(dest)
	if ptr.Kind() != reflect.Ptr {
		return reflect.Value{}, false, errors.Wrap(errors.ErrType, "destination must be a pointer to slice of models")
	}
	if ptr.IsNil() {
		return reflect.Value{}, false, errors.Wrap(errors.ErrImmutable, "got nil pointer")
	}
	slice := ptr.Elem()
	if slice.Kind() != reflect.Slice {
		return reflect.Value{}, false, errors.Wrap(errors.ErrType, "destination must be a pointer to slice of models")
	}
	elem := slice.Type().Elem()
	ofPointers := elem.Kind() == reflect.Ptr
	if ofPointers {
		elem = elem.Elem()
	}
	if elem != mb.model {
		return reflect.Value{}, false, errors.Wrapf(errors.ErrType, "bucket holds %s, not %s", mb.model, elem)
	}
	return slice, ofPointers, nil
}

func (mb *modelBucket) Put(db bazaar.KVStore, key []byte, m Model) ([]byte, error) {
	if t := reflect.TypeOf(m); t.Kind() != reflect.Ptr || t.Elem() != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T in a %s bucket", m, mb.model)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}
	if len(key) == 0 {
		next, err := mb.idSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "ID sequence")
		}
		key = next
	}
	if err := mb.b.Save(db, NewRecord(key, m)); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	return key, nil
}

func (mb *modelBucket) Delete(db bazaar.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.b.Delete(db, key)
}

func (mb *modelBucket) Has(db bazaar.ReadOnlyKVStore, key []byte) error {
	// a nil key would make the store panic
	if key == nil {
		return errors.ErrNotFound
	}
	ok, err := db.Has(mb.b.DBKey(key))
	switch {
	case err != nil:
		return err
	case !ok:
		return errors.ErrNotFound
	}
	return nil
}
