package orm

import (
	"github.com/iov-one/bazaar"
)

// Object is a model together with its key. Buckets store the model under
// the bucket prefix joined with the key.
type Object interface {
	Keyed
	Cloneable
	// Validate is called before every save.
	Validate() error
	Value() Model
}

// Reader loads objects by key.
type Reader interface {
	Get(db bazaar.ReadOnlyKVStore, key []byte) (Object, error)
}

type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable returns an empty object of the same model type to load into.
type Cloneable interface {
	Clone() Object
}

// Model is any serializable entity a bucket can hold.
type Model interface {
	bazaar.Persistent
	Validate() error
}
