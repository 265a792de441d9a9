package orm

import (
	"reflect"

	"github.com/iov-one/bazaar/errors"
)

var _ Object = (*Record)(nil)

// Record binds a model to the key it is stored under.
type Record struct {
	key   []byte
	model Model
}

// NewRecord returns a record for model m stored under key. The key may be
// nil when it is assigned later, for example from a sequence.
func NewRecord(key []byte, m Model) *Record {
	return &Record{key: key, model: m}
}

func (r Record) Key() []byte  { return r.key }
func (r Record) Value() Model { return r.model }

func (r *Record) SetKey(key []byte) { r.key = key }

// Validate requires both parts to be set before running the model's own
// validation.
func (r Record) Validate() error {
	switch {
	case len(r.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	case r.model == nil:
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return r.model.Validate()
}

// Clone returns a record holding a zero model of the same type and a copy
// of the key, ready to be loaded into.
func (r *Record) Clone() Object {
	zero := reflect.New(reflect.TypeOf(r.model).Elem()).Interface().(Model)
	var key []byte
	if len(r.key) != 0 {
		key = append(key, r.key...)
	}
	return &Record{key: key, model: zero}
}
