package app

import (
	"bytes"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore. It
// requires the raw store query to be registered under the "/" path.
type ABCIStore struct {
	app abci.Application
}

var _ bazaar.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a read only view of the committed state of given
// application.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if query.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query code %d: %s", query.Code, query.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		return nil, errors.Wrap(err, "unmarshal result set")
	}
	if len(value.Results) == 0 {
		return nil, nil
	}
	return value.Results[0], nil
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	if err != nil {
		return false, err
	}
	return len(v) > 0, nil
}

// Iterator attempts to do a range iteration over the store. Only a prefix
// query can be made over abci, so the range is loaded using the longest
// common prefix of both ends and filtered locally.
func (a *ABCIStore) Iterator(start, end []byte) (bazaar.Iterator, error) {
	models, err := a.load(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator works like Iterator but returns the entries in a
// descending order.
func (a *ABCIStore) ReverseIterator(start, end []byte) (bazaar.Iterator, error) {
	models, err := a.load(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) load(start, end []byte) ([]bazaar.Model, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/?" + bazaar.PrefixQueryMod,
		Data: commonPrefix(start, end),
	})
	if query.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query code %d: %s", query.Code, query.Log)
	}
	models, err := toModels(query.Key, query.Value)
	if err != nil {
		return nil, errors.Wrap(err, "cannot convert to model")
	}

	res := models[:0]
	for _, m := range models {
		if start != nil && bytes.Compare(m.Key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(m.Key, end) >= 0 {
			continue
		}
		res = append(res, m)
	}
	return res, nil
}

func commonPrefix(a, b []byte) []byte {
	if a == nil || b == nil {
		return nil
	}
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return a[:n]
}

func toModels(keys, values []byte) ([]bazaar.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
