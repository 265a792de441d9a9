package utils

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Savepoint runs the next handler on a cache of the store. The cache is
// written only when the handler succeeds, so a failed call leaves the
// store untouched. It is disabled until OnCheck or OnDeliver is set.
type Savepoint struct {
	check, deliver bool
}

var _ bazaar.Decorator = Savepoint{}

func NewSavepoint() Savepoint { return Savepoint{} }

// OnCheck enables the savepoint for CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.check = true
	return s
}

// OnDeliver enables the savepoint for DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.deliver = true
	return s
}

func (s Savepoint) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (*bazaar.CheckResult, error) {
	var res *bazaar.CheckResult
	err := isolate(s.check, db, func(kv bazaar.KVStore) (err error) {
		res, err = next.Check(ctx, kv, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (*bazaar.DeliverResult, error) {
	var res *bazaar.DeliverResult
	err := isolate(s.deliver, db, func(kv bazaar.KVStore) (err error) {
		res, err = next.Deliver(ctx, kv, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolate calls fn with a cache of db and writes it back only on success.
// Stores that cannot be cached are passed as they are.
func isolate(enabled bool, db bazaar.KVStore, fn func(bazaar.KVStore) error) error {
	cacheable, ok := db.(bazaar.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write savepoint")
	}
	return nil
}
