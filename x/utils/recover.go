package utils

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Recovery converts a panic raised further down the stack into an
// ErrPanic result and logs it. The panic value never reaches the client
// unredacted.
type Recovery struct{}

var _ bazaar.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (res *bazaar.CheckResult, err error) {
	defer logPanic(ctx, tx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (res *bazaar.DeliverResult, err error) {
	defer logPanic(ctx, tx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

func logPanic(ctx bazaar.Context, tx bazaar.Tx, err *error) {
	if errors.ErrPanic.Is(*err) {
		bazaar.GetLogger(ctx).Error("recovered panic", "path", bazaar.GetPath(tx), "err", *err)
	}
}
