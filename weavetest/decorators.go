package weavetest

import "github.com/iov-one/bazaar"

// Decorator counts its calls and passes through to the next handler unless
// CheckErr or DeliverErr is set. With Auth set, Signers are added to the
// context handed down.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	Auth    *CtxAuth
	Signers []bazaar.Condition

	checks, delivers int
}

var _ bazaar.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (*bazaar.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(d.withSigners(ctx), db, tx)
}

func (d *Decorator) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (*bazaar.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(d.withSigners(ctx), db, tx)
}

func (d *Decorator) withSigners(ctx bazaar.Context) bazaar.Context {
	if d.Auth == nil {
		return ctx
	}
	return d.Auth.SetConditions(ctx, d.Signers...)
}

func (d *Decorator) CheckCallCount() int   { return d.checks }
func (d *Decorator) DeliverCallCount() int { return d.delivers }
func (d *Decorator) CallCount() int        { return d.checks + d.delivers }

// Decorate puts d in front of h.
func Decorate(h bazaar.Handler, d bazaar.Decorator) bazaar.Handler {
	return decorated{handler: h, decorator: d}
}

type decorated struct {
	handler   bazaar.Handler
	decorator bazaar.Decorator
}

func (d decorated) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.handler)
}

func (d decorated) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.handler)
}
