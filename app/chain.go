package app

import (
	"reflect"

	"github.com/iov-one/bazaar"
)

// Decorators is an ordered decorator stack waiting for its final handler.
// The first decorator is the outermost one.
type Decorators struct {
	chain []bazaar.Decorator
}

// ChainDecorators builds a stack from the given decorators. Nil entries,
// including typed nil pointers, are skipped so optional decorators can be
// passed inline:
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     metrics, // may be nil
//     sigs.NewDecorator(),
//   ).WithHandler(router)
func ChainDecorators(chain ...bazaar.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new stack with the given decorators appended. The
// receiver is not modified.
func (d Decorators) Chain(chain ...bazaar.Decorator) Decorators {
	next := make([]bazaar.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			next = append(next, dec)
		}
	}
	return Decorators{chain: next}
}

func isNilDecorator(d bazaar.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with h.
func (d Decorators) WithHandler(h bazaar.Handler) bazaar.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = layer{dec: d.chain[i], next: h}
	}
	return h
}

// layer runs one decorator around the rest of the stack.
type layer struct {
	dec  bazaar.Decorator
	next bazaar.Handler
}

var _ bazaar.Handler = layer{}

func (l layer) Check(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	return l.dec.Check(ctx, store, tx, l.next)
}

func (l layer) Deliver(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	return l.dec.Deliver(ctx, store, tx, l.next)
}
