package auction

import (
	"context"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/x"
)

type custodianKey struct{}

// withCustodian lets the next handler act as the custodian. No
// transaction can produce this context, only the handlers of this
// package do.
func withCustodian(ctx bazaar.Context, c Custodian) bazaar.Context {
	return context.WithValue(ctx, custodianKey{}, c.Condition)
}

// Authenticate recognizes the custodian granted by withCustodian.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx bazaar.Context) []bazaar.Condition {
	if c, ok := ctx.Value(custodianKey{}).(bazaar.Condition); ok && c != nil {
		return []bazaar.Condition{c}
	}
	return nil
}

func (a Authenticate) HasAddress(ctx bazaar.Context, addr bazaar.Address) bool {
	return x.AnyHasAddress(a.GetConditions(ctx), addr)
}
