package sigs

import (
	"context"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/x"
)

type signersKey struct{}

// withSigners is unexported so that only the signature decorator can
// authenticate a key.
func withSigners(ctx bazaar.Context, signers []bazaar.Condition) bazaar.Context {
	return context.WithValue(ctx, signersKey{}, signers)
}

// Authenticate exposes the keys whose signatures the Decorator verified.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the verified signers in signature order, or nil.
func (Authenticate) GetConditions(ctx bazaar.Context) []bazaar.Condition {
	signers, _ := ctx.Value(signersKey{}).([]bazaar.Condition)
	return signers
}

func (a Authenticate) HasAddress(ctx bazaar.Context, addr bazaar.Address) bool {
	return x.AnyHasAddress(a.GetConditions(ctx), addr)
}
