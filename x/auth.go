package x

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Authenticator reveals the conditions a transaction is authorized by.
// Handlers receive it in their constructor so that the signature scheme
// and the internal custody identities can be combined freely.
type Authenticator interface {
	// GetConditions returns every condition fulfilled in this context.
	GetConditions(bazaar.Context) []bazaar.Condition
	// HasAddress returns true if a fulfilled condition has this address.
	HasAddress(bazaar.Context, bazaar.Address) bool
}

// MultiAuth merges the conditions of several authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth returns an authenticator that accepts a condition when any of
// impls does.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

// GetConditions returns the conditions of all authenticators, in order.
func (m MultiAuth) GetConditions(ctx bazaar.Context) []bazaar.Condition {
	var res []bazaar.Condition
	for _, impl := range m {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

func (m MultiAuth) HasAddress(ctx bazaar.Context, addr bazaar.Address) bool {
	for _, impl := range m {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all fulfilled conditions.
func GetAddresses(ctx bazaar.Context, auth Authenticator) []bazaar.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]bazaar.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}

// MainSigner returns the first fulfilled condition or nil.
func MainSigner(ctx bazaar.Context, auth Authenticator) bazaar.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}

// HasAllAddresses returns true if every address in required is
// authenticated.
func HasAllAddresses(ctx bazaar.Context, auth Authenticator, required []bazaar.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// RequireSigner returns ErrUnauthorized unless addr is authenticated. Role
// names the party in the error message, eg. "bidder".
func RequireSigner(ctx bazaar.Context, auth Authenticator, addr bazaar.Address, role string) error {
	if auth.HasAddress(ctx, addr) {
		return nil
	}
	return errors.Wrapf(errors.ErrUnauthorized, "%s signature missing", role)
}

// AnyHasAddress reports whether one of conds maps to addr.
func AnyHasAddress(conds []bazaar.Condition, addr bazaar.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
