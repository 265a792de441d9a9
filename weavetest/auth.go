package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/bazaar"
)

// Auth is a static x.Authenticator mock. Signer and Signers are both
// authenticated, Signer is reported last.
type Auth struct {
	// Signer is a shortcut for a single signer.
	Signer  bazaar.Condition
	Signers []bazaar.Condition
}

func (a *Auth) GetConditions(bazaar.Context) []bazaar.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	all := make([]bazaar.Condition, 0, len(a.Signers)+1)
	return append(append(all, a.Signers...), a.Signer)
}

func (a *Auth) HasAddress(ctx bazaar.Context, addr bazaar.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth is an x.Authenticator mock that reads the conditions stored in the
// context under Key. Tests use it to authenticate different parties per
// call with a single handler instance.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

// SetConditions returns a context authenticating given conditions.
func (a *CtxAuth) SetConditions(ctx bazaar.Context, conds ...bazaar.Condition) bazaar.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx bazaar.Context) []bazaar.Condition {
	switch v := ctx.Value(ctxAuthKey(a.Key)).(type) {
	case nil:
		return nil
	case []bazaar.Condition:
		return v
	default:
		panic(fmt.Sprintf("instead of []bazaar.Condition got %T", v))
	}
}

func (a *CtxAuth) HasAddress(ctx bazaar.Context, addr bazaar.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []bazaar.Condition, addr bazaar.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
