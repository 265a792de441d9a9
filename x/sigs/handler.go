package sigs

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/x"
)

// RegisterRoutes routes nonce bumps.
func RegisterRoutes(r bazaar.Registry, auth x.Authenticator) {
	r.Handle(pathBumpSequenceMsg, &bumpHandler{auth: auth, users: NewBucket()})
}

// bumpHandler skips nonces of the main signer, which voids every
// transaction signed ahead with one of them.
type bumpHandler struct {
	auth  x.Authenticator
	users orm.ModelBucket
}

func (h *bumpHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, _, err := h.prepare(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{}, nil
}

func (h *bumpHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	user, msg, err := h.prepare(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	// The signature of this very transaction consumed one nonce already.
	if skip := int64(msg.Increment) - 1; skip > 0 {
		user.Sequence += skip
		if _, err := h.users.Put(db, user.Pubkey.Address(), user); err != nil {
			return nil, errors.Wrap(err, "store nonce")
		}
	}
	return &bazaar.DeliverResult{}, nil
}

func (h *bumpHandler) prepare(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*UserData, *BumpSequenceMsg, error) {
	var msg BumpSequenceMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	var user UserData
	if err := h.users.One(db, signer.Address(), &user); err != nil {
		return nil, nil, errors.Wrap(err, "signer nonce")
	}
	if user.Sequence > maxSequence-int64(msg.Increment) {
		return nil, nil, errors.Wrap(errors.ErrOverflow, "nonce")
	}
	return &user, &msg, nil
}
