package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x"
)

// RegisterRoutes routes transfers between wallets.
func RegisterRoutes(r bazaar.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
}

// RegisterQuery exposes wallets under /wallets.
func RegisterQuery(qr bazaar.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler transfers native currency on behalf of the source wallet
// owner.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ bazaar.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

// Check rejects a transfer the source cannot cover, so that it never
// reaches a block.
func (h SendHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	msg, err := h.load(ctx, tx)
	if err != nil {
		return nil, err
	}
	switch balance, err := h.control.Balance(db, msg.Src); {
	case err != nil:
		return nil, err
	case balance < msg.Amount:
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "wallet holds %d of %d", balance, msg.Amount)
	}
	return bazaar.NewCheck(sendTxCost, ""), nil
}

func (h SendHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := h.load(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Pay(db, msg.Src, msg.Dest, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "transfer")
	}
	return &bazaar.DeliverResult{}, nil
}

// load decodes the message and requires the source owner signature.
func (h SendHandler) load(ctx bazaar.Context, tx bazaar.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Src, "wallet owner"); err != nil {
		return nil, err
	}
	return &msg, nil
}
