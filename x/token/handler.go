package token

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
	"github.com/iov-one/bazaar/x"
)

const (
	createHoldingCost int64 = 300
	transferCost      int64 = 100
	delegateCost      int64 = 100
	closeHoldingCost  int64 = 0
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r bazaar.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(pathCreateHoldingMsg, &createHoldingHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathTransferMsg, &transferHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathDelegateMsg, &delegateHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathCloseHoldingMsg, &closeHoldingHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(
		packageName, func() gconf.OwnedConfig { return &Configuration{} }, auth, nil))
}

// RegisterQuery will register the holdings bucket as "/holdings".
func RegisterQuery(qr bazaar.QueryRouter) {
	NewBucket().Register("holdings", qr)
}

type createHoldingHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *createHoldingHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: createHoldingCost}, nil
}

func (h *createHoldingHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.Open(db, msg.Owner, msg.Asset)
	if err != nil {
		return nil, err
	}
	bazaar.GetLogger(ctx).Debug("holding created", "holding", addr, "asset", msg.Asset)
	return &bazaar.DeliverResult{Data: addr}, nil
}

func (h *createHoldingHandler) validate(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*CreateHoldingMsg, error) {
	var msg CreateHoldingMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Owner, "owner"); err != nil {
		return nil, err
	}
	return &msg, nil
}

type transferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *transferHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	var msg TransferMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	src, err := h.ctrl.Holding(db, msg.Src)
	if err != nil {
		return nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, src.Authority, "source authority"); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: transferCost}, nil
}

func (h *transferHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	var msg TransferMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.Transfer(ctx, h.auth, db, msg.Src, msg.Dest, msg.Amount); err != nil {
		return nil, err
	}
	return &bazaar.DeliverResult{}, nil
}

type delegateHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *delegateHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	var msg DelegateMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	holding, err := h.ctrl.Holding(db, msg.Holding)
	if err != nil {
		return nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, holding.Authority, "authority"); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: delegateCost}, nil
}

func (h *delegateHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	var msg DelegateMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.DelegateAuthority(ctx, h.auth, db, msg.Holding, msg.Authority); err != nil {
		return nil, err
	}
	return &bazaar.DeliverResult{}, nil
}

type closeHoldingHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *closeHoldingHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	var msg CloseHoldingMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	holding, err := h.ctrl.Holding(db, msg.Holding)
	if err != nil {
		return nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, holding.Authority, "authority"); err != nil {
		return nil, err
	}
	if holding.Amount != 0 {
		return nil, errors.Wrapf(errors.ErrState, "holding keeps %d %s", holding.Amount, holding.Asset)
	}
	return &bazaar.CheckResult{GasAllocated: closeHoldingCost}, nil
}

func (h *closeHoldingHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	var msg CloseHoldingMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.CloseAccount(ctx, h.auth, db, msg.Holding, msg.Destination); err != nil {
		return nil, err
	}
	return &bazaar.DeliverResult{}, nil
}
