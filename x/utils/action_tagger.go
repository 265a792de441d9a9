package utils

import (
	"github.com/iov-one/bazaar"
)

// ActionKey is the tag key holding the message path.
const ActionKey = "action"

// ActionTagger tags every successfully delivered transaction with
// "action=<message path>", so that clients can subscribe to eg. all auction
// settlements.
type ActionTagger struct{}

var _ bazaar.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (*bazaar.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver fails before dispatching when the message cannot be read.
func (ActionTagger) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (*bazaar.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &bazaar.DeliverResult{}
	}
	res.AddTag(ActionKey, msg.Path())
	return res, nil
}
