package sigs

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// verifyGas is charged in CheckTx for every valid signature.
const verifyGas = 500

// Decorator authenticates the signers of a transaction. Each valid
// signature consumes one nonce of its key and the signing keys are made
// available to the handlers through Authenticate.
type Decorator struct {
	optional bool
}

var _ bazaar.Decorator = Decorator{}

// NewDecorator returns a decorator that rejects unsigned transactions.
func NewDecorator() Decorator { return Decorator{} }

// AllowMissingSigs lets unsigned transactions through without signers.
func (d Decorator) AllowMissingSigs() Decorator {
	d.optional = true
	return d
}

func (d Decorator) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (*bazaar.CheckResult, error) {
	signers, err := d.signers(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(withSigners(ctx, signers), db, tx)
	if err != nil {
		return nil, err
	}
	res.GasPayment += int64(len(signers)) * verifyGas
	return res, nil
}

func (d Decorator) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (*bazaar.DeliverResult, error) {
	signers, err := d.signers(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(withSigners(ctx, signers), db, tx)
}

// signers verifies every signature of tx against the context chain id.
func (d Decorator) signers(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) ([]bazaar.Condition, error) {
	var signers []bazaar.Condition
	if stx, ok := tx.(SignedTx); ok {
		var err error
		signers, err = VerifyTxSignatures(db, stx, bazaar.GetChainID(ctx))
		if err != nil {
			return nil, errors.Wrap(err, "verify signatures")
		}
	} else if !d.optional {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%T does not carry signatures", tx)
	}
	if len(signers) == 0 && !d.optional {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signers, nil
}
