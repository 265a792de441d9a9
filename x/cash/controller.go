package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/x"
)

// Controller is the native currency primitive consumed by other extensions.
type Controller interface {
	// Balance returns the amount held by given address. An address that
	// never received any currency has a zero balance.
	Balance(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (uint64, error)

	// Pay moves given amount from one address to another. It fails with
	// ErrInsufficientAmount if the source balance is too low and with
	// ErrOverflow if the destination cannot hold the result.
	Pay(db bazaar.KVStore, from, to bazaar.Address, amount uint64) error

	// Issue creates new currency at given address.
	Issue(db bazaar.KVStore, to bazaar.Address, amount uint64) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) Balance(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (uint64, error) {
	w, err := c.wallet(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Amount, nil
}

func (c BaseController) Pay(db bazaar.KVStore, from, to bazaar.Address, amount uint64) error {
	if err := from.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.wallet(db, from)
	if err != nil {
		return err
	}
	left, err := x.SubAmount(sender.Amount, amount)
	if err != nil {
		return errors.Wrapf(err, "balance of %s", from)
	}
	if amount == 0 || from.Equals(to) {
		return nil
	}

	recipient, err := c.wallet(db, to)
	if err != nil {
		return err
	}
	total, err := x.AddAmount(recipient.Amount, amount)
	if err != nil {
		return errors.Wrapf(err, "balance of %s", to)
	}

	sender.Amount = left
	recipient.Amount = total
	if _, err := c.bucket.Put(db, from, sender); err != nil {
		return errors.Wrap(err, "save source")
	}
	if _, err := c.bucket.Put(db, to, recipient); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func (c BaseController) Issue(db bazaar.KVStore, to bazaar.Address, amount uint64) error {
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	w, err := c.wallet(db, to)
	if err != nil {
		return err
	}
	total, err := x.AddAmount(w.Amount, amount)
	if err != nil {
		return err
	}
	w.Amount = total
	if _, err := c.bucket.Put(db, to, w); err != nil {
		return errors.Wrap(err, "save wallet")
	}
	return nil
}

// wallet returns the stored wallet or an empty one.
func (c BaseController) wallet(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &bazaar.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "load wallet")
	}
}
