package token

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/x"
	"github.com/iov-one/bazaar/x/cash"
)

// Controller is the asset transfer primitive consumed by other extensions.
// Every mutating operation requires the holding authority to be
// authenticated by given authenticator.
type Controller interface {
	// Holding returns the holding stored under given address or
	// ErrNotFound.
	Holding(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (*Holding, error)

	// Open creates an empty holding of given asset controlled by owner.
	// The configured deposit is paid by the owner to the holding address.
	Open(db bazaar.KVStore, owner bazaar.Address, asset string) (bazaar.Address, error)

	// Transfer moves amount between two holdings of the same asset.
	Transfer(ctx bazaar.Context, auth x.Authenticator, db bazaar.KVStore, from, to bazaar.Address, amount uint64) error

	// DelegateAuthority hands the control of the holding to another
	// address.
	DelegateAuthority(ctx bazaar.Context, auth x.Authenticator, db bazaar.KVStore, holding, authority bazaar.Address) error

	// CloseAccount removes an empty holding. The native currency kept at
	// the holding address is paid to destination.
	CloseAccount(ctx bazaar.Context, auth x.Authenticator, db bazaar.KVStore, holding, destination bazaar.Address) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket orm.ModelBucket
	cash   cash.Controller
}

var _ Controller = BaseController{}

// NewController returns a controller that keeps the holding deposits using
// given currency controller.
func NewController(cashctrl cash.Controller) BaseController {
	return BaseController{
		bucket: NewBucket(),
		cash:   cashctrl,
	}
}

func (c BaseController) Holding(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (*Holding, error) {
	var h Holding
	if err := c.bucket.One(db, addr, &h); err != nil {
		return nil, errors.Wrapf(err, "holding %s", addr)
	}
	return &h, nil
}

func (c BaseController) Open(db bazaar.KVStore, owner bazaar.Address, asset string) (bazaar.Address, error) {
	return c.create(db, owner, asset, 0, true)
}

// create stores a new holding. Deposit is taken only when requested, so
// that genesis holdings can be created without any currency. Every check
// runs before the first write, a failed call leaves the store untouched.
func (c BaseController) create(db bazaar.KVStore, authority bazaar.Address, asset string, amount uint64, deposit bool) (bazaar.Address, error) {
	h := &Holding{
		Metadata:  &bazaar.Metadata{Schema: 1},
		Asset:     asset,
		Authority: authority,
		Amount:    amount,
	}
	if err := h.Validate(); err != nil {
		return nil, errors.Wrap(err, "holding")
	}

	var fee uint64
	if deposit {
		conf, err := loadConf(db)
		if err != nil {
			return nil, err
		}
		fee = conf.HoldingDeposit
		balance, err := c.cash.Balance(db, authority)
		if err != nil {
			return nil, errors.Wrap(err, "owner balance")
		}
		if balance < fee {
			return nil, errors.Wrapf(errors.ErrInsufficientAmount, "holding deposit is %d, owner has %d", fee, balance)
		}
	}

	id, err := holdingSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "holding sequence")
	}
	addr := Condition(id).Address()
	if _, err := c.bucket.Put(db, addr, h); err != nil {
		return nil, errors.Wrap(err, "save holding")
	}
	if fee > 0 {
		if err := c.cash.Pay(db, authority, addr, fee); err != nil {
			return nil, errors.Wrap(err, "holding deposit")
		}
	}
	return addr, nil
}

func (c BaseController) Transfer(ctx bazaar.Context, auth x.Authenticator, db bazaar.KVStore, from, to bazaar.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "transfer amount must be positive")
	}
	if from.Equals(to) {
		return errors.Wrap(errors.ErrInput, "source and destination must differ")
	}
	src, err := c.Holding(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if err := x.RequireSigner(ctx, auth, src.Authority, "source authority"); err != nil {
		return err
	}
	dst, err := c.Holding(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if src.Asset != dst.Asset {
		return errors.Wrapf(errors.ErrInput, "cannot transfer %s into %s holding", src.Asset, dst.Asset)
	}

	left, err := x.SubAmount(src.Amount, amount)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	total, err := x.AddAmount(dst.Amount, amount)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	src.Amount = left
	dst.Amount = total
	if _, err := c.bucket.Put(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if _, err := c.bucket.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func (c BaseController) DelegateAuthority(ctx bazaar.Context, auth x.Authenticator, db bazaar.KVStore, holding, authority bazaar.Address) error {
	if err := authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	h, err := c.Holding(db, holding)
	if err != nil {
		return err
	}
	if err := x.RequireSigner(ctx, auth, h.Authority, "authority"); err != nil {
		return err
	}
	h.Authority = authority
	if _, err := c.bucket.Put(db, holding, h); err != nil {
		return errors.Wrap(err, "save holding")
	}
	return nil
}

func (c BaseController) CloseAccount(ctx bazaar.Context, auth x.Authenticator, db bazaar.KVStore, holding, destination bazaar.Address) error {
	if err := destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	h, err := c.Holding(db, holding)
	if err != nil {
		return err
	}
	if err := x.RequireSigner(ctx, auth, h.Authority, "authority"); err != nil {
		return err
	}
	if h.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "holding keeps %d %s", h.Amount, h.Asset)
	}
	deposit, err := c.cash.Balance(db, holding)
	if err != nil {
		return errors.Wrap(err, "holding deposit")
	}
	if err := c.cash.Pay(db, holding, destination, deposit); err != nil {
		return errors.Wrap(err, "return deposit")
	}
	if err := c.bucket.Delete(db, holding); err != nil {
		return errors.Wrap(err, "delete holding")
	}
	return nil
}
