package auction

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/x"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/token"
)

const (
	createAuctionCost int64 = 300
	cancelAuctionCost int64 = 0
	bidCost           int64 = 50
	buyNowCost        int64 = 50
	closeAuctionCost  int64 = 0
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r bazaar.Registry, auth x.Authenticator, cashctrl cash.Controller, tokens token.Controller) {
	bucket := NewBucket()
	r.Handle(pathCreateMsg, CreateAuctionHandler{auth: auth, bucket: bucket, tokens: tokens})
	r.Handle(pathCancelMsg, CancelAuctionHandler{auth: auth, bucket: bucket, tokens: tokens})
	r.Handle(pathBidMsg, BidHandler{auth: auth, bucket: bucket, cash: cashctrl})
	r.Handle(pathBuyNowMsg, BuyNowHandler{auth: auth, bucket: bucket, cash: cashctrl})
	r.Handle(pathCloseMsg, CloseAuctionHandler{auth: auth, bucket: bucket, cash: cashctrl, tokens: tokens, timed: true})
	r.Handle(pathCloseBuyNowMsg, CloseAuctionHandler{auth: auth, bucket: bucket, cash: cashctrl, tokens: tokens})
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(
		packageName, func() gconf.OwnedConfig { return &Configuration{} }, auth, nil))
}

// RegisterQuery will register the auction bucket as "/auctions" and the
// custodian lookup as "/custodian".
func RegisterQuery(qr bazaar.QueryRouter) {
	NewBucket().Register("auctions", qr)
	qr.Register("/custodian", custodianQuery{})
}

// loadAuction returns the auction with given id. A missing auction was
// either never created or already destroyed.
func loadAuction(db bazaar.ReadOnlyKVStore, bucket orm.ModelBucket, id []byte) (*Auction, error) {
	var a Auction
	switch err := bucket.One(db, id, &a); {
	case err == nil:
		return &a, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrLifecycle, "auction %X does not exist", id)
	default:
		return nil, errors.Wrap(err, "cannot load auction")
	}
}

// CreateAuctionHandler moves the asset into custody and opens the auction.
type CreateAuctionHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	tokens token.Controller
}

var _ bazaar.Handler = CreateAuctionHandler{}

func (h CreateAuctionHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: createAuctionCost}, nil
}

func (h CreateAuctionHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, custodian, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := bazaar.BlockTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	endAt, err := bazaar.AsUnixTime(now).AddSeconds(msg.Duration)
	if err != nil {
		return nil, errors.Wrap(err, "end at")
	}

	auction := &Auction{
		Metadata:       &bazaar.Metadata{Schema: 1},
		Exhibitor:      msg.Exhibitor,
		CustodyHolding: msg.CustodyHolding,
		Price:          msg.InitialPrice,
		EndAt:          endAt,
		HighestBidder:  msg.Exhibitor,
		SellPrice:      msg.SellPrice,
		Protocol:       custodian.Protocol,
		CustodianBump:  custodian.Bump,
	}
	id, err := h.bucket.Put(db, nil, auction)
	if err != nil {
		return nil, errors.Wrap(err, "cannot store auction")
	}

	if err := h.tokens.DelegateAuthority(ctx, h.auth, db, msg.CustodyHolding, custodian.Address()); err != nil {
		return nil, errors.Wrap(err, "delegate custody")
	}
	if err := h.tokens.Transfer(ctx, h.auth, db, msg.SourceHolding, msg.CustodyHolding, 1); err != nil {
		return nil, errors.Wrap(err, "deposit asset")
	}

	bazaar.GetLogger(ctx).Info("auction created",
		"auction", orm.DecodeSequence(id),
		"exhibitor", msg.Exhibitor,
		"end_at", int64(endAt))
	return &bazaar.DeliverResult{Data: id}, nil
}

func (h CreateAuctionHandler) validate(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*CreateMsg, Custodian, error) {
	var msg CreateMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, Custodian{}, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Exhibitor, "exhibitor"); err != nil {
		return nil, Custodian{}, err
	}

	source, err := h.tokens.Holding(db, msg.SourceHolding)
	if err != nil {
		return nil, Custodian{}, errors.Wrap(err, "source holding")
	}
	if !source.Authority.Equals(msg.Exhibitor) {
		return nil, Custodian{}, errors.Wrap(ErrIdentityMismatch, "source holding is not owned by the exhibitor")
	}
	if source.Amount != 1 {
		return nil, Custodian{}, errors.Wrapf(errors.ErrAmount, "source holding must keep exactly one unit, got %d", source.Amount)
	}

	custody, err := h.tokens.Holding(db, msg.CustodyHolding)
	if err != nil {
		return nil, Custodian{}, errors.Wrap(err, "custody holding")
	}
	if !custody.Authority.Equals(msg.Exhibitor) {
		return nil, Custodian{}, errors.Wrap(ErrIdentityMismatch, "custody holding is not owned by the exhibitor")
	}
	if custody.Amount != 0 {
		return nil, Custodian{}, errors.Wrap(errors.ErrState, "custody holding must be empty")
	}
	if custody.Asset != source.Asset {
		return nil, Custodian{}, errors.Wrapf(errors.ErrInput, "custody holding keeps %s, not %s", custody.Asset, source.Asset)
	}

	// The next id must not be taken.
	latest, _, err := auctionSeq.Latest(db)
	if err != nil {
		return nil, Custodian{}, errors.Wrap(err, "auction sequence")
	}
	if err := h.bucket.Has(db, orm.EncodeSequence(latest+1)); err == nil {
		return nil, Custodian{}, errors.Wrap(ErrLifecycle, "auction slot already initialized")
	}

	custodian, err := LoadCustodian(db)
	if err != nil {
		return nil, Custodian{}, err
	}
	return &msg, custodian, nil
}

// CancelAuctionHandler returns the asset to the exhibitor as long as nobody
// bid.
type CancelAuctionHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	tokens token.Controller
}

var _ bazaar.Handler = CancelAuctionHandler{}

func (h CancelAuctionHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: cancelAuctionCost}, nil
}

func (h CancelAuctionHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, auction, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := releaseCustody(ctx, db, h.tokens, auction, msg.Destination); err != nil {
		return nil, err
	}
	if err := h.bucket.Delete(db, msg.AuctionID); err != nil {
		return nil, errors.Wrap(err, "cannot delete auction")
	}
	bazaar.GetLogger(ctx).Info("auction cancelled", "auction", orm.DecodeSequence(msg.AuctionID))
	return &bazaar.DeliverResult{}, nil
}

func (h CancelAuctionHandler) validate(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*CancelMsg, *Auction, error) {
	var msg CancelMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	auction, err := loadAuction(db, h.bucket, msg.AuctionID)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Exhibitor, "exhibitor"); err != nil {
		return nil, nil, err
	}
	if !auction.Exhibitor.Equals(msg.Exhibitor) {
		return nil, nil, errors.Wrap(ErrIdentityMismatch, "exhibitor")
	}
	if auction.IsContested() {
		return nil, nil, errors.Wrap(ErrLifecycle, "cannot cancel an auction with a bid")
	}
	if !auction.CustodyHolding.Equals(msg.CustodyHolding) {
		return nil, nil, errors.Wrap(ErrIdentityMismatch, "custody holding")
	}
	if err := checkCustody(db, h.tokens, auction); err != nil {
		return nil, nil, err
	}
	if err := checkReceiving(db, h.tokens, auction, msg.Destination, msg.Exhibitor); err != nil {
		return nil, nil, errors.Wrap(err, "destination")
	}
	return &msg, auction, nil
}

// BidHandler records a higher price offered by a bidder.
type BidHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
}

var _ bazaar.Handler = BidHandler{}

func (h BidHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: bidCost}, nil
}

func (h BidHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, auction, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	auction.Price = msg.Price
	auction.HighestBidder = msg.Bidder
	if _, err := h.bucket.Put(db, msg.AuctionID, auction); err != nil {
		return nil, errors.Wrap(err, "cannot store auction")
	}
	return &bazaar.DeliverResult{}, nil
}

func (h BidHandler) validate(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*BidMsg, *Auction, error) {
	var msg BidMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	auction, err := loadAuction(db, h.bucket, msg.AuctionID)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Bidder, "bidder"); err != nil {
		return nil, nil, err
	}
	if err := requireBalance(db, h.cash, msg.Bidder, msg.Price); err != nil {
		return nil, nil, err
	}
	if auction.HighestBidder.Equals(msg.Bidder) {
		return nil, nil, errors.Wrap(ErrDuplicateBidder, "bidder already holds the highest bid")
	}
	if auction.Exhibitor.Equals(msg.Bidder) {
		return nil, nil, errors.Wrap(ErrIdentityMismatch, "exhibitor cannot bid on own auction")
	}
	if msg.Price <= auction.Price {
		return nil, nil, errors.Wrapf(ErrPriceOrdering, "bid %d must exceed %d", msg.Price, auction.Price)
	}
	if bazaar.IsExpired(ctx, auction.EndAt) {
		return nil, nil, errors.Wrapf(ErrTimeWindow, "auction ended at %s", auction.EndAt)
	}
	return &msg, auction, nil
}

// BuyNowHandler records the intent to buy at the fixed sell price.
type BuyNowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
}

var _ bazaar.Handler = BuyNowHandler{}

func (h BuyNowHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: buyNowCost}, nil
}

func (h BuyNowHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, auction, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	auction.SellPrice = msg.SellPrice
	auction.HighestBidder = msg.Bidder
	if _, err := h.bucket.Put(db, msg.AuctionID, auction); err != nil {
		return nil, errors.Wrap(err, "cannot store auction")
	}
	return &bazaar.DeliverResult{}, nil
}

// validate does not compare the sell price with the current bid.
func (h BuyNowHandler) validate(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*BuyNowMsg, *Auction, error) {
	var msg BuyNowMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	auction, err := loadAuction(db, h.bucket, msg.AuctionID)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Bidder, "bidder"); err != nil {
		return nil, nil, err
	}
	if err := requireBalance(db, h.cash, msg.Bidder, msg.SellPrice); err != nil {
		return nil, nil, err
	}
	if auction.HighestBidder.Equals(msg.Bidder) {
		return nil, nil, errors.Wrap(ErrDuplicateBidder, "bidder already holds the highest bid")
	}
	if auction.Exhibitor.Equals(msg.Bidder) {
		return nil, nil, errors.Wrap(ErrIdentityMismatch, "exhibitor cannot bid on own auction")
	}
	if msg.SellPrice != auction.SellPrice {
		return nil, nil, errors.Wrapf(ErrPriceOrdering, "sell price is %d, got %d", auction.SellPrice, msg.SellPrice)
	}
	if bazaar.IsExpired(ctx, auction.EndAt) {
		return nil, nil, errors.Wrapf(ErrTimeWindow, "auction ended at %s", auction.EndAt)
	}
	return &msg, auction, nil
}

// CloseAuctionHandler settles an auction. A timed handler settles at the
// highest bid and only after the auction expired. Otherwise the sell price
// is paid and the expiration is not checked.
type CloseAuctionHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
	tokens token.Controller
	timed  bool
}

var _ bazaar.Handler = CloseAuctionHandler{}

func (h CloseAuctionHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: closeAuctionCost}, nil
}

func (h CloseAuctionHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, auction, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	amount := h.amount(auction)
	if err := h.cash.Pay(db, msg.Winner, auction.Exhibitor, amount); err != nil {
		return nil, errors.Wrap(err, "payment")
	}
	if err := releaseCustody(ctx, db, h.tokens, auction, msg.Receiving); err != nil {
		return nil, err
	}
	if err := h.bucket.Delete(db, msg.AuctionID); err != nil {
		return nil, errors.Wrap(err, "cannot delete auction")
	}
	bazaar.GetLogger(ctx).Info("auction settled",
		"auction", orm.DecodeSequence(msg.AuctionID),
		"winner", msg.Winner,
		"amount", amount,
		"timed", h.timed)
	return &bazaar.DeliverResult{}, nil
}

func (h CloseAuctionHandler) amount(a *Auction) uint64 {
	if h.timed {
		return a.Price
	}
	return a.SellPrice
}

func (h CloseAuctionHandler) validate(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*CloseMsg, *Auction, error) {
	var msg CloseMsg
	if h.timed {
		if err := bazaar.LoadMsg(tx, &msg); err != nil {
			return nil, nil, errors.Wrap(err, "load msg")
		}
	} else {
		var bn CloseBuyNowMsg
		if err := bazaar.LoadMsg(tx, &bn); err != nil {
			return nil, nil, errors.Wrap(err, "load msg")
		}
		msg = bn.CloseMsg
	}

	auction, err := loadAuction(db, h.bucket, msg.AuctionID)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Winner, "winner"); err != nil {
		return nil, nil, err
	}
	if !auction.Exhibitor.Equals(msg.Exhibitor) {
		return nil, nil, errors.Wrap(ErrIdentityMismatch, "exhibitor")
	}
	if !auction.CustodyHolding.Equals(msg.CustodyHolding) {
		return nil, nil, errors.Wrap(ErrIdentityMismatch, "custody holding")
	}
	if err := checkCustody(db, h.tokens, auction); err != nil {
		return nil, nil, err
	}
	if !auction.HighestBidder.Equals(msg.Winner) {
		return nil, nil, errors.Wrap(ErrIdentityMismatch, "winner is not the highest bidder")
	}
	if h.timed && !bazaar.IsExpired(ctx, auction.EndAt) {
		return nil, nil, errors.Wrapf(ErrTimeWindow, "auction ends at %s", auction.EndAt)
	}
	if err := checkReceiving(db, h.tokens, auction, msg.Receiving, nil); err != nil {
		return nil, nil, errors.Wrap(err, "receiving")
	}
	if err := requireBalance(db, h.cash, msg.Winner, h.amount(auction)); err != nil {
		return nil, nil, err
	}
	return &msg, auction, nil
}

// requireBalance fails if the native currency balance of given address is
// below the amount.
func requireBalance(db bazaar.ReadOnlyKVStore, ctrl cash.Controller, addr bazaar.Address, amount uint64) error {
	balance, err := ctrl.Balance(db, addr)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	if balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, want %d", balance, amount)
	}
	return nil
}

// checkReceiving ensures the holding exists and keeps the auctioned asset.
// When owner is given the holding must be controlled by it.
func checkReceiving(db bazaar.ReadOnlyKVStore, tokens token.Controller, a *Auction, addr, owner bazaar.Address) error {
	if addr.Equals(a.CustodyHolding) {
		return errors.Wrap(errors.ErrInput, "cannot be the custody holding")
	}
	custody, err := tokens.Holding(db, a.CustodyHolding)
	if err != nil {
		return errors.Wrap(err, "custody holding")
	}
	h, err := tokens.Holding(db, addr)
	if err != nil {
		return err
	}
	if h.Asset != custody.Asset {
		return errors.Wrapf(errors.ErrInput, "holding keeps %s, not %s", h.Asset, custody.Asset)
	}
	if owner != nil && !h.Authority.Equals(owner) {
		return errors.Wrap(ErrIdentityMismatch, "holding owner")
	}
	return nil
}

// checkCustody ensures the custody holding is still controlled by the
// custodian recorded on the auction.
func checkCustody(db bazaar.ReadOnlyKVStore, tokens token.Controller, a *Auction) error {
	custodian, err := a.Custodian()
	if err != nil {
		return err
	}
	custody, err := tokens.Holding(db, a.CustodyHolding)
	if err != nil {
		return errors.Wrap(err, "custody holding")
	}
	if !custody.Authority.Equals(custodian.Address()) {
		return errors.Wrap(errors.ErrState, "custody holding is not controlled by the auction custodian")
	}
	return nil
}

// releaseCustody acts as the custodian recorded on the auction. It moves
// the whole custody balance to given holding and closes the custody
// holding, returning its deposit to the exhibitor.
func releaseCustody(ctx bazaar.Context, db bazaar.KVStore, tokens token.Controller, a *Auction, to bazaar.Address) error {
	custodian, err := a.Custodian()
	if err != nil {
		return err
	}
	custody, err := tokens.Holding(db, a.CustodyHolding)
	if err != nil {
		return errors.Wrap(err, "custody holding")
	}
	ctx = withCustodian(ctx, custodian)
	var auth Authenticate
	if custody.Amount > 0 {
		if err := tokens.Transfer(ctx, auth, db, a.CustodyHolding, to, custody.Amount); err != nil {
			return errors.Wrap(err, "release asset")
		}
	}
	if err := tokens.CloseAccount(ctx, auth, db, a.CustodyHolding, a.Exhibitor); err != nil {
		return errors.Wrap(err, "close custody")
	}
	return nil
}

type custodianQuery struct{}

// Query returns the custodian address as the key and its condition as the
// value. Query data is ignored.
func (custodianQuery) Query(db bazaar.ReadOnlyKVStore, mod string, data []byte) ([]bazaar.Model, error) {
	if mod != bazaar.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mode %q", mod)
	}
	c, err := LoadCustodian(db)
	if err != nil {
		return nil, err
	}
	return []bazaar.Model{bazaar.Pair(c.Address(), c.Condition)}, nil
}
