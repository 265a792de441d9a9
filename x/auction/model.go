package auction

import (
	"math"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// Auction is the escrow record of a single auction. It exists from the
// moment the asset is deposited until the auction is cancelled or settled.
type Auction struct {
	Metadata *bazaar.Metadata `json:"metadata"`
	// Exhibitor deposited the asset and receives the payment.
	Exhibitor bazaar.Address `json:"exhibitor"`
	// CustodyHolding keeps the asset while the auction is active.
	CustodyHolding bazaar.Address `json:"custody_holding"`
	// Price is the highest committed bid, starting at the initial price.
	Price uint64 `json:"price"`
	// EndAt is the expiration of the timed auction window.
	EndAt bazaar.UnixTime `json:"end_at"`
	// HighestBidder is entitled to win at the current price. It is the
	// exhibitor until the first bid or buy-now intent.
	HighestBidder bazaar.Address `json:"highest_bidder"`
	// SellPrice is the fixed buy-now price.
	SellPrice uint64 `json:"sell_price"`
	// Protocol and CustodianBump reproduce the custodian that holds
	// authority over the custody holding. They are fixed at creation so
	// that a configuration change does not lock the asset.
	Protocol      bazaar.Address `json:"protocol"`
	CustodianBump uint8          `json:"custodian_bump"`
}

var _ orm.Model = (*Auction)(nil)

func (a *Auction) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Exhibitor", a.Exhibitor.Validate())
	errs = errors.AppendField(errs, "CustodyHolding", a.CustodyHolding.Validate())
	errs = errors.AppendField(errs, "HighestBidder", a.HighestBidder.Validate())
	errs = errors.AppendField(errs, "EndAt", a.EndAt.Validate())
	errs = errors.AppendField(errs, "Protocol", a.Protocol.Validate())
	return errs
}

// Copy returns a deep copy of this auction.
func (a *Auction) Copy() *Auction {
	return &Auction{
		Metadata:       a.Metadata.Copy(),
		Exhibitor:      a.Exhibitor.Clone(),
		CustodyHolding: a.CustodyHolding.Clone(),
		Price:          a.Price,
		EndAt:          a.EndAt,
		HighestBidder:  a.HighestBidder.Clone(),
		SellPrice:      a.SellPrice,
		Protocol:       a.Protocol.Clone(),
		CustodianBump:  a.CustodianBump,
	}
}

// Custodian rebuilds the custodian recorded at creation and verifies its
// proof.
func (a *Auction) Custodian() (Custodian, error) {
	cond, err := VerifyCustodian(CustodianSeed, a.Protocol, a.CustodianBump)
	if err != nil {
		return Custodian{}, errors.Wrap(err, "auction custodian")
	}
	return Custodian{Condition: cond, Bump: a.CustodianBump, Protocol: a.Protocol}, nil
}

// IsContested returns true once anyone but the exhibitor registered a bid
// or a buy-now intent.
func (a *Auction) IsContested() bool {
	return !a.HighestBidder.Equals(a.Exhibitor)
}

func (a *Auction) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if a.Metadata != nil {
		if err := e.Message(1, a.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, a.Exhibitor)
	e.RawBytes(3, a.CustodyHolding)
	e.Uvarint(4, a.Price)
	e.Varint(5, int64(a.EndAt))
	e.RawBytes(6, a.HighestBidder)
	e.Uvarint(7, a.SellPrice)
	e.RawBytes(8, a.Protocol)
	e.Uvarint(9, uint64(a.CustodianBump))
	return e.Bytes(), nil
}

func (a *Auction) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			a.Metadata = &bazaar.Metadata{}
			return d.Message(a.Metadata)
		case 2:
			a.Exhibitor = d.Bytes()
		case 3:
			a.CustodyHolding = d.Bytes()
		case 4:
			a.Price = d.Uvarint
		case 5:
			a.EndAt = bazaar.UnixTime(d.Int64())
		case 6:
			a.HighestBidder = d.Bytes()
		case 7:
			a.SellPrice = d.Uvarint
		case 8:
			a.Protocol = d.Bytes()
		case 9:
			if d.Uvarint > math.MaxUint8 {
				return errors.Wrapf(errors.ErrInput, "custodian bump %d", d.Uvarint)
			}
			a.CustodianBump = uint8(d.Uvarint)
		}
		return nil
	})
}

// NewBucket returns the auction bucket. Auctions are stored under sequence
// ids and indexed by the exhibitor and the highest bidder.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("auction", &Auction{},
		orm.WithIDSequence(auctionSeq),
		orm.WithIndex("exhibitor", exhibitorIndex, false),
		orm.WithIndex("highest_bidder", highestBidderIndex, false),
	)
}

var auctionSeq = orm.NewSequence("auction", "id")

func exhibitorIndex(obj orm.Object) ([]byte, error) {
	a, err := asAuction(obj)
	if err != nil {
		return nil, err
	}
	return a.Exhibitor, nil
}

func highestBidderIndex(obj orm.Object) ([]byte, error) {
	a, err := asAuction(obj)
	if err != nil {
		return nil, err
	}
	return a.HighestBidder, nil
}

func asAuction(obj orm.Object) (*Auction, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	a, ok := obj.Value().(*Auction)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return a, nil
}
