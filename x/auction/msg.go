package auction

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
	"github.com/iov-one/bazaar/orm"
)

const (
	pathCreateMsg              = "auction/create"
	pathCancelMsg              = "auction/cancel"
	pathBidMsg                 = "auction/bid"
	pathBuyNowMsg              = "auction/buy_now"
	pathCloseMsg               = "auction/close"
	pathCloseBuyNowMsg         = "auction/close_buy_now"
	pathUpdateConfigurationMsg = "auction/update_configuration"
)

func validateID(id []byte) error {
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "auction id must be 8 bytes, got %d", len(id))
	}
	if orm.DecodeSequence(id) < 1 {
		return errors.Wrap(errors.ErrInput, "auction id must be positive")
	}
	return nil
}

// CreateMsg exhibits a single asset unit. The unit is moved from the source
// holding into the custody holding, whose authority is handed to the
// custodian.
type CreateMsg struct {
	Metadata       *bazaar.Metadata
	Exhibitor      bazaar.Address
	SourceHolding  bazaar.Address
	CustodyHolding bazaar.Address
	InitialPrice   uint64
	// Duration of the timed auction in seconds.
	Duration  uint32
	SellPrice uint64
}

var _ bazaar.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return pathCreateMsg
}

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Exhibitor", m.Exhibitor.Validate())
	errs = errors.AppendField(errs, "SourceHolding", m.SourceHolding.Validate())
	errs = errors.AppendField(errs, "CustodyHolding", m.CustodyHolding.Validate())
	if m.SourceHolding.Equals(m.CustodyHolding) {
		errs = errors.Append(errs, errors.Field("CustodyHolding", errors.ErrInput, "must differ from the source"))
	}
	if m.Duration == 0 {
		errs = errors.Append(errs, errors.Field("Duration", errors.ErrInput, "must be positive"))
	}
	return errs
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if m.Metadata != nil {
		if err := e.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, m.Exhibitor)
	e.RawBytes(3, m.SourceHolding)
	e.RawBytes(4, m.CustodyHolding)
	e.Uvarint(5, m.InitialPrice)
	e.Uvarint(6, uint64(m.Duration))
	e.Uvarint(7, m.SellPrice)
	return e.Bytes(), nil
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			m.Metadata = &bazaar.Metadata{}
			return d.Message(m.Metadata)
		case 2:
			m.Exhibitor = d.Bytes()
		case 3:
			m.SourceHolding = d.Bytes()
		case 4:
			m.CustodyHolding = d.Bytes()
		case 5:
			m.InitialPrice = d.Uvarint
		case 6:
			duration, err := d.Uint32()
			if err != nil {
				return errors.Wrap(err, "duration")
			}
			m.Duration = duration
		case 7:
			m.SellPrice = d.Uvarint
		}
		return nil
	})
}

// CancelMsg returns the asset to the exhibitor of an uncontested auction.
type CancelMsg struct {
	Metadata       *bazaar.Metadata
	AuctionID      []byte
	Exhibitor      bazaar.Address
	CustodyHolding bazaar.Address
	// Destination is an exhibitor holding that receives the asset.
	Destination bazaar.Address
}

var _ bazaar.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "AuctionID", validateID(m.AuctionID))
	errs = errors.AppendField(errs, "Exhibitor", m.Exhibitor.Validate())
	errs = errors.AppendField(errs, "CustodyHolding", m.CustodyHolding.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	return errs
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if m.Metadata != nil {
		if err := e.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, m.AuctionID)
	e.RawBytes(3, m.Exhibitor)
	e.RawBytes(4, m.CustodyHolding)
	e.RawBytes(5, m.Destination)
	return e.Bytes(), nil
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			m.Metadata = &bazaar.Metadata{}
			return d.Message(m.Metadata)
		case 2:
			m.AuctionID = d.Bytes()
		case 3:
			m.Exhibitor = d.Bytes()
		case 4:
			m.CustodyHolding = d.Bytes()
		case 5:
			m.Destination = d.Bytes()
		}
		return nil
	})
}

// BidMsg commits the bidder to pay Price if the auction is settled in their
// favour. No funds are moved.
type BidMsg struct {
	Metadata  *bazaar.Metadata
	AuctionID []byte
	Bidder    bazaar.Address
	Price     uint64
}

var _ bazaar.Msg = (*BidMsg)(nil)

func (BidMsg) Path() string {
	return pathBidMsg
}

func (m *BidMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "AuctionID", validateID(m.AuctionID))
	errs = errors.AppendField(errs, "Bidder", m.Bidder.Validate())
	return errs
}

func (m *BidMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if m.Metadata != nil {
		if err := e.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, m.AuctionID)
	e.RawBytes(3, m.Bidder)
	e.Uvarint(4, m.Price)
	return e.Bytes(), nil
}

func (m *BidMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			m.Metadata = &bazaar.Metadata{}
			return d.Message(m.Metadata)
		case 2:
			m.AuctionID = d.Bytes()
		case 3:
			m.Bidder = d.Bytes()
		case 4:
			m.Price = d.Uvarint
		}
		return nil
	})
}

// BuyNowMsg registers the intent to buy at the fixed sell price. SellPrice
// must repeat the price declared by the exhibitor.
type BuyNowMsg struct {
	Metadata  *bazaar.Metadata
	AuctionID []byte
	Bidder    bazaar.Address
	SellPrice uint64
}

var _ bazaar.Msg = (*BuyNowMsg)(nil)

func (BuyNowMsg) Path() string {
	return pathBuyNowMsg
}

func (m *BuyNowMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "AuctionID", validateID(m.AuctionID))
	errs = errors.AppendField(errs, "Bidder", m.Bidder.Validate())
	return errs
}

func (m *BuyNowMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if m.Metadata != nil {
		if err := e.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, m.AuctionID)
	e.RawBytes(3, m.Bidder)
	e.Uvarint(4, m.SellPrice)
	return e.Bytes(), nil
}

func (m *BuyNowMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			m.Metadata = &bazaar.Metadata{}
			return d.Message(m.Metadata)
		case 2:
			m.AuctionID = d.Bytes()
		case 3:
			m.Bidder = d.Bytes()
		case 4:
			m.SellPrice = d.Uvarint
		}
		return nil
	})
}

// CloseMsg settles an auction. The same message is used to settle both the
// timed auction and the buy-now purchase, the message path decides which
// rules apply.
type CloseMsg struct {
	Metadata       *bazaar.Metadata
	AuctionID      []byte
	Winner         bazaar.Address
	Exhibitor      bazaar.Address
	CustodyHolding bazaar.Address
	// Receiving is the winner holding that receives the asset.
	Receiving bazaar.Address
}

var _ bazaar.Msg = (*CloseMsg)(nil)

func (CloseMsg) Path() string {
	return pathCloseMsg
}

func (m *CloseMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "AuctionID", validateID(m.AuctionID))
	errs = errors.AppendField(errs, "Winner", m.Winner.Validate())
	errs = errors.AppendField(errs, "Exhibitor", m.Exhibitor.Validate())
	errs = errors.AppendField(errs, "CustodyHolding", m.CustodyHolding.Validate())
	errs = errors.AppendField(errs, "Receiving", m.Receiving.Validate())
	return errs
}

func (m *CloseMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if m.Metadata != nil {
		if err := e.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, m.AuctionID)
	e.RawBytes(3, m.Winner)
	e.RawBytes(4, m.Exhibitor)
	e.RawBytes(5, m.CustodyHolding)
	e.RawBytes(6, m.Receiving)
	return e.Bytes(), nil
}

func (m *CloseMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			m.Metadata = &bazaar.Metadata{}
			return d.Message(m.Metadata)
		case 2:
			m.AuctionID = d.Bytes()
		case 3:
			m.Winner = d.Bytes()
		case 4:
			m.Exhibitor = d.Bytes()
		case 5:
			m.CustodyHolding = d.Bytes()
		case 6:
			m.Receiving = d.Bytes()
		}
		return nil
	})
}

// CloseBuyNowMsg settles an auction at the sell price without waiting for
// the expiration.
type CloseBuyNowMsg struct {
	CloseMsg
}

var _ bazaar.Msg = (*CloseBuyNowMsg)(nil)

func (CloseBuyNowMsg) Path() string {
	return pathCloseBuyNowMsg
}

// UpdateConfigurationMsg patches the auction configuration.
type UpdateConfigurationMsg struct {
	Metadata *bazaar.Metadata
	Patch    *Configuration
}

var _ gconf.PatchMsg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) GetPatch() gconf.OwnedConfig {
	if m.Patch == nil {
		return nil
	}
	return m.Patch
}

func (m *UpdateConfigurationMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if m.Metadata != nil {
		if err := e.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	if m.Patch != nil {
		if err := e.Message(2, m.Patch); err != nil {
			return nil, err
		}
	}
	return e.Bytes(), nil
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			m.Metadata = &bazaar.Metadata{}
			return d.Message(m.Metadata)
		case 2:
			m.Patch = &Configuration{}
			return d.Message(m.Patch)
		}
		return nil
	})
}
