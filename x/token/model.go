package token

import (
	"regexp"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// BucketName is where we store the holdings
const BucketName = "holding"

var isAsset = regexp.MustCompile(`^[A-Za-z0-9_\-\.]{3,32}$`).MatchString

// Holding keeps the balance of a single asset.
type Holding struct {
	Metadata  *bazaar.Metadata `json:"metadata"`
	Asset     string           `json:"asset"`
	Authority bazaar.Address   `json:"authority"`
	Amount    uint64           `json:"amount"`
}

var _ orm.Model = (*Holding)(nil)

func (h *Holding) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", h.Metadata.Validate())
	if !isAsset(h.Asset) {
		errs = errors.Append(errs, errors.Field("Asset", errors.ErrInput, "invalid asset name"))
	}
	errs = errors.AppendField(errs, "Authority", h.Authority.Validate())
	return errs
}

func (h *Holding) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if h.Metadata != nil {
		if err := e.Message(1, h.Metadata); err != nil {
			return nil, err
		}
	}
	e.String(2, h.Asset)
	e.RawBytes(3, h.Authority)
	e.Uvarint(4, h.Amount)
	return e.Bytes(), nil
}

func (h *Holding) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			h.Metadata = &bazaar.Metadata{}
			return d.Message(h.Metadata)
		case 2:
			h.Asset = d.String()
		case 3:
			h.Authority = d.Bytes()
		case 4:
			h.Amount = d.Uvarint
		}
		return nil
	})
}

// NewBucket returns the bucket of holdings, keyed by the holding address and
// indexed by the authority.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Holding{},
		orm.WithIndex("authority", authorityIndex, false),
	)
}

func authorityIndex(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	h, ok := obj.Value().(*Holding)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return h.Authority, nil
}

var holdingSeq = orm.NewSequence(BucketName, "id")

// Condition returns the condition of the holding with given sequence value.
// Nobody can sign for it, only the holding authority can move the balance.
func Condition(id []byte) bazaar.Condition {
	return bazaar.NewCondition("token", "hold", id)
}
