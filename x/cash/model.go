package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the native currency balance of an address.
type Wallet struct {
	Metadata *bazaar.Metadata `json:"metadata"`
	Amount   uint64           `json:"amount"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Validate() error {
	if err := w.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if w.Metadata != nil {
		if err := e.Message(1, w.Metadata); err != nil {
			return nil, err
		}
	}
	e.Uvarint(2, w.Amount)
	return e.Bytes(), nil
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			w.Metadata = &bazaar.Metadata{}
			return d.Message(w.Metadata)
		case 2:
			w.Amount = d.Uvarint
		}
		return nil
	})
}

// NewBucket returns the bucket of wallets, keyed by the owner address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
