package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

const (
	pathSendMsg = "cash/send"

	sendTxCost  int64 = 100
	maxMemoSize int   = 128
)

// SendMsg moves currency from the signer wallet to another address.
type SendMsg struct {
	Metadata *bazaar.Metadata
	Src      bazaar.Address
	Dest     bazaar.Address
	Amount   uint64
	Memo     string
}

var _ bazaar.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	if s.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	errs = errors.AppendField(errs, "Src", s.Src.Validate())
	errs = errors.AppendField(errs, "Dest", s.Dest.Validate())
	if len(s.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "too long"))
	}
	return errs
}

func (s *SendMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if s.Metadata != nil {
		if err := e.Message(1, s.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, s.Src)
	e.RawBytes(3, s.Dest)
	e.Uvarint(4, s.Amount)
	e.String(5, s.Memo)
	return e.Bytes(), nil
}

func (s *SendMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			s.Metadata = &bazaar.Metadata{}
			return d.Message(s.Metadata)
		case 2:
			s.Src = d.Bytes()
		case 3:
			s.Dest = d.Bytes()
		case 4:
			s.Amount = d.Uvarint
		case 5:
			s.Memo = d.String()
		}
		return nil
	})
}
