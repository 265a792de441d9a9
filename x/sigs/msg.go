package sigs

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the nonce of the main signer. It allows to
// invalidate already signed but not yet submitted transactions.
type BumpSequenceMsg struct {
	Metadata  *bazaar.Metadata
	Increment uint32
}

var _ bazaar.Msg = (*BumpSequenceMsg)(nil)

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}

func (msg *BumpSequenceMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (msg *BumpSequenceMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if msg.Metadata != nil {
		if err := e.Message(1, msg.Metadata); err != nil {
			return nil, err
		}
	}
	e.Uvarint(2, uint64(msg.Increment))
	return e.Bytes(), nil
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			msg.Metadata = &bazaar.Metadata{}
			return d.Message(msg.Metadata)
		case 2:
			n, err := d.Uint32()
			if err != nil {
				return errors.Wrap(err, "increment")
			}
			msg.Increment = n
		}
		return nil
	})
}
