package app

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x/sigs"
)

// Tx is the transaction envelope of the bazaar chain. It carries a single
// message and the signatures authorizing it.
type Tx struct {
	Msg        bazaar.Msg
	Signatures []*sigs.StdSignature
}

var (
	_ bazaar.Tx     = (*Tx)(nil)
	_ sigs.SignedTx = (*Tx)(nil)
)

// TxDecoder decodes the amino encoded envelope.
func TxDecoder(raw []byte) (bazaar.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (tx *Tx) GetMsg() (bazaar.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature { return tx.Signatures }

// GetSignBytes encodes the envelope without signatures, so that every
// signer signs the same bytes.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "encode tx: %s", err)
	}
	return raw, nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrInput, "empty transaction")
	}
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrapf(errors.ErrInput, "decode tx: %s", err)
	}
	return nil
}
